package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/starsim/internal/celestial"
	"github.com/san-kum/starsim/internal/thermal"
)

// TemperatureHeader is the first line of every temperature file.
const TemperatureHeader = "name, temp, time, distance"

const staticTemp = "staticTemp"

// TemperatureLog accumulates per-body rows of name, temperature (°F, two
// decimals), time step and distance to the reference star. Stars other than
// the reference are logged with the literal temperature "staticTemp"; the
// reference itself and plain bodies are not logged. It satisfies
// sim.Observer.
type TemperatureLog struct {
	reference string
	timeStep  func() float64
	order     []string
	rows      map[string][]string
	err       error
}

// NewTemperatureLog measures distances from reference; timeStep reports
// the step in force when each row is written.
func NewTemperatureLog(reference string, timeStep func() float64) *TemperatureLog {
	return &TemperatureLog{
		reference: reference,
		timeStep:  timeStep,
		rows:      make(map[string][]string),
	}
}

func (l *TemperatureLog) OnTick(tick int, t float64, sys *celestial.System) {
	if err := l.Record(sys); err != nil && l.err == nil {
		l.err = err
	}
}

// Err is the first error met while recording from OnTick.
func (l *TemperatureLog) Err() error { return l.err }

// Record appends one row per logged body.
func (l *TemperatureLog) Record(sys *celestial.System) error {
	ref, ok := sys.Get(l.reference)
	if !ok {
		return fmt.Errorf("storage: %w: reference star %q", celestial.ErrUnknownBody, l.reference)
	}
	stars := sys.Stars()
	step := formatNumber(l.timeStep())
	var firstErr error
	for _, b := range sys.Bodies() {
		var temp string
		switch {
		case b.HasSurface():
			k, err := thermal.Equilibrium(b, stars...)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			temp = strconv.FormatFloat(thermal.KelvinToFahrenheit(k), 'f', 2, 64)
		case b.IsLuminous() && b != ref:
			temp = staticTemp
		default:
			continue
		}
		l.append(b.Name(), strings.Join([]string{
			b.Name(), temp, step, formatNumber(celestial.Distance(b, ref)),
		}, ","))
	}
	return firstErr
}

func (l *TemperatureLog) append(name, row string) {
	if _, ok := l.rows[name]; !ok {
		l.order = append(l.order, name)
	}
	l.rows[name] = append(l.rows[name], row)
}

// Bodies lists the logged bodies in first-seen order.
func (l *TemperatureLog) Bodies() []string { return l.order }

func (l *TemperatureLog) Rows(name string) []string { return l.rows[name] }

// WriteDir writes <dir>/<name>.txt for every logged body and returns the
// paths written.
func (l *TemperatureLog) WriteDir(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(l.order))
	for _, name := range l.order {
		path := filepath.Join(dir, name+".txt")
		body := TemperatureHeader + "\n" + strings.Join(l.rows[name], "\n")
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Series is a temperature file read back for plotting.
type Series struct {
	Name         string
	Temperatures []float64
	TimeSteps    []float64
	Distances    []float64

	// Static is set for stars; Temperatures is then empty.
	Static bool
}

func (s Series) Len() int { return len(s.Distances) }

// Normalize divides every sample by the first one.
func (s Series) Normalize() Series {
	out := s
	out.Temperatures = normalize(s.Temperatures)
	out.Distances = normalize(s.Distances)
	return out
}

func normalize(v []float64) []float64 {
	if len(v) == 0 || v[0] == 0 {
		return v
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / v[0]
	}
	return out
}

// ReadSeries parses a file written by WriteDir.
func ReadSeries(path string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return Series{}, err
	}
	defer f.Close()

	var s Series
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		if line == 1 {
			continue
		}
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Split(text, ",")
		if len(fields) != 4 {
			return s, fmt.Errorf("storage: %s:%d: want 4 fields, got %d", path, line, len(fields))
		}
		if s.Name == "" {
			s.Name = fields[0]
		}
		step, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return s, fmt.Errorf("storage: %s:%d: %w", path, line, err)
		}
		dist, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return s, fmt.Errorf("storage: %s:%d: %w", path, line, err)
		}
		if fields[1] == staticTemp {
			s.Static = true
		} else {
			temp, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return s, fmt.Errorf("storage: %s:%d: %w", path, line, err)
			}
			s.Temperatures = append(s.Temperatures, temp)
		}
		s.TimeSteps = append(s.TimeSteps, step)
		s.Distances = append(s.Distances, dist)
	}
	return s, sc.Err()
}

// ReadSeriesDir reads every .txt file in dir, sorted by file name.
func ReadSeriesDir(dir string) ([]Series, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	out := make([]Series, 0, len(matches))
	for _, m := range matches {
		s, err := ReadSeries(m)
		if err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
