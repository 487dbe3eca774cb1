package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Scene          string             `json:"scene"`
	Timestamp      time.Time          `json:"timestamp"`
	TimeStep       float64            `json:"time_step"`
	GravitationalN float64            `json:"gravitational_n"`
	Order          string             `json:"order"`
	Ticks          int                `json:"ticks"`
	Elapsed        float64            `json:"elapsed"`
	Bodies         []string           `json:"bodies"`
	Warnings       int                `json:"warnings"`
	Metrics        map[string]float64 `json:"metrics"`
}

var stateHeader = []string{"tick", "time", "body", "x", "y", "z", "vx", "vy", "vz"}

// Save writes meta and states under a new run directory named
// <scene>_<uuid prefix> and returns the run id.
func (s *Store) Save(meta RunMetadata, states []BodyState) (string, error) {
	runID := fmt.Sprintf("%s_%s", meta.Scene, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(stateHeader); err != nil {
		return "", err
	}
	for _, st := range states {
		if err := w.Write(stateRow(st)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

func stateRow(st BodyState) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []string{
		strconv.Itoa(st.Tick), f(st.Time), st.Body,
		f(st.Position.X), f(st.Position.Y), f(st.Position.Z),
		f(st.Velocity.X), f(st.Velocity.Y), f(st.Velocity.Z),
	}
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadStates reads states.csv back. Malformed rows are skipped.
func (s *Store) LoadStates(runID string) ([]BodyState, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []BodyState{}, nil
	}

	states := make([]BodyState, 0, len(records)-1)
	for _, rec := range records[1:] {
		st, ok := parseStateRow(rec)
		if !ok {
			continue
		}
		states = append(states, st)
	}
	return states, nil
}

func parseStateRow(rec []string) (BodyState, bool) {
	if len(rec) != len(stateHeader) {
		return BodyState{}, false
	}
	tick, err := strconv.Atoi(rec[0])
	if err != nil {
		return BodyState{}, false
	}
	var v [7]float64
	for i, field := range append([]string{rec[1]}, rec[3:]...) {
		if v[i], err = strconv.ParseFloat(field, 64); err != nil {
			return BodyState{}, false
		}
	}
	return BodyState{
		Tick:     tick,
		Time:     v[0],
		Body:     rec[2],
		Position: r3.Vec{X: v[1], Y: v[2], Z: v[3]},
		Velocity: r3.Vec{X: v[4], Y: v[5], Z: v[6]},
	}, true
}
