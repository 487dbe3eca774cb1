package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Meta   RunMetadata  `json:"meta"`
	Steps  int          `json:"steps"`
	Bodies []BodySeries `json:"bodies"`
}

// BodySeries is one body's trajectory, in tick order.
type BodySeries struct {
	Name       string       `json:"name"`
	Ticks      []int        `json:"ticks"`
	Times      []float64    `json:"times"`
	Positions  [][3]float64 `json:"positions"`
	Velocities [][3]float64 `json:"velocities"`
}

func newExportData(meta RunMetadata, states []BodyState) ExportData {
	data := ExportData{Meta: meta}
	index := make(map[string]int)
	ticks := make(map[int]struct{})
	for _, st := range states {
		i, ok := index[st.Body]
		if !ok {
			i = len(data.Bodies)
			index[st.Body] = i
			data.Bodies = append(data.Bodies, BodySeries{Name: st.Body})
		}
		b := &data.Bodies[i]
		b.Ticks = append(b.Ticks, st.Tick)
		b.Times = append(b.Times, st.Time)
		b.Positions = append(b.Positions, [3]float64{st.Position.X, st.Position.Y, st.Position.Z})
		b.Velocities = append(b.Velocities, [3]float64{st.Velocity.X, st.Velocity.Y, st.Velocity.Z})
		ticks[st.Tick] = struct{}{}
	}
	data.Steps = len(ticks)
	return data
}

// ExportJSON writes a run as indented JSON grouped by body.
func ExportJSON(w io.Writer, meta RunMetadata, states []BodyState) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, states))
}

func ExportJSONFile(path string, meta RunMetadata, states []BodyState) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, states)
}
