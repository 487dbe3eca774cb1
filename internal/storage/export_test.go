package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestExportJSONGroupsByBody(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, RunMetadata{Scene: "earth-sun"}, sampleStates()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if data.Steps != 2 {
		t.Errorf("expected 2 steps, got %d", data.Steps)
	}
	if len(data.Bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(data.Bodies))
	}
	if data.Bodies[0].Name != "Sun" || data.Bodies[1].Name != "Earth" {
		t.Errorf("expected first-seen body order, got %s, %s", data.Bodies[0].Name, data.Bodies[1].Name)
	}

	earth := data.Bodies[1]
	if len(earth.Positions) != 2 {
		t.Fatalf("expected 2 earth positions, got %d", len(earth.Positions))
	}
	if earth.Positions[1][2] != 2.978e7 {
		t.Errorf("expected z 2.978e7, got %g", earth.Positions[1][2])
	}
	if earth.Times[1] != 1000 {
		t.Errorf("expected time 1000, got %g", earth.Times[1])
	}
}

func TestExportJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSONFile(path, RunMetadata{Scene: "test"}, sampleStates()); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty export")
	}
}
