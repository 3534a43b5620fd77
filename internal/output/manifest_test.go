package output

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/piwi3910/NestCut/internal/model"
)

func TestBuildManifest_Fields(t *testing.T) {
	def := plateDef()
	result := singleSheetResult(&def)
	job := testJob()
	job.RotationStep = 90
	job.Spacing = 0.25

	m := BuildManifest(job, result, []string{"sheet_001.dxf"})

	if m.Sheet.WidthIn != 20 || m.Sheet.HeightIn != 20 || m.Sheet.MarginIn != 1 {
		t.Errorf("unexpected sheet params: %+v", m.Sheet)
	}
	if m.Params.RotationStepDeg != 90 || m.Params.SpacingIn != 0.25 || m.Params.ChordTolIn != 0.01 {
		t.Errorf("unexpected packing params: %+v", m.Params)
	}
	if len(m.Outputs) != 1 {
		t.Fatalf("expected 1 output, got %d", len(m.Outputs))
	}

	out := m.Outputs[0]
	if out.SheetIndex != 0 {
		t.Errorf("expected sheet index 0, got %d", out.SheetIndex)
	}
	if out.DXFPath != "sheet_001.dxf" {
		t.Errorf("expected dxf path sheet_001.dxf, got %s", out.DXFPath)
	}
	wantUtil := 100.0 / 324.0
	if math.Abs(out.Utilization-wantUtil) > 1e-9 {
		t.Errorf("expected utilization %g, got %g", wantUtil, out.Utilization)
	}
	if len(out.Placements) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(out.Placements))
	}

	// Placement coordinates are sheet coordinates: margin included.
	p := out.Placements[0]
	if p.XIn != 3 || p.YIn != 4 {
		t.Errorf("expected placement at (3, 4), got (%g, %g)", p.XIn, p.YIn)
	}
	if p.SourcePath != "plate.dxf" {
		t.Errorf("expected source plate.dxf, got %s", p.SourcePath)
	}
	if m.Metrics != result.Metrics {
		t.Errorf("expected metrics copied, got %+v", m.Metrics)
	}
}

func TestManifest_MirroredOmittedWhenFalse(t *testing.T) {
	def := plateDef()
	result := singleSheetResult(&def)
	result.Sheets[0].Placements = append(result.Sheets[0].Placements, model.Placement{
		InstanceID: def.ID + "-02",
		Source:     def.Source,
		X:          13,
		Y:          3,
		Mirrored:   true,
		Def:        &def,
	})

	m := BuildManifest(testJob(), result, []string{"sheet_001.dxf"})
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if n := strings.Count(string(data), `"mirrored"`); n != 1 {
		t.Errorf("expected exactly one mirrored field (the true one), got %d", n)
	}
}

func TestWriteManifest_RoundTrip(t *testing.T) {
	def := plateDef()
	m := BuildManifest(testJob(), singleSheetResult(&def), []string{"sheet_001.dxf"})
	path := filepath.Join(t.TempDir(), "manifest.json")

	if err := WriteManifest(path, m); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "{\n  \"sheet\"") {
		t.Error("expected two-space indentation starting with the sheet block")
	}
	if !strings.HasSuffix(string(data), "}\n") {
		t.Error("expected trailing newline")
	}

	var back Manifest
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(m, back) {
		t.Errorf("manifest changed across the round trip:\nwant %+v\ngot  %+v", m, back)
	}
}

func TestWriteAll_ProducesSheetFilesAndManifest(t *testing.T) {
	def := plateDef()
	result := singleSheetResult(&def)
	dir := filepath.Join(t.TempDir(), "out")

	m, err := WriteAll(dir, testJob(), result, DXFOptions{Boundary: true})
	if err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "sheet_001.dxf")); err != nil {
		t.Errorf("expected sheet_001.dxf to exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ManifestFileName)); err != nil {
		t.Errorf("expected manifest.json to exist: %v", err)
	}
	if m.Outputs[0].DXFPath != "sheet_001.dxf" {
		t.Errorf("expected manifest to reference sheet_001.dxf, got %s", m.Outputs[0].DXFPath)
	}
}
