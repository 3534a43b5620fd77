package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/NestCut/internal/model"
)

func TestWriteSheetSVG_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheet.svg")

	result := buildTestResult()
	err := WriteSheetSVG(path, result.Sheets[0], buildTestJob())
	if err != nil {
		t.Fatalf("WriteSheetSVG returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("SVG file was not created: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("SVG file is empty")
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("output does not look like an SVG document")
	}
}

func TestWriteSheetSVG_EmptySheet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.svg")

	sheet := &model.Sheet{Index: 0, Width: 18, Height: 18}
	err := WriteSheetSVG(path, sheet, buildTestJob())
	if err != nil {
		t.Fatalf("WriteSheetSVG returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("SVG file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("SVG file is empty")
	}
}

func TestWritePreviews_OneFilePerSheet(t *testing.T) {
	dir := t.TempDir()

	result := buildTestResult()
	paths, err := WritePreviews(dir, buildTestJob(), result)
	if err != nil {
		t.Fatalf("WritePreviews returned error: %v", err)
	}

	if len(paths) != 2 {
		t.Fatalf("expected 2 preview paths, got %d", len(paths))
	}

	for i, name := range []string{"sheet_001.svg", "sheet_002.svg"} {
		want := filepath.Join(dir, name)
		if paths[i] != want {
			t.Errorf("expected path %q, got %q", want, paths[i])
		}
		if _, err := os.Stat(want); err != nil {
			t.Errorf("preview %s was not created: %v", name, err)
		}
	}
}

func TestWritePreviews_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "previews", "nested")

	result := buildTestResult()
	if _, err := WritePreviews(dir, buildTestJob(), result); err != nil {
		t.Fatalf("WritePreviews returned error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "sheet_001.svg")); err != nil {
		t.Errorf("preview was not created in new directory: %v", err)
	}
}
