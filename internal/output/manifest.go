package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/NestCut/internal/model"
)

// ManifestFileName is the manifest's name inside the output directory.
const ManifestFileName = "manifest.json"

// Manifest is the job-level JSON document describing every emitted sheet.
// Except for runtime_s it is byte-stable across reruns of the same job.
type Manifest struct {
	Sheet   SheetParams   `json:"sheet"`
	Params  PackingParams `json:"params"`
	Outputs []SheetOutput `json:"outputs"`
	Metrics model.Metrics `json:"metrics"`
}

// SheetParams echoes the sheet geometry the job was packed against.
type SheetParams struct {
	WidthIn  float64 `json:"width_in"`
	HeightIn float64 `json:"height_in"`
	MarginIn float64 `json:"margin_in"`
}

// PackingParams echoes the packing parameters that shaped the result.
type PackingParams struct {
	RotationStepDeg float64 `json:"rotation_step_deg"`
	SpacingIn       float64 `json:"spacing_in"`
	ChordTolIn      float64 `json:"chord_tol_in"`
}

// SheetOutput describes one emitted sheet document.
type SheetOutput struct {
	SheetIndex  int               `json:"sheet_index"`
	DXFPath     string            `json:"dxf_path"`
	Utilization float64           `json:"utilization"`
	Placements  []PlacementRecord `json:"placements"`
}

// PlacementRecord is one placement in sheet coordinates: x_in/y_in are the
// translation applied to the part's local geometry after rotation and
// mirroring, margin included, so they line up with the DXF content.
type PlacementRecord struct {
	InstanceID  string  `json:"instance_id"`
	SourcePath  string  `json:"source_path"`
	XIn         float64 `json:"x_in"`
	YIn         float64 `json:"y_in"`
	RotationDeg float64 `json:"rotation_deg"`
	Mirrored    bool    `json:"mirrored,omitempty"`
}

// BuildManifest assembles the manifest for a finished job. dxfPaths[i] names
// the document written for result.Sheets[i], usually relative to the manifest
// itself.
func BuildManifest(job model.NestJob, result *model.NestResult, dxfPaths []string) Manifest {
	m := Manifest{
		Sheet: SheetParams{
			WidthIn:  job.SheetWidth,
			HeightIn: job.SheetHeight,
			MarginIn: job.Margin,
		},
		Params: PackingParams{
			RotationStepDeg: job.RotationStep,
			SpacingIn:       job.Spacing,
			ChordTolIn:      job.ChordTol,
		},
		Outputs: make([]SheetOutput, 0, len(result.Sheets)),
		Metrics: result.Metrics,
	}
	for i, sheet := range result.Sheets {
		out := SheetOutput{
			SheetIndex:  sheet.Index,
			Utilization: sheet.Utilization(),
			Placements:  make([]PlacementRecord, 0, len(sheet.Placements)),
		}
		if i < len(dxfPaths) {
			out.DXFPath = dxfPaths[i]
		}
		for _, p := range sheet.Placements {
			out.Placements = append(out.Placements, PlacementRecord{
				InstanceID:  p.InstanceID,
				SourcePath:  p.Source,
				XIn:         p.X + job.Margin,
				YIn:         p.Y + job.Margin,
				RotationDeg: p.Rotation,
				Mirrored:    p.Mirrored,
			})
		}
		m.Outputs = append(m.Outputs, out)
	}
	return m
}

// WriteManifest writes the manifest to path with two-space indentation and a
// trailing newline.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// WriteAll writes the complete job output into dir: one DXF per sheet plus
// the manifest. The manifest records sheet documents by their file name so
// the directory can be moved as a unit. Returns the built manifest.
func WriteAll(dir string, job model.NestJob, result *model.NestResult, opts DXFOptions) (Manifest, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Manifest{}, fmt.Errorf("create output dir: %w", err)
	}

	paths := make([]string, len(result.Sheets))
	for i, sheet := range result.Sheets {
		name := SheetFileName(sheet.Index)
		if err := WriteSheetDXF(filepath.Join(dir, name), sheet, job, opts); err != nil {
			return Manifest{}, err
		}
		paths[i] = name
	}

	m := BuildManifest(job, result, paths)
	if err := WriteManifest(filepath.Join(dir, ManifestFileName), m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}
