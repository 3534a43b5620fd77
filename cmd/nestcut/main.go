// NestCut is a command-line DXF nesting engine.
//
// Imports 2D part outlines from DXF files, packs them onto fixed-size
// sheets with a deterministic bottom-left-fill search, and emits per-sheet
// DXF documents plus a JSON manifest. Optional extras: PDF layout report,
// QR part labels, SVG previews.
//
// Build:
//   go build -o nestcut ./cmd/nestcut
//
// Examples:
//   nestcut -sheet-width 48 -sheet-height 24 -rotation-step 90 -out nest bracket.dxf
//   nestcut -job cabinet.json -report -labels
//   nestcut -parts cutlist.xlsx -template 4x8-plywood -preview
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/piwi3910/NestCut/internal/engine"
	"github.com/piwi3910/NestCut/internal/export"
	"github.com/piwi3910/NestCut/internal/importer"
	"github.com/piwi3910/NestCut/internal/model"
	"github.com/piwi3910/NestCut/internal/output"
	"github.com/piwi3910/NestCut/internal/project"
)

type cliOptions struct {
	outDir   string
	boundary bool
	layers   []string
	workers  int
	report   bool
	labels   bool
	preview  bool
	estimate bool
	compare  bool
	verbose  bool
}

func main() {
	jobPath := flag.String("job", "", "path to a versioned JSON job file")
	partsPath := flag.String("parts", "", "CSV or XLSX part list (replaces the job file's items)")
	qty := flag.Int("qty", 1, "quantity for parts given as positional DXF paths")
	templateName := flag.String("template", "", "sheet template to apply (see -list-templates)")

	sheetW := flag.Float64("sheet-width", 0, "sheet width in inches")
	sheetH := flag.Float64("sheet-height", 0, "sheet height in inches")
	margin := flag.Float64("margin", 0, "keep-out margin from every sheet edge, inches")
	spacing := flag.Float64("spacing", 0, "minimum spacing between parts, inches")
	kerf := flag.Float64("kerf", 0, "tool kerf width, inches")
	chordTol := flag.Float64("chord-tol", 0, "max chord deviation when flattening arcs, inches")
	rotStep := flag.Float64("rotation-step", 0, "rotation search step in degrees (0 disables rotation)")
	mirror := flag.Bool("mirror", false, "also try mirrored orientations")
	maxSheets := flag.Int("max-sheets", 0, "sheet cap before the job aborts")
	timeout := flag.Float64("timeout", 0, "wall clock budget in seconds")

	outDir := flag.String("out", "nest", "output directory for sheet DXF files and the manifest")
	boundary := flag.Bool("boundary", false, "draw the sheet outline on a SHEET layer")
	layers := flag.String("layers", "", "comma-separated layer allow-list (default CUT,0)")
	workers := flag.Int("workers", 0, "parallel DXF imports (0 = one per CPU)")

	report := flag.Bool("report", false, "write a PDF layout report to <out>/report.pdf")
	labels := flag.Bool("labels", false, "write QR part labels to <out>/labels.pdf")
	preview := flag.Bool("preview", false, "write per-sheet SVG previews next to the DXF files")
	estimate := flag.Bool("estimate", false, "print the material estimate and exit without nesting")
	compare := flag.Bool("compare", false, "sweep parameter variants and print the comparison table")

	saveJob := flag.String("save-job", "", "write the effective job to this path as a job file")
	saveTemplate := flag.String("save-template", "", "store the sheet parameters under this template name")
	listTemplates := flag.Bool("list-templates", false, "list available sheet templates and exit")
	verbose := flag.Bool("v", false, "verbose progress logging")
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("nestcut: ")

	if *listTemplates {
		if err := printTemplates(); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	job, err := buildJob(*jobPath, *templateName)
	if err != nil {
		log.Fatalf("%v", err)
	}

	// Explicit flags win over the job file and the template.
	overrides := map[string]func(){
		"sheet-width":   func() { job.SheetWidth = *sheetW },
		"sheet-height":  func() { job.SheetHeight = *sheetH },
		"margin":        func() { job.Margin = *margin },
		"spacing":       func() { job.Spacing = *spacing },
		"kerf":          func() { job.Kerf = *kerf },
		"chord-tol":     func() { job.ChordTol = *chordTol },
		"rotation-step": func() { job.RotationStep = *rotStep },
		"mirror":        func() { job.AllowMirror = *mirror },
		"max-sheets":    func() { job.MaxSheets = *maxSheets },
		"timeout":       func() { job.TimeoutS = *timeout },
	}
	flag.Visit(func(f *flag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply()
		}
	})

	if *partsPath != "" {
		items, err := loadPartList(*partsPath)
		if err != nil {
			log.Fatalf("%v", err)
		}
		job.Items = items
	}
	for _, path := range flag.Args() {
		job.Items = append(job.Items, model.NestItem{SourcePath: path, Quantity: *qty})
	}

	if *saveTemplate != "" {
		if err := storeTemplate(*saveTemplate, job); err != nil {
			log.Fatalf("%v", err)
		}
		log.Printf("saved sheet template %q", *saveTemplate)
		if len(job.Items) == 0 {
			return
		}
	}
	if *saveJob != "" {
		if err := project.SaveJob(*saveJob, job); err != nil {
			log.Fatalf("%v", err)
		}
		log.Printf("saved job file %s", *saveJob)
		if len(job.Items) == 0 {
			return
		}
	}

	opts := cliOptions{
		outDir:   *outDir,
		boundary: *boundary,
		layers:   splitLayers(*layers),
		workers:  *workers,
		report:   *report,
		labels:   *labels,
		preview:  *preview,
		estimate: *estimate,
		compare:  *compare,
		verbose:  *verbose,
	}
	if err := run(job, opts); err != nil {
		log.Fatalf("%v", err)
	}
}

// run validates and imports the job, nests it, and writes every requested
// output. Any failure aborts the whole job.
func run(job model.NestJob, opts cliOptions) error {
	if err := job.Validate(); err != nil {
		return err
	}

	defs, err := importer.ImportJob(job, opts.layers, opts.workers)
	if err != nil {
		return err
	}
	if opts.verbose {
		log.Printf("imported %d part definitions from %d items", len(defs), len(job.Items))
	}

	if opts.estimate {
		printEstimate(job, defs)
		return nil
	}
	if opts.compare {
		printComparison(job, defs)
		return nil
	}

	result, err := engine.Nest(job, defs)
	if err != nil {
		return err
	}

	if violations := engine.CheckPlacements(result, job); len(violations) > 0 {
		for _, line := range engine.FormatViolationWarnings(violations) {
			log.Printf("%s", line)
		}
		return fmt.Errorf("placement verification failed with %d violations", len(violations))
	}

	manifest, err := output.WriteAll(opts.outDir, job, result, output.DXFOptions{Boundary: opts.boundary})
	if err != nil {
		return err
	}
	if opts.verbose {
		for _, sheet := range manifest.Outputs {
			log.Printf("sheet %d: %s, %d parts, %.1f%% utilization",
				sheet.SheetIndex+1, sheet.DXFPath, len(sheet.Placements), sheet.Utilization*100)
		}
	}

	if opts.report {
		path := filepath.Join(opts.outDir, "report.pdf")
		if err := export.ExportPDF(path, job, result); err != nil {
			return fmt.Errorf("report: %w", err)
		}
		if opts.verbose {
			log.Printf("wrote %s", path)
		}
	}
	if opts.labels {
		path := filepath.Join(opts.outDir, "labels.pdf")
		if err := export.ExportLabels(path, job, result); err != nil {
			return fmt.Errorf("labels: %w", err)
		}
		if opts.verbose {
			log.Printf("wrote %s", path)
		}
	}
	if opts.preview {
		if _, err := export.WritePreviews(opts.outDir, job, result); err != nil {
			return fmt.Errorf("previews: %w", err)
		}
		if opts.verbose {
			log.Printf("wrote %d previews", len(result.Sheets))
		}
	}

	fmt.Printf("placed %d parts on %d sheets (%.1f%% utilization, %.1f in of cuts) in %.2fs\n",
		result.Metrics.Parts, result.Metrics.Sheets,
		result.TotalUtilization()*100, result.TotalCutLength(), result.Metrics.RuntimeS)
	fmt.Printf("outputs in %s (%s)\n", opts.outDir, output.ManifestFileName)
	return nil
}

// buildJob assembles the base job: defaults, then the job file, then the
// sheet template.
func buildJob(jobPath, templateName string) (model.NestJob, error) {
	job := model.DefaultJob()
	job.Items = nil

	if jobPath != "" {
		loaded, err := project.LoadJob(jobPath)
		if err != nil {
			return model.NestJob{}, err
		}
		job = loaded
	}

	if templateName != "" {
		store, err := project.LoadDefaultTemplates()
		if err != nil {
			return model.NestJob{}, err
		}
		tpl, ok := store.Find(templateName)
		if !ok {
			return model.NestJob{}, fmt.Errorf("unknown sheet template %q (try -list-templates)", templateName)
		}
		tpl.Apply(&job)
	}
	return job, nil
}

// loadPartList imports a CSV/XLSX part list. Warnings go to the log; any bad
// row fails the job.
func loadPartList(path string) ([]model.NestItem, error) {
	res := importer.ImportPartList(path)
	for _, w := range res.Warnings {
		log.Printf("warning: %s", w)
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			log.Printf("error: %s", e)
		}
		return nil, fmt.Errorf("part list %s has %d unusable rows", path, len(res.Errors))
	}
	if len(res.Items) == 0 {
		return nil, fmt.Errorf("part list %s contains no parts", path)
	}
	return res.Items, nil
}

func storeTemplate(name string, job model.NestJob) error {
	store, err := project.LoadDefaultTemplates()
	if err != nil {
		return err
	}
	store.Add(model.SheetTemplate{
		Name:      name,
		WidthIn:   job.SheetWidth,
		HeightIn:  job.SheetHeight,
		MarginIn:  job.Margin,
		SpacingIn: job.Spacing,
		KerfIn:    job.Kerf,
	})
	return project.SaveDefaultTemplates(store)
}

func printTemplates() error {
	store, err := project.LoadDefaultTemplates()
	if err != nil {
		return err
	}
	fmt.Printf("%-20s %-12s %-8s %-8s %-8s %s\n",
		"name", "sheet (in)", "margin", "spacing", "kerf", "description")
	for _, name := range store.Names() {
		t, _ := store.Find(name)
		fmt.Printf("%-20s %5.4gx%-6.4g %-8.3g %-8.3g %-8.3g %s\n",
			t.Name, t.WidthIn, t.HeightIn, t.MarginIn, t.SpacingIn, t.KerfIn, t.Description)
	}
	return nil
}

func printEstimate(job model.NestJob, defs []model.PartDefinition) {
	est := model.EstimateSheets(job, defs)
	fmt.Printf("part area:        %.1f in²\n", est.TotalPartArea)
	fmt.Printf("footprint area:   %.1f in² (spacing and kerf included)\n", est.TotalFootprintArea)
	fmt.Printf("usable per sheet: %.1f in²\n", est.UsableSheetArea)
	fmt.Printf("sheets needed:    at least %d (%.2f by area)\n", est.SheetsNeededMin, est.SheetsNeededExact)
	if est.SheetsNeededMin > 0 {
		fmt.Printf("best utilization: %.1f%%\n", est.BestUtilization*100)
	}
}

func printComparison(job model.NestJob, defs []model.PartDefinition) {
	results := engine.CompareScenarios(engine.BuildDefaultScenarios(job), defs)
	fmt.Printf("%-24s %7s %13s %13s\n", "scenario", "sheets", "utilization", "cut length")
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%-24s failed: %v\n", r.Scenario.Name, r.Err)
			continue
		}
		fmt.Printf("%-24s %7d %12.1f%% %10.1f in\n",
			r.Scenario.Name, r.SheetsUsed, r.Utilization*100, r.CutLength)
	}
}

// splitLayers turns "CUT,0" into the importer's allow-list; empty input
// keeps the importer default.
func splitLayers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var layers []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			layers = append(layers, trimmed)
		}
	}
	return layers
}
