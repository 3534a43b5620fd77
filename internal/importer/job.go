package importer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/piwi3910/NestCut/internal/model"
)

// ImportJob resolves every item of a job into part definitions, reading the
// DXF files concurrently. Definitions keep the order of job.Items; when
// several items fail, the error of the earliest one wins so reruns stay
// deterministic. workers <= 0 means one worker per CPU.
func ImportJob(job model.NestJob, layers []string, workers int) ([]model.PartDefinition, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type itemResult struct {
		parts []PartGeometry
		err   error
	}
	results := make([]itemResult, len(job.Items))

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := range job.Items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			item := job.Items[i]
			parts, err := ImportFile(item.SourcePath, Options{
				Layers:   layers,
				ChordTol: job.ChordTol,
				Multi:    item.Multi,
			})
			results[i] = itemResult{parts: parts, err: err}
		}(i)
	}
	wg.Wait()

	// Items may reference the same file twice; suffix repeated labels so
	// part IDs stay distinct.
	seen := make(map[string]int)
	var defs []model.PartDefinition
	for i, item := range job.Items {
		if results[i].err != nil {
			return nil, results[i].err
		}
		for _, part := range results[i].parts {
			label := part.Label
			seen[label]++
			if n := seen[label]; n > 1 {
				label = fmt.Sprintf("%s (%d)", label, n)
			}
			def := model.NewPartDefinition(part.Source, label, part.Set, part.Entities, item.Quantity)
			if item.Constraints != nil {
				def.Constraints = *item.Constraints
			}
			defs = append(defs, def)
		}
	}
	return defs, nil
}
