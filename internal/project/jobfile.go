// Package project persists nesting work between runs: versioned job files
// and the user's sheet-template library.
package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/NestCut/internal/model"
)

// JobFileVersion is the format version written to and accepted from job
// files.
const JobFileVersion = "1"

// jobFile is the on-disk envelope around a nest job. The job fields sit
// inline next to the version marker.
type jobFile struct {
	Version string `json:"version"`
	model.NestJob
}

// SaveJob writes a nest job to path as a versioned JSON document.
func SaveJob(path string, job model.NestJob) error {
	envelope := jobFile{
		Version: JobFileVersion,
		NestJob: job,
	}
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create job directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write job file: %w", err)
	}
	return nil
}

// LoadJob reads a versioned job file. Unknown fields and unsupported
// versions are rejected so typos in hand-edited files surface early instead
// of silently nesting with defaults.
func LoadJob(path string) (model.NestJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.NestJob{}, fmt.Errorf("failed to read job file: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var envelope jobFile
	if err := dec.Decode(&envelope); err != nil {
		return model.NestJob{}, fmt.Errorf("failed to parse job file %s: %w", path, err)
	}
	if dec.More() {
		return model.NestJob{}, fmt.Errorf("invalid job file %s: trailing data after job document", path)
	}

	switch envelope.Version {
	case JobFileVersion:
	case "":
		return model.NestJob{}, fmt.Errorf("invalid job file %s: missing version field", path)
	default:
		return model.NestJob{}, fmt.Errorf("job file %s has unsupported version %q (want %q)", path, envelope.Version, JobFileVersion)
	}

	return envelope.NestJob, nil
}
