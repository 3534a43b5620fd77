package model

import (
	"math"
	"testing"
)

func validJob() NestJob {
	job := DefaultJob()
	job.Items = []NestItem{{SourcePath: "part.dxf", Quantity: 1}}
	return job
}

func TestDefaultJobIsValidWithItems(t *testing.T) {
	if err := validJob().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadJobs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NestJob)
	}{
		{"zero sheet width", func(j *NestJob) { j.SheetWidth = 0 }},
		{"negative sheet height", func(j *NestJob) { j.SheetHeight = -1 }},
		{"negative spacing", func(j *NestJob) { j.Spacing = -0.1 }},
		{"margin eats the sheet", func(j *NestJob) { j.Margin = 50 }},
		{"zero chord tolerance", func(j *NestJob) { j.ChordTol = 0 }},
		{"rotation step 360", func(j *NestJob) { j.RotationStep = 360 }},
		{"no items", func(j *NestJob) { j.Items = nil }},
		{"empty source", func(j *NestJob) { j.Items[0].SourcePath = "" }},
		{"zero quantity", func(j *NestJob) { j.Items[0].Quantity = 0 }},
		{"constraint rotation out of range", func(j *NestJob) {
			j.Items[0].Constraints = &PartConstraints{Rotations: []float64{360}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := validJob()
			tt.mutate(&job)
			if err := job.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestUsableDimensions(t *testing.T) {
	job := NestJob{SheetWidth: 96, SheetHeight: 48, Margin: 0.5}
	if got := job.UsableWidth(); got != 95 {
		t.Errorf("expected usable width 95, got %g", got)
	}
	if got := job.UsableHeight(); got != 47 {
		t.Errorf("expected usable height 47, got %g", got)
	}
}

func TestHalfGap(t *testing.T) {
	job := NestJob{Spacing: 0.25, Kerf: 0.125}
	if got := job.HalfGap(); math.Abs(got-0.1875) > 1e-12 {
		t.Errorf("expected half gap 0.1875, got %g", got)
	}
}

func TestRotationAngles(t *testing.T) {
	tests := []struct {
		name string
		step float64
		want []float64
	}{
		{"disabled", 0, []float64{0}},
		{"quarter turns", 90, []float64{0, 90, 180, 270}},
		{"half turns", 180, []float64{0, 180}},
		{"coarse", 120, []float64{0, 120, 240}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NestJob{RotationStep: tt.step}
			got := job.RotationAngles()
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d angles, got %d (%v)", len(tt.want), len(got), got)
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("angle %d: expected %g, got %g", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestEffectiveBounds(t *testing.T) {
	var job NestJob
	if got := job.EffectiveMaxSheets(); got != DefaultMaxSheets {
		t.Errorf("expected default max sheets %d, got %d", DefaultMaxSheets, got)
	}
	if got := job.EffectiveTimeoutS(); got != DefaultTimeoutS {
		t.Errorf("expected default timeout %g, got %g", DefaultTimeoutS, got)
	}

	job.MaxSheets = 3
	job.TimeoutS = 1.5
	if got := job.EffectiveMaxSheets(); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := job.EffectiveTimeoutS(); got != 1.5 {
		t.Errorf("expected 1.5, got %g", got)
	}
}
