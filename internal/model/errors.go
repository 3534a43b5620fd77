package model

import "fmt"

// The engine aborts the whole job on the first failure: a manifest that
// described only some of the requested parts would be misleading for
// downstream manufacturing. Every failure carries the offending part's
// source identity and a reason, and is matchable with errors.As.

// ParseError reports unsupported or malformed DXF content for a part,
// including files left empty after layer and entity filtering.
type ParseError struct {
	Source string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Source, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DegenerateGeometryError reports geometry that cannot form a valid part
// silhouette: loops that fail to close, or ambiguous contour topology.
type DegenerateGeometryError struct {
	Source string
	Reason string
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("degenerate geometry in %s: %s", e.Source, e.Reason)
}

// OversizedPartError reports a part whose expanded footprint exceeds the
// usable sheet rectangle in every rotation candidate.
type OversizedPartError struct {
	Source        string
	Width, Height float64 // expanded footprint at the first candidate
	UsableW       float64
	UsableH       float64
}

func (e *OversizedPartError) Error() string {
	return fmt.Sprintf("part %s: expanded footprint %.3f x %.3f in does not fit usable sheet %.3f x %.3f in under any allowed rotation",
		e.Source, e.Width, e.Height, e.UsableW, e.UsableH)
}

// PackingFailureError reports an internal invariant violation in the packer.
// It is always a bug, never a user-recoverable condition; reports should
// include the full job parameters for reproduction.
type PackingFailureError struct {
	InstanceID string
	Reason     string
}

func (e *PackingFailureError) Error() string {
	if e.InstanceID == "" {
		return fmt.Sprintf("packing failure: %s", e.Reason)
	}
	return fmt.Sprintf("packing failure at instance %s: %s", e.InstanceID, e.Reason)
}

// TimeoutError reports that a job exceeded a safety bound: the wall-clock
// budget or the maximum sheet count.
type TimeoutError struct {
	Reason string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("job aborted: %s", e.Reason)
}
