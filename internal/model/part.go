package model

import (
	"fmt"

	"github.com/google/uuid"
)

// partNamespace is the UUID namespace for deterministic part and instance
// IDs. Hashing the source identity instead of generating random IDs keeps
// reruns of the same job byte-identical.
var partNamespace = uuid.MustParse("8f3d2a10-6c1e-4f7b-9a42-5e8b1c0d97a3")

// PartConstraints restricts how a part may be oriented during packing.
// The zero value means: every job rotation candidate is allowed and the part
// may be mirrored whenever the job allows mirroring.
type PartConstraints struct {
	Rotations []float64 `json:"rotations,omitempty"` // allowed angles in degrees; empty = all candidates
	NoMirror  bool      `json:"no_mirror,omitempty"` // never mirror this part even if the job allows it
}

// PartDefinition is a named source geometry with its requested quantity.
// Immutable once parsed: the packer shares one definition across all of its
// instances.
type PartDefinition struct {
	ID          string          `json:"id"`
	Source      string          `json:"source_path"`     // originating DXF path
	Label       string          `json:"label"`           // display name; Source plus #k for multi-contour files
	Geometry    PolygonSet      `json:"geometry"`        // discretized silhouette, normalized to origin
	Entities    []Entity        `json:"-"`               // original geometry in the same local frame
	Quantity    int             `json:"quantity"`
	Constraints PartConstraints `json:"constraints,omitempty"`
}

// NewPartDefinition builds a definition with a deterministic 8-character ID
// derived from the source identity.
func NewPartDefinition(source, label string, geom PolygonSet, ents []Entity, qty int) PartDefinition {
	if label == "" {
		label = source
	}
	return PartDefinition{
		ID:       uuid.NewSHA1(partNamespace, []byte(label)).String()[:8],
		Source:   source,
		Label:    label,
		Geometry: geom,
		Entities: ents,
		Quantity: qty,
	}
}

// Area returns the net material area of one unit (outer minus holes).
func (d PartDefinition) Area() float64 {
	return d.Geometry.Area()
}

// BoundingBox returns the width and height of the silhouette's bounding box.
func (d PartDefinition) BoundingBox() (w, h float64) {
	min, max := d.Geometry.Outer.BoundingBox()
	return max.X - min.X, max.Y - min.Y
}

// PartInstance is one unit of a PartDefinition awaiting placement. Instances
// are expanded from definitions at job start and placed exactly once.
type PartInstance struct {
	ID  string
	Def *PartDefinition
}

// ExpandInstances creates quantity instances per definition, in definition
// order, with deterministic per-instance IDs.
func ExpandInstances(defs []PartDefinition) []PartInstance {
	var instances []PartInstance
	for i := range defs {
		def := &defs[i]
		for k := 0; k < def.Quantity; k++ {
			instances = append(instances, PartInstance{
				ID:  fmt.Sprintf("%s-%02d", def.ID, k+1),
				Def: def,
			})
		}
	}
	return instances
}
