package model

// Placement records one placed PartInstance: the chosen transform in
// usable-area coordinates plus the expanded footprint used for occupancy
// queries. X and Y are the translation applied to the part's local geometry
// after rotation and mirroring.
type Placement struct {
	InstanceID string  `json:"instance_id"`
	Source     string  `json:"source_path"`
	X          float64 `json:"x_in"`
	Y          float64 `json:"y_in"`
	Rotation   float64 `json:"rotation_deg"`
	Mirrored   bool    `json:"mirrored,omitempty"`

	Def       *PartDefinition `json:"-"`
	Footprint Rect            `json:"-"`
}

// PlacedGeometry returns the part silhouette under the placement transform,
// in usable-area coordinates.
func (p Placement) PlacedGeometry() PolygonSet {
	return p.Def.Geometry.Transform(p.Rotation, p.Mirrored, p.X, p.Y)
}

// PlacedEntities returns the original part entities under the placement
// transform, in usable-area coordinates.
func (p Placement) PlacedEntities() []Entity {
	out := make([]Entity, len(p.Def.Entities))
	for i, e := range p.Def.Entities {
		out[i] = e.Transform(p.Rotation, p.Mirrored, p.X, p.Y)
	}
	return out
}

// Sheet is one opened sheet: the usable rectangle (sheet dimensions minus
// margins) with its append-only list of placements. Width and Height are the
// usable dimensions; the full sheet size and margin live on the NestJob.
type Sheet struct {
	Index      int         `json:"sheet_index"`
	Width      float64     `json:"-"`
	Height     float64     `json:"-"`
	Placements []Placement `json:"placements"`
}

// UsedArea returns the net part area (holes subtracted) placed on the sheet.
func (s *Sheet) UsedArea() float64 {
	var total float64
	for _, p := range s.Placements {
		total += p.Def.Area()
	}
	return total
}

// Utilization returns placed net part area over usable sheet area, in [0, 1].
func (s *Sheet) Utilization() float64 {
	usable := s.Width * s.Height
	if usable <= 0 {
		return 0
	}
	return s.UsedArea() / usable
}

// CutLength returns the total cut path length on the sheet: every placed
// part's outer perimeter plus hole perimeters.
func (s *Sheet) CutLength() float64 {
	var total float64
	for _, p := range s.Placements {
		total += p.Def.Geometry.CutLength()
	}
	return total
}

// Metrics summarizes a completed job.
type Metrics struct {
	RuntimeS float64 `json:"runtime_s"`
	Parts    int     `json:"parts"`
	Sheets   int     `json:"sheets"`
}

// NestResult is the engine output: the ordered sheets with their placements
// plus aggregate metrics. Produced once, immutable.
type NestResult struct {
	Sheets  []*Sheet `json:"sheets"`
	Metrics Metrics  `json:"metrics"`
}

// TotalUtilization returns net placed area over total usable area across all
// sheets.
func (r *NestResult) TotalUtilization() float64 {
	var used, usable float64
	for _, s := range r.Sheets {
		used += s.UsedArea()
		usable += s.Width * s.Height
	}
	if usable == 0 {
		return 0
	}
	return used / usable
}

// TotalCutLength returns the cut path length across all sheets.
func (r *NestResult) TotalCutLength() float64 {
	var total float64
	for _, s := range r.Sheets {
		total += s.CutLength()
	}
	return total
}
