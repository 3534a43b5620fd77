package model

// SheetTemplate is a named preset for the sheet side of a nest job: stock
// dimensions plus the clearances commonly used with that stock. Applying a
// template never touches rotation settings or the item list.
type SheetTemplate struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	WidthIn     float64 `json:"width_in"`
	HeightIn    float64 `json:"height_in"`
	MarginIn    float64 `json:"margin_in"`
	SpacingIn   float64 `json:"spacing_in"`
	KerfIn      float64 `json:"kerf_in"`
}

// Apply copies the template's sheet parameters onto the job.
func (t SheetTemplate) Apply(job *NestJob) {
	job.SheetWidth = t.WidthIn
	job.SheetHeight = t.HeightIn
	job.Margin = t.MarginIn
	job.Spacing = t.SpacingIn
	job.Kerf = t.KerfIn
}

// BuiltinTemplates are the sheet presets that ship with the tool.
var BuiltinTemplates = []SheetTemplate{
	{
		Name:        "4x8-plywood",
		Description: "4x8 ft plywood, 1/4 in router bit",
		WidthIn:     96,
		HeightIn:    48,
		MarginIn:    0.5,
		SpacingIn:   0.25,
		KerfIn:      0.25,
	},
	{
		Name:        "5x5-baltic-birch",
		Description: "5x5 ft Baltic birch, 1/4 in router bit",
		WidthIn:     60,
		HeightIn:    60,
		MarginIn:    0.5,
		SpacingIn:   0.25,
		KerfIn:      0.25,
	},
	{
		Name:        "4x4-acrylic",
		Description: "4x4 ft acrylic, laser kerf",
		WidthIn:     48,
		HeightIn:    48,
		MarginIn:    0.25,
		SpacingIn:   0.1,
		KerfIn:      0.008,
	},
	{
		Name:        "2x4-steel",
		Description: "2x4 ft sheet steel, plasma kerf",
		WidthIn:     48,
		HeightIn:    24,
		MarginIn:    0.5,
		SpacingIn:   0.2,
		KerfIn:      0.06,
	},
	{
		Name:        "generic",
		Description: "Generic 8x4 ft stock",
		WidthIn:     96,
		HeightIn:    48,
		MarginIn:    0.5,
		SpacingIn:   0.25,
		KerfIn:      0.125,
	},
}

// TemplateStore holds a collection of sheet templates, typically the
// user-defined ones loaded from disk. Lookups consult the store first and
// fall back to the built-ins.
type TemplateStore struct {
	Templates []SheetTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []SheetTemplate{},
	}
}

// Add adds a template to the store, replacing any existing template with
// the same name.
func (ts *TemplateStore) Add(t SheetTemplate) {
	for i := range ts.Templates {
		if ts.Templates[i].Name == t.Name {
			ts.Templates[i] = t
			return
		}
	}
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by name. Returns true if found and removed.
func (ts *TemplateStore) Remove(name string) bool {
	for i, t := range ts.Templates {
		if t.Name == name {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the template with the given name, checking the store before
// the built-ins. The second return is false if the name is unknown.
func (ts *TemplateStore) Find(name string) (SheetTemplate, bool) {
	for _, t := range ts.Templates {
		if t.Name == name {
			return t, true
		}
	}
	for _, t := range BuiltinTemplates {
		if t.Name == name {
			return t, true
		}
	}
	return SheetTemplate{}, false
}

// Get returns the template with the given name, or the generic built-in
// when the name is unknown.
func (ts *TemplateStore) Get(name string) SheetTemplate {
	if t, ok := ts.Find(name); ok {
		return t
	}
	return BuiltinTemplates[len(BuiltinTemplates)-1] // generic
}

// Names returns the names of all templates, store entries first. A built-in
// shadowed by a store entry is listed once.
func (ts *TemplateStore) Names() []string {
	names := make([]string, 0, len(ts.Templates)+len(BuiltinTemplates))
	seen := make(map[string]bool, len(ts.Templates))
	for _, t := range ts.Templates {
		names = append(names, t.Name)
		seen[t.Name] = true
	}
	for _, t := range BuiltinTemplates {
		if !seen[t.Name] {
			names = append(names, t.Name)
		}
	}
	return names
}
