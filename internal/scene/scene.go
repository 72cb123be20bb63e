package scene

// Preset is a named historical setting bundled with the fixed prompt used to
// transform a portrait into that setting.
type Preset struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Era            string `json:"era"`
	PromptModifier string `json:"prompt_modifier"`
	Thumbnail      string `json:"thumbnail"`
}

// Catalog is an immutable, ordered collection of presets.
type Catalog struct {
	presets []Preset
	byID    map[string]int
}

// NewCatalog copies the given presets into a read-only catalog.
func NewCatalog(presets []Preset) *Catalog {
	c := &Catalog{
		presets: make([]Preset, len(presets)),
		byID:    make(map[string]int, len(presets)),
	}
	copy(c.presets, presets)
	for i, p := range c.presets {
		c.byID[p.ID] = i
	}
	return c
}

// All returns the presets in catalog order. The slice is a copy; callers may
// not mutate the catalog through it.
func (c *Catalog) All() []Preset {
	out := make([]Preset, len(c.presets))
	copy(out, c.presets)
	return out
}

// ByID looks up a preset by id.
func (c *Catalog) ByID(id string) (Preset, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Preset{}, false
	}
	return c.presets[i], true
}

// Len reports the number of presets.
func (c *Catalog) Len() int {
	return len(c.presets)
}
