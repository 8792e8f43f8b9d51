package cargo

// Collection aggregates dependency specs across all discovered manifests,
// keyed by name. It preserves insertion order for deterministic display
// and keeps every manifest's contributions queryable for the detailed
// grouped view.
//
// Merge policy: union of all names; for a name appearing in multiple
// manifests, the first Detailed spec (in scan order) wins for display,
// otherwise the first Simple spec encountered.
//
// A Collection is built once per run and not mutated afterwards.
type Collection struct {
	order     []string
	winning   map[string]Spec
	fileOrder []string
	byFile    map[string][]Spec
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{
		winning: make(map[string]Spec),
		byFile:  make(map[string][]Spec),
	}
}

// Aggregate builds a collection from parsed manifests in scan order.
func Aggregate(manifests []*Manifest) *Collection {
	c := NewCollection()
	for _, m := range manifests {
		for _, spec := range m.Specs {
			c.add(m.Path, spec)
		}
	}
	return c
}

// add records one spec from one manifest, applying the merge policy.
func (c *Collection) add(manifestPath string, spec Spec) {
	if spec.Name == "" {
		return
	}

	if _, ok := c.byFile[manifestPath]; !ok {
		c.fileOrder = append(c.fileOrder, manifestPath)
	}
	c.byFile[manifestPath] = append(c.byFile[manifestPath], spec)

	current, exists := c.winning[spec.Name]
	if !exists {
		c.order = append(c.order, spec.Name)
		c.winning[spec.Name] = spec
		return
	}
	// First Detailed wins; a later Detailed upgrades an earlier Simple
	// but never displaces an earlier Detailed.
	if current.Origin == OriginSimple && spec.Origin == OriginDetailed {
		c.winning[spec.Name] = spec
	}
}

// Contains reports whether name was declared in any manifest.
func (c *Collection) Contains(name string) bool {
	_, ok := c.winning[name]
	return ok
}

// Spec returns the winning spec for name.
func (c *Collection) Spec(name string) (Spec, bool) {
	s, ok := c.winning[name]
	return s, ok
}

// VersionLiteral returns the declared version string for name, per the
// winning spec. This is the constraint as written, not a resolved version.
func (c *Collection) VersionLiteral(name string) (string, bool) {
	s, ok := c.winning[name]
	if !ok {
		return "", false
	}
	return s.VersionLiteral(), true
}

// Names returns all unique dependency names in insertion order.
func (c *Collection) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of unique dependency names.
func (c *Collection) Len() int {
	return len(c.order)
}

// Files returns the manifest paths that contributed specs, in scan order.
func (c *Collection) Files() []string {
	out := make([]string, len(c.fileOrder))
	copy(out, c.fileOrder)
	return out
}

// SpecsFor returns every spec declared in the given manifest, in
// declaration order. Used for the detailed per-file report.
func (c *Collection) SpecsFor(manifestPath string) []Spec {
	specs := c.byFile[manifestPath]
	out := make([]Spec, len(specs))
	copy(out, specs)
	return out
}
