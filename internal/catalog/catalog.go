// Package catalog holds the authoritative catalogue of measurement types
// and their scoring ranges. A Catalog is built once from configuration
// records and is read-only afterwards; concurrent readers need no locking.
package catalog

import (
	"fmt"
	"strings"
)

// RangeDefinition is one scored sub-interval as it arrives from the
// configuration source, before validation.
type RangeDefinition struct {
	Start int `koanf:"start" json:"start"`
	End   int `koanf:"end" json:"end"`
	Value int `koanf:"value" json:"value"`
}

// Definition is one measurement type record as it arrives from the
// configuration source.
type Definition struct {
	Name        string            `koanf:"name" json:"name"`
	Description string            `koanf:"description" json:"description"`
	Ranges      []RangeDefinition `koanf:"ranges" json:"ranges"`
}

// ScoringRange is a validated scored sub-interval. A value v belongs to
// the range iff Start < v <= End.
type ScoringRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Value int `json:"value"`
}

// Contains reports whether v falls inside the range.
func (r ScoringRange) Contains(v int) bool {
	return r.Start < v && v <= r.End
}

// MeasurementType is one scorable physiological parameter. MinValue and
// MaxValue are derived from the ranges at construction time.
type MeasurementType struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Ranges      []ScoringRange `json:"ranges"`
	MinValue    int            `json:"min_value"`
	MaxValue    int            `json:"max_value"`
}

// InBounds reports whether v satisfies MinValue < v <= MaxValue.
func (t MeasurementType) InBounds(v int) bool {
	return t.MinValue < v && v <= t.MaxValue
}

// Catalog is the immutable set of configured measurement types.
type Catalog struct {
	types  []MeasurementType
	byName map[string]int // folded name -> index into types
}

// fold normalizes a type name for case-insensitive matching without
// locale-dependent uppercasing.
func fold(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// New builds a Catalog from already-parsed definitions. The whole build
// fails on the first defect so a broken configuration can never serve.
func New(defs []Definition) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: no measurement types defined", ErrInvalidCatalog)
	}

	c := &Catalog{
		types:  make([]MeasurementType, 0, len(defs)),
		byName: make(map[string]int, len(defs)),
	}

	for _, def := range defs {
		if strings.TrimSpace(def.Name) == "" {
			return nil, fmt.Errorf("%w: measurement type with empty name", ErrInvalidCatalog)
		}
		key := fold(def.Name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("%w: duplicate measurement type %q", ErrInvalidCatalog, def.Name)
		}
		mt, err := newMeasurementType(def)
		if err != nil {
			return nil, err
		}
		c.byName[key] = len(c.types)
		c.types = append(c.types, mt)
	}

	return c, nil
}

// newMeasurementType validates one definition and derives its bounds.
func newMeasurementType(def Definition) (MeasurementType, error) {
	if len(def.Ranges) == 0 {
		return MeasurementType{}, fmt.Errorf("%w: measurement type %q has no ranges", ErrInvalidCatalog, def.Name)
	}

	ranges := make([]ScoringRange, len(def.Ranges))
	minValue, maxValue := def.Ranges[0].Start, def.Ranges[0].End
	for i, rd := range def.Ranges {
		if rd.Start > rd.End {
			return MeasurementType{}, fmt.Errorf("%w: measurement type %q range %d has start %d > end %d",
				ErrInvalidCatalog, def.Name, i, rd.Start, rd.End)
		}
		ranges[i] = ScoringRange{Start: rd.Start, End: rd.End, Value: rd.Value}
		if rd.Start < minValue {
			minValue = rd.Start
		}
		if rd.End > maxValue {
			maxValue = rd.End
		}
	}

	return MeasurementType{
		Name:        def.Name,
		Description: def.Description,
		Ranges:      ranges,
		MinValue:    minValue,
		MaxValue:    maxValue,
	}, nil
}

// FindByName returns the measurement type for name using case-insensitive
// exact matching.
func (c *Catalog) FindByName(name string) (MeasurementType, bool) {
	i, ok := c.byName[fold(name)]
	if !ok {
		return MeasurementType{}, false
	}
	return c.types[i], true
}

// Types returns the configured measurement types in definition order.
// The slice is a copy; the catalogue itself stays immutable.
func (c *Catalog) Types() []MeasurementType {
	out := make([]MeasurementType, len(c.types))
	copy(out, c.types)
	return out
}

// Names returns the folded names of all configured types.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.types))
	for i, t := range c.types {
		names[i] = fold(t.Name)
	}
	return names
}

// Len returns the number of configured measurement types.
func (c *Catalog) Len() int {
	return len(c.types)
}
