// Package model contains domain models passed between layers.
package model

// Measurement is one observed value submitted for scoring. The type name
// is matched case-insensitively against the catalogue; the value is an
// integer reading in the measurement's native unit.
type Measurement struct {
	Type  string
	Value int
}

// Batch is an ordered collection of measurements. A scoreable batch
// contains exactly one measurement per configured type.
type Batch []Measurement

// Names returns the type names of the batch in input order.
func (b Batch) Names() []string {
	names := make([]string, len(b))
	for i, m := range b {
		names[i] = m.Type
	}
	return names
}
