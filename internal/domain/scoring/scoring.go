// Package scoring computes the aggregate early-warning score for a batch
// of measurements against the configured catalogue.
package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/ewscore/ewscore/internal/catalog"
	"github.com/ewscore/ewscore/internal/domain/model"
)

// Engine validates measurement batches and computes aggregate scores. It
// is stateless per call; the catalogue is borrowed read-only.
type Engine struct{}

// New creates a scoring engine.
func New() *Engine {
	return &Engine{}
}

// CalculateScore validates batch against cat and returns the sum of the
// matched range values. The batch either scores fully or fails with one
// typed error; no partial totals are returned.
func (e *Engine) CalculateScore(ctx context.Context, batch model.Batch, cat *catalog.Catalog) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("scoring cancelled: %w", err)
	}

	if err := e.validateBatch(batch, cat); err != nil {
		return 0, err
	}

	total := 0
	for _, m := range batch {
		// Guaranteed present after structural validation.
		mt, _ := cat.FindByName(m.Type)

		if !mt.InBounds(m.Value) {
			return 0, &BoundsError{
				Type:        mt.Name,
				Description: mt.Description,
				Min:         mt.MinValue,
				Max:         mt.MaxValue,
				Value:       m.Value,
			}
		}

		contribution, ok := resolveRange(mt, m.Value)
		if !ok {
			return 0, &MismatchError{Type: mt.Name, Value: m.Value}
		}
		total += contribution
	}

	return total, nil
}

// validateBatch checks that the batch carries exactly one measurement per
// configured type. Categories are evaluated in fixed order (missing,
// unexpected, duplicate) and the first non-empty one fails the batch.
func (e *Engine) validateBatch(batch model.Batch, cat *catalog.Catalog) error {
	counts := make(map[string]int, len(batch))
	for _, m := range batch {
		counts[fold(m.Type)]++
	}

	configured := cat.Names()

	// Fast path: same cardinality and every configured name present once.
	if len(batch) == cat.Len() {
		exact := true
		for _, name := range configured {
			if counts[name] != 1 {
				exact = false
				break
			}
		}
		if exact {
			return nil
		}
	}

	var missing []string
	for _, name := range configured {
		if counts[name] == 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Category: CategoryMissing, Names: missing}
	}

	known := make(map[string]struct{}, len(configured))
	for _, name := range configured {
		known[name] = struct{}{}
	}

	var unexpected []string
	seen := make(map[string]struct{}, len(batch))
	for _, m := range batch {
		name := fold(m.Type)
		if _, ok := known[name]; ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		unexpected = append(unexpected, name)
	}
	if len(unexpected) > 0 {
		return &ValidationError{Category: CategoryUnexpected, Names: unexpected}
	}

	var duplicated []string
	reported := make(map[string]struct{}, len(batch))
	for _, m := range batch {
		name := fold(m.Type)
		if counts[name] <= 1 {
			continue
		}
		if _, done := reported[name]; done {
			continue
		}
		reported[name] = struct{}{}
		duplicated = append(duplicated, name)
	}
	if len(duplicated) > 0 {
		return &ValidationError{Category: CategoryDuplicate, Names: duplicated}
	}

	return nil
}

// resolveRange scans the configured ranges in order and returns the value
// of the first one containing v. First match wins on overlap.
func resolveRange(mt catalog.MeasurementType, v int) (int, bool) {
	for _, r := range mt.Ranges {
		if r.Contains(v) {
			return r.Value, true
		}
	}
	return 0, false
}

// fold normalizes a type name for case-insensitive comparison.
func fold(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
