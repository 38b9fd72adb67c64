package specgraph

import (
	"fmt"
	"strings"
)

// ValidationError is a per-record structural failure.
type ValidationError struct {
	SpecID  string `json:"specId"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationWarning is a per-record finding that does not fail validation.
type ValidationWarning struct {
	SpecID  string `json:"specId"`
	Message string `json:"message"`
}

// ValidationResult is the combined report of a validation pass. Bad records
// produce entries, never errors: the report is always complete.
type ValidationResult struct {
	Errors   []ValidationError   `json:"errors"`
	Warnings []ValidationWarning `json:"warnings"`
}

// IsValid reports whether the pass produced no errors. Warnings are fine.
func (r *ValidationResult) IsValid() bool { return len(r.Errors) == 0 }

// Merge appends another result's findings, so structural and graph-derived
// reports compose into one.
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Validator checks required fields and per-record structural rules,
// independent of graph shape. The zero value is the lenient baseline.
type Validator struct {
	// Strict additionally enforces MinConditions per feature.
	Strict bool
	// MinConditions is the strict-mode minimum condition count per feature.
	// Zero means the default of 1.
	MinConditions int
}

// Validate runs the structural rules over every feature.
func (v Validator) Validate(features []Feature) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationWarning{},
	}

	known := make(map[string]bool, len(features))
	for i := range features {
		id := features[i].ID
		if known[id] {
			result.Errors = append(result.Errors, ValidationError{
				SpecID:  id,
				Field:   "id",
				Message: "duplicate feature id",
			})
		}
		known[id] = true
	}

	for i := range features {
		v.validateFeature(&features[i], known, result)
	}
	return result
}

// ValidateOne runs the structural rules over a single feature. Dependency
// targets cannot be resolved without the full set, so those warnings are
// skipped here.
func (v Validator) ValidateOne(f *Feature) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationWarning{},
	}
	v.validateFeature(f, nil, result)
	return result
}

func (v Validator) validateFeature(f *Feature, known map[string]bool, result *ValidationResult) {
	if strings.TrimSpace(f.ID) == "" {
		result.Errors = append(result.Errors, ValidationError{
			SpecID:  f.ID,
			Field:   "id",
			Message: "feature id is required",
		})
	}
	if strings.TrimSpace(f.Title) == "" {
		result.Errors = append(result.Errors, ValidationError{
			SpecID:  f.ID,
			Field:   "title",
			Message: "feature title is required",
		})
	}
	if !f.Status.Valid() {
		result.Errors = append(result.Errors, ValidationError{
			SpecID:  f.ID,
			Field:   "status",
			Message: fmt.Sprintf("unknown status %q", string(f.Status)),
		})
	}

	for i := range f.Conditions {
		c := &f.Conditions[i]
		if strings.TrimSpace(c.Description) == "" {
			result.Errors = append(result.Errors, ValidationError{
				SpecID:  c.ID,
				Field:   "description",
				Message: "condition description is required",
			})
		}
		if !c.Status.Valid() {
			result.Errors = append(result.Errors, ValidationError{
				SpecID:  c.ID,
				Field:   "status",
				Message: fmt.Sprintf("unknown status %q", string(c.Status)),
			})
		}
	}

	if v.Strict {
		min := v.MinConditions
		if min <= 0 {
			min = 1
		}
		if len(f.Conditions) < min {
			result.Errors = append(result.Errors, ValidationError{
				SpecID:  f.ID,
				Field:   "conditions",
				Message: fmt.Sprintf("feature has %d conditions, strict mode requires at least %d", len(f.Conditions), min),
			})
		}
	}

	if known != nil {
		for _, dep := range f.Dependencies {
			if !known[dep] {
				result.Warnings = append(result.Warnings, ValidationWarning{
					SpecID:  f.ID,
					Message: fmt.Sprintf("dependency %q does not exist", dep),
				})
			}
		}
	}
}

// GraphFindings converts a built graph's cycle and orphan output into the
// validation report shape so callers can merge one combined report. Cycle
// membership is a warning in lenient mode and a hard error in strict mode;
// orphans are always warnings.
func GraphFindings(g *Graph, strict bool) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationWarning{},
	}
	for _, id := range g.CycleNodes {
		if strict {
			result.Errors = append(result.Errors, ValidationError{
				SpecID:  id,
				Field:   "dependencies",
				Message: "feature participates in a dependency cycle",
			})
		} else {
			result.Warnings = append(result.Warnings, ValidationWarning{
				SpecID:  id,
				Message: "feature participates in a dependency cycle",
			})
		}
	}
	for _, id := range g.OrphanNodes {
		result.Warnings = append(result.Warnings, ValidationWarning{
			SpecID:  id,
			Message: "parent feature does not exist",
		})
	}
	return result
}
