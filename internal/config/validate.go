package config

import (
	"fmt"
	"slices"
	"strings"
)

// Rule-table validation error codes (E1xx).
const (
	ErrEmptyFieldName     = "E101" // required-field entry is blank
	ErrEmptyStatusSet     = "E102" // status set configured but empty
	ErrUnknownInverseType = "E103" // inverse references unconfigured type
	ErrAsymmetricInverse  = "E104" // inverse mapping is not symmetric
	ErrIncompletePair     = "E105" // contradiction rule missing a predicate
	ErrNegativeInterval   = "E106" // advisory interval below zero
)

// ValidationError describes one defect in a rule table.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks the rule tables for internal consistency.
// Returns all defects found (does not fail fast). A nil result means the
// config is safe to hand to a Sentinel.
func (c Config) Validate() []ValidationError {
	var errs []ValidationError

	for _, kind := range sortedKeys(c.RequiredFields) {
		for n, field := range c.RequiredFields[kind] {
			if strings.TrimSpace(field) == "" {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("required_fields.%s[%d]", kind, n),
					Message: "field name must not be blank",
					Code:    ErrEmptyFieldName,
				})
			}
		}
	}

	for _, kind := range sortedKeys(c.ValidStatuses) {
		if len(c.ValidStatuses[kind]) == 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("valid_statuses.%s", kind),
				Message: "status set is configured but empty; every status would be invalid",
				Code:    ErrEmptyStatusSet,
			})
		}
	}

	for _, t := range sortedKeys(c.RelationInverses) {
		inv := c.RelationInverses[t]
		if len(c.ValidRelationTypes) > 0 && !c.ValidRelationTypes[inv] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("relation_inverses.%s", t),
				Message: fmt.Sprintf("inverse %q is not a valid relation type", inv),
				Code:    ErrUnknownInverseType,
			})
		}
		if back, ok := c.RelationInverses[inv]; ok && back != t {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("relation_inverses.%s", t),
				Message: fmt.Sprintf("inverse of %q is %q but inverse of %q is %q", t, inv, inv, back),
				Code:    ErrAsymmetricInverse,
			})
		}
	}

	for n, rule := range c.Contradictions {
		if rule.First == "" || rule.Second == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("contradictions[%d]", n),
				Message: "both first and second predicates are required",
				Code:    ErrIncompletePair,
			})
		}
	}

	for _, cat := range sortedKeys(c.Intervals) {
		if c.Intervals[cat] < 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("intervals.%s", cat),
				Message: "interval must not be negative",
				Code:    ErrNegativeInterval,
			})
		}
	}

	return errs
}

// sortedKeys returns map keys in lexical order. Map iteration order is
// random; rule-table errors must come out in a stable order for tests and
// CLI output.
func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
