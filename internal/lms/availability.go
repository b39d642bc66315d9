package lms

import (
	"encoding/json"
	"fmt"
)

// Availability is the decoded form of a module's JSON-encoded availability
// field. Nested condition groups are flattened into Conditions; the
// indicator checks only care about which condition types exist and their
// per-type fields, not the boolean structure.
type Availability struct {
	Op         string
	Conditions []AvailabilityCondition
}

// AvailabilityCondition is a single restriction. Type selects which of the
// remaining fields are meaningful ("grade": ID/Min, "date": Direction/Time,
// "completion": CM/Expected).
type AvailabilityCondition struct {
	Type      string  `json:"type"`
	ID        int     `json:"id,omitempty"`
	Min       float64 `json:"min,omitempty"`
	Direction string  `json:"d,omitempty"`
	Time      int64   `json:"t,omitempty"`
	CM        int     `json:"cm,omitempty"`
	Expected  int     `json:"e,omitempty"`
}

// Availability condition types used by the restriction checks.
const (
	ConditionGrade      = "grade"
	ConditionDate       = "date"
	ConditionCompletion = "completion"
)

// DateOnOrAfter is the date condition operator "available from this date".
const DateOnOrAfter = ">="

type availabilityNode struct {
	Op string            `json:"op"`
	C  []json.RawMessage `json:"c"`
}

// ParseAvailability decodes a module's availability field. Returns nil with
// no error for an empty field (no restrictions configured).
func ParseAvailability(raw string) (*Availability, error) {
	if raw == "" {
		return nil, nil
	}
	var node availabilityNode
	if err := json.Unmarshal([]byte(raw), &node); err != nil {
		return nil, fmt.Errorf("failed to parse availability JSON: %w", err)
	}
	av := &Availability{Op: node.Op}
	if err := collectConditions(node.C, &av.Conditions); err != nil {
		return nil, err
	}
	return av, nil
}

func collectConditions(raw []json.RawMessage, out *[]AvailabilityCondition) error {
	for _, msg := range raw {
		var nested availabilityNode
		if err := json.Unmarshal(msg, &nested); err == nil && nested.Op != "" {
			if err := collectConditions(nested.C, out); err != nil {
				return err
			}
			continue
		}
		var cond AvailabilityCondition
		if err := json.Unmarshal(msg, &cond); err != nil {
			return fmt.Errorf("failed to parse availability condition: %w", err)
		}
		*out = append(*out, cond)
	}
	return nil
}

// ConditionsOfType returns the conditions matching the given type.
func (a *Availability) ConditionsOfType(condType string) []AvailabilityCondition {
	if a == nil {
		return nil
	}
	var out []AvailabilityCondition
	for _, c := range a.Conditions {
		if c.Type == condType {
			out = append(out, c)
		}
	}
	return out
}
