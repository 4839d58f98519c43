package model

import (
	"encoding/json"
	"fmt"
)

// Confidence is the ordinal certainty of a detection:
// None < Low < Medium < High. The detector and reconciler compare
// confidences, so this is an ordered enum rather than a string.
type Confidence int

const (
	ConfidenceNone Confidence = iota
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
)

// AtLeast reports whether c is at least as confident as other.
func (c Confidence) AtLeast(other Confidence) bool { return c >= other }

// Downgrade lowers the confidence one tier: High becomes Medium, anything
// else non-None becomes Low. Used when the containing structure of a match
// was not confirmed.
func (c Confidence) Downgrade() Confidence {
	switch c {
	case ConfidenceHigh:
		return ConfidenceMedium
	case ConfidenceMedium, ConfidenceLow:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// MarshalJSON serializes the confidence as its string name so the
// persisted form stays readable and stable across reorderings.
func (c Confidence) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Confidence) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "high":
		*c = ConfidenceHigh
	case "medium":
		*c = ConfidenceMedium
	case "low":
		*c = ConfidenceLow
	case "none", "":
		*c = ConfidenceNone
	default:
		return fmt.Errorf("unknown confidence %q", s)
	}
	return nil
}
