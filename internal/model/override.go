package model

import (
	"encoding/json"
	"fmt"
)

// overrideKind discriminates the three states of a subfolder override.
type overrideKind int

const (
	overrideDerive overrideKind = iota // derive automatically (default)
	overrideRoot                       // force to the day root
	overrideLabel                      // force to a named subfolder
)

// SubfolderOverride is a three-state override for the subfolder a photo is
// grouped under within its day: derive automatically, force to the day
// root, or force to a specific label. The zero value is Derive.
type SubfolderOverride struct {
	kind  overrideKind
	label string
}

// DeriveSubfolder returns the default override: derive automatically.
func DeriveSubfolder() SubfolderOverride { return SubfolderOverride{} }

// ForceDayRoot returns an override that pins the photo to the day root.
func ForceDayRoot() SubfolderOverride { return SubfolderOverride{kind: overrideRoot} }

// ForceSubfolder returns an override that pins the photo to the named
// subfolder label.
func ForceSubfolder(label string) SubfolderOverride {
	return SubfolderOverride{kind: overrideLabel, label: label}
}

// IsDerive reports whether the override is the automatic default.
func (o SubfolderOverride) IsDerive() bool { return o.kind == overrideDerive }

// IsDayRoot reports whether the photo is pinned to the day root.
func (o SubfolderOverride) IsDayRoot() bool { return o.kind == overrideRoot }

// Label returns the forced subfolder label, if any.
func (o SubfolderOverride) Label() (string, bool) {
	return o.label, o.kind == overrideLabel
}

func (o SubfolderOverride) String() string {
	switch o.kind {
	case overrideRoot:
		return "day-root"
	case overrideLabel:
		return "subfolder:" + o.label
	default:
		return "derive"
	}
}

type overrideJSON struct {
	Mode  string `json:"mode"`
	Label string `json:"label,omitempty"`
}

func (o SubfolderOverride) MarshalJSON() ([]byte, error) {
	j := overrideJSON{}
	switch o.kind {
	case overrideRoot:
		j.Mode = "root"
	case overrideLabel:
		j.Mode = "label"
		j.Label = o.label
	default:
		j.Mode = "derive"
	}
	return json.Marshal(j)
}

func (o *SubfolderOverride) UnmarshalJSON(data []byte) error {
	var j overrideJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	switch j.Mode {
	case "derive", "":
		*o = DeriveSubfolder()
	case "root":
		*o = ForceDayRoot()
	case "label":
		*o = ForceSubfolder(j.Label)
	default:
		return fmt.Errorf("unknown subfolder override mode %q", j.Mode)
	}
	return nil
}
