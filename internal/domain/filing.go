package domain

import (
	"fmt"
	"strings"
)

// FilingStatus selects which bracket table and threshold set applies
type FilingStatus int

const (
	Single FilingStatus = iota
	MarriedJoint
)

// ParseFilingStatus accepts the canonical text form plus the common aliases
// used on the command line ("mfj", "joint", "married joint").
func ParseFilingStatus(s string) (FilingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "s":
		return Single, nil
	case "married_joint", "married joint", "married-joint", "mfj", "joint":
		return MarriedJoint, nil
	default:
		return Single, fmt.Errorf("%w: %q", ErrUnknownFilingStatus, s)
	}
}

// String returns the canonical text form
func (fs FilingStatus) String() string {
	switch fs {
	case Single:
		return "single"
	case MarriedJoint:
		return "married_joint"
	default:
		return fmt.Sprintf("FilingStatus(%d)", int(fs))
	}
}

// Label returns a human-readable name for reports
func (fs FilingStatus) Label() string {
	if fs == MarriedJoint {
		return "Married Filing Jointly"
	}
	return "Single"
}

// MarshalText implements encoding.TextMarshaler (JSON and YAML)
func (fs FilingStatus) MarshalText() ([]byte, error) {
	return []byte(fs.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler (JSON and YAML)
func (fs *FilingStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseFilingStatus(string(text))
	if err != nil {
		return err
	}
	*fs = parsed
	return nil
}
