package enums

import "fmt"

// AlertKind classifies an alert row; the schema enforces the same set with
// a CHECK constraint.
type AlertKind string

const (
	AlertKindLowStock AlertKind = "low_stock"
	AlertKindMisuse   AlertKind = "misuse"
)

var validAlertKinds = []AlertKind{
	AlertKindLowStock,
	AlertKindMisuse,
}

// String implements fmt.Stringer.
func (k AlertKind) String() string {
	return string(k)
}

// IsValid checks whether the given kind matches the canonical enum.
func (k AlertKind) IsValid() bool {
	for _, candidate := range validAlertKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseAlertKind converts raw strings into AlertKind.
func ParseAlertKind(value string) (AlertKind, error) {
	for _, candidate := range validAlertKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert kind %q", value)
}
