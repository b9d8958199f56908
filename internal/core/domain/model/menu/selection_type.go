package menu

import (
	"fmt"

	"lunchroom/internal/pkg/errs"
)

// SelectionType determines how many options a variation group accepts.
type SelectionType int

const (
	// UnknownSelectionType catches uninitialized values.
	UnknownSelectionType SelectionType = iota

	// Single groups accept exactly one option (a size, a spice level).
	Single

	// Multi groups accept zero or more options (extras, add-ons).
	Multi
)

func getSelectionTypeStrings() map[SelectionType]string {
	return map[SelectionType]string{
		UnknownSelectionType: "Unknown",
		Single:               "SINGLE",
		Multi:                "MULTI",
	}
}

// SelectionTypeFromString parses the persisted representation.
func SelectionTypeFromString(s string) (SelectionType, error) {
	for st, str := range getSelectionTypeStrings() {
		if str == s && st != UnknownSelectionType {
			return st, nil
		}
	}
	return UnknownSelectionType, errs.NewValueIsInvalidErrorWithCause(
		"selection type",
		fmt.Errorf("%q is not a valid selection type", s),
	)
}

// Validate rejects everything except Single and Multi.
func (s SelectionType) Validate() error {
	if s != Single && s != Multi {
		return errs.NewValueIsInvalidErrorWithCause(
			"selection type",
			fmt.Errorf("%d is not a valid selection type", s),
		)
	}
	return nil
}

// String returns the persisted representation, "Unknown" for invalid values.
func (s SelectionType) String() string {
	if str, ok := getSelectionTypeStrings()[s]; ok {
		return str
	}
	return "Unknown"
}
