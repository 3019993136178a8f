package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
)

// ConfigurationError reports missing account or cost-center configuration at
// company or category level. It is surfaced to the operator and never retried.
type ConfigurationError struct {
	CompanyID  int64
	CategoryID int64
	Missing    string
}

func (e *ConfigurationError) Error() string {
	if e.CategoryID != 0 {
		return fmt.Sprintf("missing %s: set depreciation accounts in asset category %d or company %d", e.Missing, e.CategoryID, e.CompanyID)
	}
	return fmt.Sprintf("missing %s: set it in company %d", e.Missing, e.CompanyID)
}

// IsConfigurationError reports whether err wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// StateError reports an operation requested against a record in an invalid
// lifecycle state.
type StateError struct {
	AssetID int64
	Status  string
	Reason  string
}

func (e *StateError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("asset %d: %s (current status %q)", e.AssetID, e.Reason, e.Status)
	}
	return fmt.Sprintf("asset %d: %s", e.AssetID, e.Reason)
}

// IsStateError reports whether err wraps a StateError.
func IsStateError(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}
