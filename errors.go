package immodoc

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds of document generation. The typed
// errors below match them through errors.Is.
var (
	ErrMissingInput     = errors.New("immodoc: required input is missing")
	ErrTemplateNotFound = errors.New("immodoc: template not found")
	ErrConfiguration    = errors.New("immodoc: invalid configuration")
	ErrSettingsLoad     = errors.New("immodoc: agency settings could not be loaded")
)

// MissingInputError is returned when an orchestrator receives no record.
type MissingInputError struct {
	Document string // document kind, e.g. "contrat"
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("immodoc.%s: required input record is missing", e.Document)
}

func (e *MissingInputError) Is(target error) bool { return target == ErrMissingInput }

// TemplateNotFoundError reports a template that the store could not provide.
type TemplateNotFoundError struct {
	Name string // template name
	Err  error  // underlying cause, may be nil
}

func (e *TemplateNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("immodoc: template %q not found: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("immodoc: template %q not found", e.Name)
}

func (e *TemplateNotFoundError) Unwrap() error { return e.Err }

func (e *TemplateNotFoundError) Is(target error) bool { return target == ErrTemplateNotFound }

// ConfigurationError reports page geometry or settings that leave no room to
// draw. It is never recovered by the fallback document.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("immodoc: invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// SettingsLoadError wraps a failure of the agency settings source. Callers
// log it and continue with default settings.
type SettingsLoadError struct {
	AgencyID string
	Err      error
}

func (e *SettingsLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("immodoc: settings for agency %q: %v", e.AgencyID, e.Err)
	}
	return fmt.Sprintf("immodoc: settings for agency %q unavailable", e.AgencyID)
}

func (e *SettingsLoadError) Unwrap() error { return e.Err }

func (e *SettingsLoadError) Is(target error) bool { return target == ErrSettingsLoad }

// NewConfigurationError creates a ConfigurationError for the given field.
func NewConfigurationError(field, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason}
}
