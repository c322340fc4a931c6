package models

import (
	"encoding/json"
)

// AssignmentType identifies which pool of work an organization or team hands out
type AssignmentType string

const (
	AssignmentTypeUnsent    AssignmentType = "UNSENT"
	AssignmentTypeUnreplied AssignmentType = "UNREPLIED"
	AssignmentTypeDisabled  AssignmentType = ""
)

// IsValid reports whether the assignment type names a real pool of work
func (t AssignmentType) IsValid() bool {
	return t == AssignmentTypeUnsent || t == AssignmentTypeUnreplied
}

// Organization represents an organization running texting campaigns
type Organization struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Features string `json:"-" db:"features"`
}

// AssignmentConfig is the typed view of the organization's assignment feature flags
type AssignmentConfig struct {
	Type            AssignmentType `json:"type"`
	GeneralEnabled  bool           `json:"general_enabled"`
	MaxRequestCount int            `json:"max_request_count"`
}

// organizationFeatures mirrors the feature-flag JSON blob stored on the organization row
type organizationFeatures struct {
	TextRequestFormEnabled bool   `json:"textRequestFormEnabled"`
	TextRequestType        string `json:"textRequestType"`
	TextRequestMaxCount    int    `json:"textRequestMaxCount"`
}

// ParseAssignmentConfig extracts the assignment configuration from the raw features JSON.
// Malformed or missing JSON yields a disabled configuration rather than an error.
func ParseAssignmentConfig(features string) AssignmentConfig {
	var parsed organizationFeatures
	if err := json.Unmarshal([]byte(features), &parsed); err != nil {
		return AssignmentConfig{Type: AssignmentTypeDisabled}
	}

	cfg := AssignmentConfig{
		Type:            AssignmentType(parsed.TextRequestType),
		GeneralEnabled:  parsed.TextRequestFormEnabled,
		MaxRequestCount: parsed.TextRequestMaxCount,
	}

	if !cfg.Type.IsValid() {
		cfg.Type = AssignmentTypeDisabled
	}

	return cfg
}
