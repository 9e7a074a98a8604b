// Package types provides type definitions for structured data used throughout the blind-hire system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Skill is a named skill with a value in 0..100.
// On a candidate the value is proficiency; on a job it is the importance weight.
type Skill struct {
	Name  string `json:"name" validate:"required"`
	Value int    `json:"value" validate:"min=0,max=100"`
}

// MinSkillValue and MaxSkillValue bound Skill.Value.
const (
	MinSkillValue = 0
	MaxSkillValue = 100
)
