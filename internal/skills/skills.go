// Package skills provides construction, validation and normalization of skills.
package skills

import (
	"fmt"
	"strings"

	"github.com/jonathan/blind-hire/internal/types"
)

// New builds a Skill, rejecting blank names and values outside 0..100.
func New(name string, value int) (types.Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Skill{}, &types.ValidationError{Field: "name", Message: "skill name is required"}
	}
	if value < types.MinSkillValue || value > types.MaxSkillValue {
		return types.Skill{}, &types.ValidationError{
			Field:   name,
			Message: fmt.Sprintf("skill value %d out of range [%d,%d]", value, types.MinSkillValue, types.MaxSkillValue),
		}
	}
	return types.Skill{Name: name, Value: value}, nil
}

// Validate checks every skill in list and rejects duplicate names. Names are compared
// by Key, so "golang" and "Go" collide. field prefixes error field paths.
func Validate(list []types.Skill, field string) error {
	seen := make(map[string]string, len(list))
	for i, s := range list {
		if _, err := New(s.Name, s.Value); err != nil {
			ve := err.(*types.ValidationError)
			return &types.ValidationError{Field: fmt.Sprintf("%s[%d]", field, i), Message: ve.Message}
		}
		key := Key(s.Name)
		if prev, dup := seen[key]; dup {
			return &types.ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: fmt.Sprintf("duplicate skill %q (already listed as %q)", s.Name, prev),
			}
		}
		seen[key] = s.Name
	}
	return nil
}

// Clean trims names and validates the list, returning a new slice.
func Clean(list []types.Skill, field string) ([]types.Skill, error) {
	out := make([]types.Skill, 0, len(list))
	for _, s := range list {
		out = append(out, types.Skill{Name: strings.TrimSpace(s.Name), Value: s.Value})
	}
	if err := Validate(out, field); err != nil {
		return nil, err
	}
	return out, nil
}

// Add appends s to list unless a skill with the same key is already present.
func Add(list []types.Skill, s types.Skill) ([]types.Skill, error) {
	s, err := New(s.Name, s.Value)
	if err != nil {
		return list, err
	}
	key := Key(s.Name)
	for _, existing := range list {
		if Key(existing.Name) == key {
			return list, &types.ValidationError{
				Field:   s.Name,
				Message: fmt.Sprintf("duplicate skill %q (already listed as %q)", s.Name, existing.Name),
			}
		}
	}
	return append(list, s), nil
}

// Index maps each skill key to its value.
func Index(list []types.Skill) map[string]int {
	idx := make(map[string]int, len(list))
	for _, s := range list {
		idx[Key(s.Name)] = s.Value
	}
	return idx
}
