package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("maskable", maskable); err != nil {
		panic(err)
	}
	return v
}

// maskable accepts identity literals the redactor can find again in free text: valid
// UTF-8, at least two characters once trimmed, and at least one letter or digit.
func maskable(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if !utf8.ValidString(s) || utf8.RuneCountInString(s) < 2 {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) >= 0
}

// PostJobRequest is the input for posting a new job.
type PostJobRequest struct {
	Title           string  `json:"title" validate:"required"`
	Description     string  `json:"description" validate:"required"`
	RequiredSkills  []Skill `json:"required_skills" validate:"required,min=1,dive"`
	ExperienceLevel string  `json:"experience_level" validate:"required,oneof=entry mid senior"`
}

// SubmitCVRequest is already-structured CV data. Parsing CV documents happens elsewhere.
type SubmitCVRequest struct {
	Identity   IdentityInput `json:"identity"`
	Skills     []Skill       `json:"skills" validate:"dive"`
	Experience []Experience  `json:"experience" validate:"dive"`
	Education  []Education   `json:"education" validate:"dive"`
}

// IdentityInput mirrors Identity with intake validation rules.
type IdentityInput struct {
	FullName    string `json:"full_name" validate:"required,maskable"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,maskable"`
	Location    string `json:"location,omitempty" validate:"omitempty,maskable"`
	Institution string `json:"institution,omitempty" validate:"omitempty,maskable"`
}

// UpdateCVRequest replaces the mutable professional fields of a candidate.
type UpdateCVRequest struct {
	Skills     []Skill      `json:"skills" validate:"dive"`
	Experience []Experience `json:"experience" validate:"dive"`
	Education  []Education  `json:"education" validate:"dive"`
}

// ScheduleInterviewRequest books an interview slot for a revealed candidate.
type ScheduleInterviewRequest struct {
	RecruiterID string    `json:"recruiter_id" validate:"required"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
}

// Validate validates the PostJobRequest using the validator.
func (r *PostJobRequest) Validate() error {
	return structError(validate.Struct(r))
}

// Validate validates the SubmitCVRequest using the validator.
func (r *SubmitCVRequest) Validate() error {
	return structError(validate.Struct(r))
}

// Validate validates the UpdateCVRequest using the validator.
func (r *UpdateCVRequest) Validate() error {
	return structError(validate.Struct(r))
}

// Validate validates the ScheduleInterviewRequest using the validator.
func (r *ScheduleInterviewRequest) Validate() error {
	return structError(validate.Struct(r))
}

// Identity converts the validated input into the stored identity, trimming whitespace.
func (in IdentityInput) Identity() Identity {
	return Identity{
		FullName:    strings.TrimSpace(in.FullName),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		Location:    strings.TrimSpace(in.Location),
		Institution: strings.TrimSpace(in.Institution),
	}
}

// structError converts validator errors into a *ValidationError naming the first failing field.
func structError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		msg := fmt.Sprintf("failed on '%s'", fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("failed on '%s=%s'", fe.Tag(), fe.Param())
		}
		return &ValidationError{Field: fieldPath(fe.Namespace()), Message: msg}
	}
	return &ValidationError{Message: err.Error()}
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
