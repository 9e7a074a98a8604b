package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	embedded "github.com/jonathan/blind-hire/schemas"
)

const validCV = `{
  "candidate_id": "CND-001",
  "identity": {"full_name": "Rumaz Naveed", "email": "rumaz@example.com", "institution": "Stanford University"},
  "skills": [{"name": "Python", "value": 85}, {"name": "Machine Learning", "value": 78}],
  "experience": [{"title": "Data Scientist", "employer": "Acme", "duration_months": 30}],
  "education": [{"degree": "MSc", "institution": "Stanford University"}]
}`

func TestValidate_CV(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
		field   string
	}{
		{name: "valid", doc: validCV},
		{name: "skill out of range", doc: `{"candidate_id":"c","identity":{"full_name":"A","email":"a@b.c"},"skills":[{"name":"Go","value":101}]}`, wantErr: true, field: "skills.0.value"},
		{name: "missing identity", doc: `{"candidate_id":"c","skills":[]}`, wantErr: true, field: "(root)"},
		{name: "unknown field", doc: `{"candidate_id":"c","identity":{"full_name":"A","email":"a@b.c"},"skills":[],"salary":1}`, wantErr: true, field: "(root)"},
		{name: "negative duration", doc: `{"candidate_id":"c","identity":{"full_name":"A","email":"a@b.c"},"skills":[],"experience":[{"title":"x","duration_months":-1}]}`, wantErr: true, field: "experience.0.duration_months"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(embedded.CV, []byte(tt.doc))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			require.NotEmpty(t, ve.Errors)
			assert.Equal(t, tt.field, ve.Errors[0].Field)
		})
	}
}

func TestValidate_Job(t *testing.T) {
	assert.NoError(t, Validate(embedded.Job, []byte(`{"title":"ML Engineer","description":"Build models","required_skills":[{"name":"Python","value":90}],"experience_level":"senior"}`)))

	err := Validate(embedded.Job, []byte(`{"title":"ML Engineer","description":"d","required_skills":[],"experience_level":"senior"}`))
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve), "empty required skills")

	err = Validate(embedded.Job, []byte(`{"title":"ML Engineer","description":"d","required_skills":[{"name":"Go","value":5}],"experience_level":"guru"}`))
	assert.True(t, errors.As(err, &ve), "unknown level")
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(embedded.CV, []byte(`{"candidate_id":`))
	require.Error(t, err)
	var ve *ValidationError
	assert.False(t, errors.As(err, &ve))
}

func TestLoad_UnknownSchema(t *testing.T) {
	_, err := Load("missing.schema.json")
	var le *SchemaLoadError
	require.True(t, errors.As(err, &le))
	assert.Contains(t, err.Error(), "missing.schema.json")
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cv.json")
	require.NoError(t, os.WriteFile(path, []byte(validCV), 0644))

	assert.NoError(t, ValidateFile(embedded.CV, path))

	err := ValidateFile(embedded.CV, filepath.Join(dir, "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`
	assert.NoError(t, ValidateJSONString(schema, `{"name":"x"}`))

	err := ValidateJSONString(schema, `{"name":1}`)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "name", ve.Errors[0].Field)
	assert.Contains(t, err.Error(), "validation failed")
}
