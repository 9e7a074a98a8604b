package schemas_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/blind-hire/schemas"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, name := range []string{schemas.CV, schemas.Job, schemas.Seed} {
		t.Run(name, func(t *testing.T) {
			content, err := schemas.FS.ReadFile(name)
			require.NoError(t, err)

			var doc map[string]any
			require.NoError(t, json.Unmarshal(content, &doc), "schema should be valid JSON")
			assert.Equal(t, "http://json-schema.org/draft-07/schema#", doc["$schema"])
			assert.Equal(t, "object", doc["type"])
		})
	}
}
