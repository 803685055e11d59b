package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerDocCoversAPIRoutes(t *testing.T) {
	var doc struct {
		BasePath string                    `json:"basePath"`
		Paths    map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	assert.Equal(t, "/api/v1", doc.BasePath)
	want := map[string]string{
		"/admin/questions":           "post",
		"/generate-test-custom":      "post",
		"/generate-test":             "post",
		"/grade":                     "post",
		"/recommend":                 "post",
		"/tests/custom":              "post",
		"/tests/{test_id}/questions": "get",
		"/tests/{test_id}/attempts":  "get",
		"/attempts":                  "post",
	}
	assert.Len(t, doc.Paths, len(want))
	for path, method := range want {
		ops, ok := doc.Paths[path]
		if assert.True(t, ok, path) {
			assert.Contains(t, ops, method, path)
		}
	}
}
