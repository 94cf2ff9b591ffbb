package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"openai_api_key", "sk-live-abcdefghijklmnopqrstuvwxyz",
		"Authorization", "Bearer abc",
		"topic", "Photosynthesis",
	})

	assert.Equal(t, "[REDACTED]", out[1])
	assert.Equal(t, "[REDACTED]", out[3])
	assert.Equal(t, "Photosynthesis", out[5])
}

func TestSanitizeKVsHashesFilePaths(t *testing.T) {
	out := sanitizeKVs([]interface{}{"uploaded_file", "static/downloads/abc/uploaded_notes.pdf"})

	got, ok := out[1].(string)
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(got, "hash:"), "got=%q", got)
	assert.Len(t, got, len("hash:")+12)
}

func TestSanitizeKVsCatchesBareProviderKeys(t *testing.T) {
	out := sanitizeKVs([]interface{}{"value", "sk-ant-REDACTED"})
	assert.Equal(t, "[REDACTED]", out[1])
}

func TestSanitizeKVsKeepsDanglingKey(t *testing.T) {
	out := sanitizeKVs([]interface{}{"stage", "baseline", "orphan"})
	assert.Equal(t, []interface{}{"stage", "baseline", "orphan"}, out)
}

func TestSanitizeNestedMaps(t *testing.T) {
	out := sanitizeKVs([]interface{}{"headers", map[string]string{"X-Api-Key": "abc", "Accept": "json"}})

	m, ok := out[1].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "[REDACTED]", m["X-Api-Key"])
	assert.Equal(t, "json", m["Accept"])
}
