package e2e_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runJSONForm runs the command line through go run with the session record
// disabled.
func runJSONForm(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../../main.go", "--no-session"}, args...)...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// TestEndToEnd_EditingSession walks a document through a sequence of edits
// the way a user would: add, duplicate, change, remove and save.
func TestEndToEnd_EditingSession(t *testing.T) {
	tempDir := t.TempDir()

	jsonContent := `[
		{
			"id": 12345,
			"uuid": "550e8400-e29b-41d4-a716-446655440000",
			"updated_at": null,
			"config": {
				"enabled": true,
				"timeout_seconds": 30,
				"features": ["logging", "metrics"],
				"rate_limits": {"per_second": 100, "burst": 1.5}
			},
			"active": true
		}
	]`
	jsonFile := filepath.Join(tempDir, "services.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(jsonContent), 0644))

	steps := [][]string{
		{"--yes", "duplicate", jsonFile},
		{"--yes", "set", jsonFile, "-n", "1", "id=12346", "config.rate_limits.burst=2", "updated_at=2024-01-01", "config.features=['tracing']"},
		{"--yes", "add-property", jsonFile, "-n", "1", "--at", "config", "owner", "object"},
		{"--yes", "add-property", jsonFile, "-n", "1", "--at", "config.owner", "team", "platform"},
		{"--yes", "delete-property", jsonFile, "-n", "0", "config.features"},
		{"--yes", "add-object", jsonFile, "id", `{"pending": true}`},
	}
	for _, args := range steps {
		_, stderr, err := runJSONForm(t, "", args...)
		require.NoError(t, err, "jsonform %v failed: %s", args, stderr)
	}

	data, err := os.ReadFile(jsonFile)
	require.NoError(t, err)

	var doc []map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc, 3)

	first := doc[0]
	assert.Equal(t, float64(12345), first["id"])
	assert.Nil(t, first["updated_at"])
	assert.NotContains(t, first["config"], "features")

	second := doc[1]
	assert.Equal(t, float64(12346), second["id"])
	assert.Equal(t, "2024-01-01", second["updated_at"])
	config := second["config"].(map[string]any)
	assert.Equal(t, []any{"tracing"}, config["features"])
	assert.Equal(t, map[string]any{"team": "platform"}, config["owner"])
	assert.Equal(t, 2.0, config["rate_limits"].(map[string]any)["burst"])

	assert.Equal(t, map[string]any{"id": map[string]any{"pending": true}}, doc[2])

	text := string(data)
	assert.Contains(t, text, `"burst": 2.0`)
	assert.True(t, strings.HasPrefix(text, "[\n  {\n    \"id\": 12345,"))
}

// TestEndToEnd_Preview renders objects with nested sections and arrays.
func TestEndToEnd_Preview(t *testing.T) {
	jsonFile := filepath.Join(t.TempDir(), "mixed.json")
	content := `[{"mixed": [1, "string", true, null, {"nested": "object"}, [1, 2]], "obj": {"k": "v"}, "e": {}}]`
	require.NoError(t, os.WriteFile(jsonFile, []byte(content), 0644))

	stdout, stderr, err := runJSONForm(t, "", "preview", jsonFile)
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "\"nested\": \"object\"")
	assert.Contains(t, stdout, "\"e\": {}")

	stdout, stderr, err = runJSONForm(t, "", "show", jsonFile)
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, `mixed = [1,"string",true,null,{"nested":"object"},[1,2]] (array)`)
	assert.Contains(t, stdout, "obj:\n  k = v (string)\n")
	assert.Contains(t, stdout, "e:\n")
}

// TestEndToEnd_EdgeCases tests documents that must be rejected or accepted
func TestEndToEnd_EdgeCases(t *testing.T) {
	testCases := []struct {
		name     string
		json     string
		args     []string
		expected string
		isError  bool
	}{
		{
			name:     "ObjectRoot",
			json:     `{}`,
			expected: "Root element must be an array (list) of objects.",
			isError:  true,
		},
		{
			name:     "EmptyArray",
			json:     `[]`,
			expected: "JSON array is empty.",
			isError:  true,
		},
		{
			name:     "PrimitiveItems",
			json:     `[1, 2]`,
			expected: "Item at index 0 is not an object.",
			isError:  true,
		},
		{
			name:     "NestedArrayItem",
			json:     `[{"a": 1}, [[42]]]`,
			expected: "Item at index 1 is not an object.",
			isError:  true,
		},
		{
			name:     "TrailingComma",
			json:     `[{"name": "Invalid JSON",}]`,
			expected: "JSON parsing error",
			isError:  true,
		},
		{
			name:     "TrailingCommaWithComments",
			json:     `[{"name": "fine",}]`,
			args:     []string{"--comments"},
			expected: "valid, 1 objects",
		},
		{
			name:     "DeeplyNestedObject",
			json:     `[{"level1":{"level2":{"level3":{"level4":{"level5":{"value":42}}}}}}]`,
			expected: "valid, 1 objects",
		},
		{
			name:     "EmptyObjectItem",
			json:     `[{}]`,
			expected: "valid, 1 objects",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			jsonFile := filepath.Join(t.TempDir(), "input.json")
			require.NoError(t, os.WriteFile(jsonFile, []byte(tc.json), 0644))

			args := append(append([]string{}, tc.args...), "validate", jsonFile)
			stdout, stderr, err := runJSONForm(t, "", args...)

			if tc.isError {
				assert.Error(t, err, "Expected an error for %s", tc.name)
				assert.Contains(t, stderr, tc.expected)
			} else {
				assert.NoError(t, err, "Unexpected error for %s: %s", tc.name, stderr)
				assert.Contains(t, stdout, tc.expected, "Expected output not found for %s", tc.name)
			}
		})
	}
}
