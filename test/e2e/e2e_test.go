package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var quotedKeyRegex = regexp.MustCompile(`"([A-Za-z_][A-Za-z0-9_]*)":`)

func runCLI(t testing.TB, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../../main.go"}, args...)...)
	cmd.Env = append(os.Environ(), "JSONKIT_NO_DOTENV=1")
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stderr.String(), err
	}
	return stdout.String(), nil
}

// breakJSON turns valid pretty-printed JSON into a JavaScript-style literal:
// bare keys, single quotes, trailing commas and a dropped final brace.
func breakJSON(valid string) string {
	s := quotedKeyRegex.ReplaceAllString(valid, "$1:")
	s = strings.ReplaceAll(s, `"`, `'`)
	s = strings.ReplaceAll(s, "\n    }", ",\n    }")
	return strings.TrimSuffix(strings.TrimSpace(s), "}")
}

// TestEndToEnd_RepairThenConvert repairs a broken document and feeds the
// result through every other command.
func TestEndToEnd_RepairThenConvert(t *testing.T) {
	tempDir := t.TempDir()

	broken := `{
		// service settings
		id: 12345,
		name: 'edge-proxy',
		updated_at: null,
		config: {
			enabled: true,
			timeout_seconds: 30,
			features: ['logging', 'metrics', 'alerting',],
			/* per environment */
			environments: {
				development: {debug: true, log_level: 'debug'},
				production: {debug: false, log_level: 'info'},
			},
		},
		users: [
			{id: 1, name: 'Ann', roles: ['admin']}
			{id: 2, name: 'Bo', roles: []}
		],
		payload: '{"retry": 3}'
	`
	brokenFile := filepath.Join(tempDir, "broken.js")
	require.NoError(t, os.WriteFile(brokenFile, []byte(broken), 0644))
	fixedFile := filepath.Join(tempDir, "fixed.json")

	out, err := runCLI(t, "", "repair", "-i", brokenFile, "-o", fixedFile)
	require.NoError(t, err, out)

	fixed, err := os.ReadFile(fixedFile)
	require.NoError(t, err)
	require.True(t, json.Valid(fixed), string(fixed))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(fixed, &doc))
	assert.Equal(t, 12345.0, doc["id"])
	assert.Nil(t, doc["updated_at"])
	assert.Len(t, doc["users"], 2)
	assert.Equal(t, `{"retry": 3}`, doc["payload"])

	out, err = runCLI(t, "", "validate", "-i", fixedFile)
	require.NoError(t, err, out)
	assert.Equal(t, "valid\n", out)

	out, err = runCLI(t, "", "yaml", "-i", fixedFile)
	require.NoError(t, err, out)
	var fromYAML map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &fromYAML))
	assert.Equal(t, "edge-proxy", fromYAML["name"])
	assert.Less(t, strings.Index(out, "id:"), strings.Index(out, "config:"), "key order lost")

	out, err = runCLI(t, "", "xml", "-i", fixedFile)
	require.NoError(t, err, out)
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, "<feature>logging</feature><feature>metrics</feature>")
	assert.Contains(t, out, "<user><id>1</id><name>Ann</name><role>admin</role></user>")

	out, err = runCLI(t, "", "extract", "-i", fixedFile, "--field", "payload")
	require.NoError(t, err, out)
	assert.Equal(t, "{\n  \"retry\": 3\n}\n", out)

	out, err = runCLI(t, "", "stats", "-i", fixedFile)
	require.NoError(t, err, out)
	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, "object", stats["root_kind"])
	assert.Equal(t, 4.0, stats["depth"])
}

// TestEndToEnd_LargeBrokenDocument checks the repair result against the
// document the broken text was generated from.
func TestEndToEnd_LargeBrokenDocument(t *testing.T) {
	original := generateItems(rand.New(rand.NewSource(42)), 200)
	valid, err := json.MarshalIndent(map[string]interface{}{"items": original}, "", "  ")
	require.NoError(t, err)

	out, err := runCLI(t, breakJSON(string(valid)), "repair")
	require.NoError(t, err, out)

	var want, got interface{}
	require.NoError(t, json.Unmarshal(valid, &want))
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, want, got)
}

func generateItems(rng *rand.Rand, count int) []map[string]interface{} {
	items := make([]map[string]interface{}, count)
	for i := range items {
		items[i] = map[string]interface{}{
			"id":       i + 1,
			"name":     fmt.Sprintf("Item %d", i+1),
			"price":    float64(rng.Intn(100000)) / 100,
			"quantity": rng.Intn(100),
			"active":   rng.Intn(2) == 1,
			"tags":     []string{"tag1", "tag2", "tag3"}[0 : rng.Intn(3)+1],
		}
	}
	return items
}

// TestEndToEnd_EdgeCases tests various edge cases
func TestEndToEnd_EdgeCases(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		json     string
		expected string
		isError  bool
	}{
		{name: "EmptyObject", args: []string{"format"}, json: `{}`, expected: "{}\n"},
		{name: "EmptyArray", args: []string{"minify"}, json: ` [ ] `, expected: "[]\n"},
		{name: "SingleString", args: []string{"repair"}, json: `'just a string'`, expected: "\"just a string\"\n"},
		{name: "SingleNumber", args: []string{"yaml"}, json: `42`, expected: "42\n"},
		{name: "SingleNull", args: []string{"xml"}, json: `null`, expected: "<root></root>"},
		{name: "DeeplyNestedArray", args: []string{"repair"}, json: `[[[[[[42`, expected: "[[[[[[42]]]]]]\n"},
		{name: "TrailingCommaRejectedByValidate", args: []string{"validate"}, json: `{"name": "x",}`, isError: true},
		{name: "CommentsOnly", args: []string{"repair"}, json: `// nothing`, isError: true},
		{name: "ExtractNonString", args: []string{"extract"}, json: `{"request_body": 1}`, isError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := runCLI(t, tc.json, tc.args...)
			if tc.isError {
				assert.Error(t, err, "Expected an error for %s", tc.name)
				return
			}
			require.NoError(t, err, "Unexpected error for %s: %s", tc.name, out)
			assert.Contains(t, out, tc.expected, "Expected output not found for %s", tc.name)
		})
	}
}
