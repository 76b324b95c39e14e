package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonkit runs the CLI with stdin and returns stdout, stderr and the run error.
func jsonkit(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../../main.go"}, args...)...)
	cmd.Env = append(os.Environ(), "JSONKIT_NO_DOTENV=1")
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// TestCLI_FileInputOutput tests the CLI with file input and output
func TestCLI_FileInputOutput(t *testing.T) {
	tempDir := t.TempDir()

	broken := `{
		// exported from the admin console
		name: 'John Doe',
		age: 30,
		address: {street: '123 Main St', city: 'Anytown',},
		phones: [
			{type: 'home', number: '555-1234'}
			{type: 'work', number: '555-5678'},
		],
		active: true
	`
	input := filepath.Join(tempDir, "broken.json")
	require.NoError(t, os.WriteFile(input, []byte(broken), 0644))
	output := filepath.Join(tempDir, "fixed.json")

	_, stderr, err := jsonkit(t, "", "repair", "-i", input, "-o", output)
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Contains(t, stderr, "Output written to")

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc), string(data))
	assert.Equal(t, "John Doe", doc["name"])
	assert.Equal(t, 30.0, doc["age"])
	assert.Equal(t, map[string]interface{}{"street": "123 Main St", "city": "Anytown"}, doc["address"])
	assert.Len(t, doc["phones"], 2)
	assert.Equal(t, true, doc["active"])
}

// TestCLI_StdinStdout tests the CLI with stdin input and stdout output
func TestCLI_StdinStdout(t *testing.T) {
	stdout, stderr, err := jsonkit(t, `{a:1,}`, "repair")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Equal(t, "{\"a\":1}\n", stdout)
}

func TestCLI_Commands(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"validate", `{"a": 1}`, []string{"validate"}, "valid\n"},
		{"format", `{"a":[1]}`, []string{"format"}, "{\n  \"a\": [\n    1\n  ]\n}\n"},
		{"format with indent", `{"a":1}`, []string{"format", "--indent", "4"}, "{\n    \"a\": 1\n}\n"},
		{"minify", "{\n  \"a\": 1\n}", []string{"minify"}, "{\"a\":1}\n"},
		{"yaml", `{"name":"x","n":[1,2]}`, []string{"yaml"}, "name: x\nn:\n  - 1\n  - 2\n"},
		{"xml", `{"tags":["a"]}`, []string{"xml", "--root", "doc"}, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<doc>\n<tag>a</tag>\n</doc>\n"},
		{"extract", `{"request_body": "{\"x\":1}"}`, []string{"extract"}, "{\n  \"x\": 1\n}\n"},
		{"extract path", `{"req": {"body": "[2]"}}`, []string{"extract", "--field", "req.body"}, "[\n  2\n]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := jsonkit(t, tt.stdin, tt.args...)
			require.NoError(t, err, "CLI command failed: %s", stderr)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestCLI_Stats(t *testing.T) {
	stdout, stderr, err := jsonkit(t, `{"a":{"b":[1,2]}}`, "stats")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &stats))
	assert.Equal(t, 2.0, stats["keys"])
	assert.Equal(t, 3.0, stats["depth"])
	assert.Equal(t, "object", stats["root_kind"])
}

func TestCLI_ConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "jsonkit.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("format:\n  indent: 3\nxml:\n  root_name: data\n"), 0644))

	stdout, stderr, err := jsonkit(t, `{"a":1}`, "format", "-c", configPath)
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Equal(t, "{\n   \"a\": 1\n}\n", stdout)

	stdout, _, err = jsonkit(t, `{"a":1}`, "xml", "-c", configPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "<data>")
}

// TestCLI_InvalidJSON tests the CLI with invalid JSON input
func TestCLI_InvalidJSON(t *testing.T) {
	_, stderr, err := jsonkit(t, `{"name": "x" "age": }`, "validate")
	assert.Error(t, err, "CLI should fail with invalid JSON")
	assert.Contains(t, stderr, "JSON parsing error")
	assert.Contains(t, stderr, "line 1")
}

func TestCLI_Unrepairable(t *testing.T) {
	_, stderr, err := jsonkit(t, `{{{`, "repair")
	assert.Error(t, err)
	assert.Contains(t, stderr, "Repair error")
}

// TestCLI_EmptyInput tests the CLI with empty input
func TestCLI_EmptyInput(t *testing.T) {
	_, stderr, err := jsonkit(t, "", "repair")
	assert.Error(t, err, "CLI should fail with empty input")
	assert.Contains(t, stderr, "empty input")
}

// TestCLI_Version tests the version flag
func TestCLI_Version(t *testing.T) {
	stdout, _, err := jsonkit(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "jsonkit version")
}

// TestCLI_Help tests the help output
func TestCLI_Help(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "repair", "--help")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)

	helpOutput := string(output)
	assert.Contains(t, helpOutput, "Usage:")
	assert.Contains(t, helpOutput, "-i, --input")
	assert.Contains(t, helpOutput, "-o, --output")
	assert.Contains(t, helpOutput, "--deep")
	assert.Contains(t, helpOutput, "-c, --config")
}
