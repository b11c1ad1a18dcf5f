package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/svgaudit/internal/ops"
	"github.com/fulmenhq/svgaudit/pkg/exitcode"
)

const fixtureTree = `{
  "hr": {
    "leave": {
      "approved": {"img": "bg1.svg", "text": "Nothing to approve"},
      "rejected": {"img": "bg3.svg", "para": "No rejected requests"}
    }
  },
  "profile": {
    "avatar": {"img": "bg2.png"}
  }
}
`

func svgFile(w, h string) string {
	return `<svg xmlns="http://www.w3.org/2000/svg" width="` + w + `" height="` + h + `"><rect/></svg>`
}

// setupProject creates an asset folder and usage map in a temp dir and makes
// it the working directory.
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("SVGAUDIT_HOME", filepath.Join(dir, ".svgaudit"))
	t.Setenv("NO_COLOR", "1")
	t.Chdir(dir)

	files := map[string]string{
		"img/bg1.svg":          svgFile("196", "121"),
		"img/bg2.svg":          svgFile("100", "100"),
		"img/bg4.svg":          svgFile("196", "121"),
		"img/filter.svg":       svgFile("24", "24"),
		"data/image-data.json": fixtureTree,
	}
	for name, content := range files {
		require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func execRoot(t *testing.T, args []string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	registerSubcommands(cmd)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func newLoggerTestCommand(level string, jsonLogs, noColor, noOp bool) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().String("log-level", level, "")
	cmd.Flags().Bool("json", jsonLogs, "")
	cmd.Flags().Bool("no-color", noColor, "")
	cmd.Flags().Bool("no-op", noOp, "")
	return cmd
}

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		json    bool
		noColor bool
		noOp    bool
	}{
		{"default", "info", false, false, false},
		{"debug level", "debug", false, false, false},
		{"invalid level", "invalid", false, false, false},
		{"json output", "info", true, false, false},
		{"no color", "info", false, true, false},
		{"no-op", "trace", false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				initializeLogger(newLoggerTestCommand(tt.level, tt.json, tt.noColor, tt.noOp))
			})
		})
	}
}

func TestRootCmd_Help(t *testing.T) {
	cmd := newRootCommand()
	registerSubcommands(cmd)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "Svgaudit reconciles a folder of illustration assets")
	assert.Contains(t, output, "Browse Commands:\n")
	assert.Contains(t, output, "Audit Commands:\n")
	assert.Contains(t, output, "Support Commands:\n")
	assert.Contains(t, output, "  search ")
	assert.Contains(t, output, "  gallery ")
	assert.Contains(t, output, "--log-level")
}

func TestRootCmd_VersionFlag(t *testing.T) {
	out, err := execRoot(t, []string{"--version"})
	require.NoError(t, err)
	assert.Equal(t, "svgaudit dev\n", out)
}

func TestRootCmd_InvalidFlag(t *testing.T) {
	_, err := execRoot(t, []string{"--invalid-flag"})
	assert.Error(t, err)
}

func TestRegisteredCommandsMatchGroups(t *testing.T) {
	errs := ops.Validate(ops.Global(), ops.CoreCommands)
	assert.Empty(t, ops.FilterErrorsBySeverity(errs, ops.SeverityError), ops.FormatErrors(errs))
	assert.Empty(t, ops.FilterErrorsBySeverity(errs, ops.SeverityWarning))
}

func TestVersion(t *testing.T) {
	out, err := execRoot(t, []string{"version", "--extended"})
	require.NoError(t, err)
	assert.Contains(t, out, "svgaudit dev\n")
	assert.Contains(t, out, "Build date: unknown\n")
	assert.Contains(t, out, "OS/Arch: ")

	out, err = execRoot(t, []string{"version", "--format", "json"})
	require.NoError(t, err)
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "dev", v["version"])
	assert.IsType(t, "", v["go_version"])
	assert.IsType(t, "", v["platform"])

	_, err = execRoot(t, []string{"version", "--format", "xml"})
	assert.Equal(t, exitcode.UnsupportedFormat, exitcode.Of(err))
}

func TestConfigErrors(t *testing.T) {
	dir := setupProject(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "svgaudit.yaml"), []byte("unknown_key: 1\n"), 0o644))
	_, err := execRoot(t, []string{"tree"})
	assert.Equal(t, exitcode.ConfigError, exitcode.Of(err))

	_, err = execRoot(t, []string{"tree", "--config", filepath.Join(dir, "missing.yaml")})
	assert.Equal(t, exitcode.ConfigError, exitcode.Of(err))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "svgaudit.yaml"), []byte("json_path: data/other.json\n"), 0o644))
	_, err = execRoot(t, []string{"tree"})
	assert.Equal(t, exitcode.DataError, exitcode.Of(err))
}
