package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"hush/internal/adapter"
	"hush/internal/uploader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("IRYS_PRIVATE_KEY", "")
	t.Setenv("HUSH_DATABASE_DSN", filepath.Join(t.TempDir(), "hush.db"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestIrysCommand_WritesOneJSONLine(t *testing.T) {
	out, err := execute(t, `{"action":"teleport"}`, "irys")
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(out, "\n"))

	var resp adapter.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Unknown action", resp.Error)
}

func TestIrysCommand_MissingKey(t *testing.T) {
	out, err := execute(t, `{"action":"address"}`, "irys")
	require.NoError(t, err)

	var resp adapter.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, uploader.MissingKeyMessage, resp.Error)
	assert.Equal(t, uploader.KindInitialization, resp.Kind)
}

func TestIrysCommand_IgnoresUnrelatedSettings(t *testing.T) {
	t.Setenv("HUSH_ANALYSIS_REFINE_ENABLED", "true")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("HUSH_SERVER_PORT", "-1")

	out, err := execute(t, `{"action":"bogus"}`, "irys")
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(out, "\n"))

	var resp adapter.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "Unknown action", resp.Error)
}

func TestIrysCommand_BadIrysSettingIsJSON(t *testing.T) {
	t.Setenv("HUSH_IRYS_TIMEOUT", "-5s")

	out, err := execute(t, `{"action":"address"}`, "irys")
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(out, "\n"))

	var resp adapter.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, uploader.KindInitialization, resp.Kind)
	assert.Contains(t, resp.Error, "irys.timeout")
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	out, err := execute(t, "", "analyze", "--json", "I feel hopeless about money lately")
	require.NoError(t, err)

	var got struct {
		Analysis struct {
			Mood        string   `json:"mood"`
			Tags        []string `json:"tags"`
			CrisisLevel string   `json:"crisis_level"`
		} `json:"analysis"`
		Support struct {
			Advisory bool `json:"advisory"`
		} `json:"support"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "medium", got.Analysis.CrisisLevel)
	assert.Equal(t, []string{"money"}, got.Analysis.Tags)
	assert.True(t, got.Support.Advisory)
}

func TestDoctorCommand(t *testing.T) {
	out, err := execute(t, "", "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "Database connection successful.")
	assert.Contains(t, out, "Recent jobs: none")
}
