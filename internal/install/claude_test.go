package install

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readSettings(t *testing.T, path string) map[string]any {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var settings map[string]any
	require.NoError(t, json.Unmarshal(raw, &settings))
	return settings
}

func TestInstallStopHook_CreatesSettings(t *testing.T) {
	path := SettingsPath(t.TempDir())

	changed, err := InstallStopHook(path, HookCommand("/usr/local/bin/reviewgate"))
	require.NoError(t, err)
	assert.True(t, changed)

	settings := readSettings(t, path)
	hooks := settings["hooks"].(map[string]any)
	stop := hooks["Stop"].([]any)
	require.Len(t, stop, 1)
	inner := stop[0].(map[string]any)["hooks"].([]any)
	require.Len(t, inner, 1)
	assert.Equal(t, "command", inner[0].(map[string]any)["type"])
	assert.Equal(t, "/usr/local/bin/reviewgate hook", inner[0].(map[string]any)["command"])

	installed, err := IsInstalled(path)
	require.NoError(t, err)
	assert.True(t, installed)
}

func TestInstallStopHook_Idempotent(t *testing.T) {
	path := SettingsPath(t.TempDir())

	_, err := InstallStopHook(path, "reviewgate hook")
	require.NoError(t, err)
	changed, err := InstallStopHook(path, "reviewgate hook")
	require.NoError(t, err)
	assert.False(t, changed)

	stop := readSettings(t, path)["hooks"].(map[string]any)["Stop"].([]any)
	assert.Len(t, stop, 1)
}

func TestInstallStopHook_PreservesExistingSettings(t *testing.T) {
	path := SettingsPath(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	existing := `{
  "model": "opus",
  "hooks": {
    "PreToolUse": [{"matcher": "Bash", "hooks": [{"type": "command", "command": "enforce.sh"}]}],
    "Stop": [{"hooks": [{"type": "command", "command": "notify-send done"}]}]
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))

	changed, err := InstallStopHook(path, "reviewgate hook")
	require.NoError(t, err)
	assert.True(t, changed)

	settings := readSettings(t, path)
	assert.Equal(t, "opus", settings["model"])
	hooks := settings["hooks"].(map[string]any)
	assert.Len(t, hooks["PreToolUse"].([]any), 1)
	assert.Len(t, hooks["Stop"].([]any), 2)
}

func TestInstallStopHook_RejectsUnexpectedShapes(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid json", content: "{"},
		{name: "hooks not an object", content: `{"hooks": []}`},
		{name: "stop not a list", content: `{"hooks": {"Stop": "x"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := SettingsPath(t.TempDir())
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := InstallStopHook(path, "reviewgate hook")
			assert.Error(t, err)
		})
	}
}

func TestRemoveStopHook(t *testing.T) {
	path := SettingsPath(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	existing := `{"hooks": {"Stop": [{"hooks": [{"type": "command", "command": "notify-send done"}]}]}}`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))

	_, err := InstallStopHook(path, "/opt/reviewgate hook")
	require.NoError(t, err)

	changed, err := RemoveStopHook(path)
	require.NoError(t, err)
	assert.True(t, changed)

	stop := readSettings(t, path)["hooks"].(map[string]any)["Stop"].([]any)
	require.Len(t, stop, 1)
	installed, err := IsInstalled(path)
	require.NoError(t, err)
	assert.False(t, installed)

	changed, err = RemoveStopHook(path)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRemoveStopHook_MissingFile(t *testing.T) {
	changed, err := RemoveStopHook(SettingsPath(t.TempDir()))
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestHookCommand_QuotesSpaces(t *testing.T) {
	cmd := HookCommand("/Applications/My Tools/reviewgate")
	assert.Equal(t, `"/Applications/My Tools/reviewgate" hook`, cmd)
	assert.True(t, isGateCommand(cmd))
	assert.False(t, isGateCommand("reviewgate explain"))
}

func TestProjectRoot(t *testing.T) {
	root := t.TempDir()
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)
	nested := filepath.Join(root, "internal", "pkg")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := ProjectRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestProjectRoot_NotARepo(t *testing.T) {
	_, err := ProjectRoot(t.TempDir())
	assert.Error(t, err)
}
