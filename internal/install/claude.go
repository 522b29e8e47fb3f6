package install

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// binaryName is the executable name a Stop hook entry must mention to count
// as ours.
const binaryName = "reviewgate"

// stopEvent is the settings key for hooks run when the agent tries to stop.
const stopEvent = "Stop"

// SettingsPath returns the Claude settings file under dir.
func SettingsPath(dir string) string {
	return filepath.Join(dir, ".claude", "settings.json")
}

// GlobalSettingsPath returns ~/.claude/settings.json.
func GlobalSettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return SettingsPath(home), nil
}

// ProjectRoot returns the root of the git worktree containing start.
func ProjectRoot(start string) (string, error) {
	repo, err := git.PlainOpenWithOptions(start, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", fmt.Errorf("%s is not inside a git repository", start)
		}
		return "", fmt.Errorf("open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("open worktree: %w", err)
	}
	return wt.Filesystem.Root(), nil
}

// HookCommand builds the command line the host runs for the Stop hook.
func HookCommand(binary string) string {
	if strings.ContainsAny(binary, " \t") {
		binary = `"` + binary + `"`
	}
	return binary + " hook"
}

// InstallStopHook merges a Stop hook running command into the settings file
// at settingsPath, creating it if needed. Unrelated settings and hooks are
// preserved. It reports whether the file changed.
func InstallStopHook(settingsPath, command string) (bool, error) {
	settings, hooks, err := loadHooks(settingsPath)
	if err != nil {
		return false, err
	}

	stop, err := hookGroups(hooks, stopEvent)
	if err != nil {
		return false, err
	}
	if hasStopHook(stop) {
		return false, nil
	}

	stop = append(stop, map[string]any{
		"hooks": []any{
			map[string]any{
				"type":    "command",
				"command": command,
			},
		},
	})
	hooks[stopEvent] = stop
	settings["hooks"] = hooks

	if err := writeSettings(settingsPath, settings); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveStopHook deletes Stop hook entries installed by this tool. It reports
// whether the file changed.
func RemoveStopHook(settingsPath string) (bool, error) {
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return false, nil
	}
	settings, hooks, err := loadHooks(settingsPath)
	if err != nil {
		return false, err
	}
	stop, err := hookGroups(hooks, stopEvent)
	if err != nil {
		return false, err
	}

	kept := make([]any, 0, len(stop))
	for _, entry := range stop {
		if groupHasMarker(entry) {
			continue
		}
		kept = append(kept, entry)
	}
	if len(kept) == len(stop) {
		return false, nil
	}

	if len(kept) == 0 {
		delete(hooks, stopEvent)
	} else {
		hooks[stopEvent] = kept
	}
	settings["hooks"] = hooks

	if err := writeSettings(settingsPath, settings); err != nil {
		return false, err
	}
	return true, nil
}

// IsInstalled reports whether the settings file carries the Stop hook.
func IsInstalled(settingsPath string) (bool, error) {
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return false, nil
	}
	_, hooks, err := loadHooks(settingsPath)
	if err != nil {
		return false, err
	}
	stop, err := hookGroups(hooks, stopEvent)
	if err != nil {
		return false, err
	}
	return hasStopHook(stop), nil
}

func loadHooks(settingsPath string) (map[string]any, map[string]any, error) {
	settingsRaw, err := os.ReadFile(settingsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("read claude settings: %w", err)
		}
		settingsRaw = []byte(`{"hooks":{}}`)
	}

	var settings map[string]any
	if err := json.Unmarshal(settingsRaw, &settings); err != nil {
		return nil, nil, fmt.Errorf("parse claude settings: %w", err)
	}
	if settings == nil {
		settings = map[string]any{}
	}

	hooksVal, ok := settings["hooks"]
	if !ok {
		hooksVal = map[string]any{}
	}
	hooks, ok := hooksVal.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("claude settings hooks has unexpected type %T", hooksVal)
	}
	return settings, hooks, nil
}

func hookGroups(hooks map[string]any, event string) ([]any, error) {
	val, ok := hooks[event]
	if !ok {
		return []any{}, nil
	}
	groups, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("claude settings hooks.%s has unexpected type %T", event, val)
	}
	return groups, nil
}

func writeSettings(settingsPath string, settings map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0o755); err != nil {
		return fmt.Errorf("create claude settings dir: %w", err)
	}
	merged, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal claude settings: %w", err)
	}
	if err := os.WriteFile(settingsPath, append(merged, '\n'), 0o644); err != nil {
		return fmt.Errorf("write claude settings: %w", err)
	}
	return nil
}

func hasStopHook(groups []any) bool {
	for _, entry := range groups {
		if groupHasMarker(entry) {
			return true
		}
	}
	return false
}

func groupHasMarker(entry any) bool {
	group, ok := entry.(map[string]any)
	if !ok {
		return false
	}
	hooks, ok := group["hooks"].([]any)
	if !ok {
		return false
	}
	for _, hook := range hooks {
		hookMap, ok := hook.(map[string]any)
		if !ok {
			continue
		}
		command, _ := hookMap["command"].(string)
		if isGateCommand(command) {
			return true
		}
	}
	return false
}

func isGateCommand(command string) bool {
	command = strings.TrimSpace(command)
	return strings.Contains(command, binaryName) && strings.HasSuffix(command, " hook")
}
