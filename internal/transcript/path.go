package transcript

import "strings"

// editTools maps each file-editing tool to the input field holding its target
// path.
var editTools = map[string]string{
	"Edit":         "file_path",
	"MultiEdit":    "file_path",
	"Write":        "file_path",
	"NotebookEdit": "notebook_path",
}

// exemptPrefixes lists directory prefixes whose edits never require review.
var exemptPrefixes = []string{
	"docs/",
}

// IsEditTool reports whether name is a recognized file-editing tool.
func IsEditTool(name string) bool {
	_, ok := editTools[name]
	return ok
}

// PathField returns the input field carrying the target path for an edit tool.
func PathField(tool string) (string, bool) {
	field, ok := editTools[tool]
	return field, ok
}

// NormalizePath makes an edit target relative to the project: the cwd prefix
// is stripped when present, then leading slashes, then a leading "./".
func NormalizePath(path, cwd string) string {
	cwd = strings.TrimRight(cwd, "/")
	if cwd != "" && (path == cwd || strings.HasPrefix(path, cwd+"/")) {
		path = strings.TrimPrefix(path, cwd)
	}
	path = strings.TrimLeft(path, "/")
	return strings.TrimPrefix(path, "./")
}

// IsExempt reports whether a normalized path sits under an exempt directory.
// It is a pure prefix test and never touches the filesystem.
func IsExempt(path string) bool {
	for _, prefix := range exemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
