package handlers

import (
	"path"
	"strings"

	"github.com/spf13/afero"
)

// DefaultRoots lists the application directories whose bundles can be
// offered and bound, in lookup priority order.
func DefaultRoots() []string {
	return []string{
		"/Applications",
		"/System/Applications",
		"/Applications/Utilities",
		"/System/Applications/Utilities",
		"/System/Volumes/Preboot/Cryptexes/App/System/Applications",
		"/System/Library/CoreServices/Applications",
	}
}

// DisplayName maps an application bundle path to its bare name when the
// bundle sits directly inside one of roots. Anything else is not actionable.
func DisplayName(appPath string, roots []string) (string, bool) {
	appPath = strings.TrimSpace(appPath)
	if appPath == "" || !strings.HasPrefix(appPath, "/") {
		return "", false
	}

	clean := path.Clean(appPath)
	base := path.Base(clean)
	if !strings.HasSuffix(base, ".app") || base == ".app" {
		return "", false
	}

	dir := path.Dir(clean)
	for _, root := range roots {
		if dir == path.Clean(root) {
			return strings.TrimSuffix(base, ".app"), true
		}
	}
	return "", false
}

// DisplayNames normalises a list of bundle paths, dropping the ones outside roots.
func DisplayNames(paths []string, roots []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if name, ok := DisplayName(p, roots); ok {
			out = append(out, name)
		}
	}
	return out
}

// Locate returns the first "<root>/<name>.app" bundle directory that exists.
func Locate(fs afero.Fs, name string, roots []string) (string, bool) {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".app")
	if name == "" || strings.ContainsAny(name, "/\x00") {
		return "", false
	}

	for _, root := range roots {
		candidate := path.Join(root, name+".app")
		info, err := fs.Stat(candidate)
		if err == nil && info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
