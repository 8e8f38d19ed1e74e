package prefabs

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.yaml
var catalogFS embed.FS

//go:embed scripts/*.tengo
var scriptsFS embed.FS

// Load reads a catalog file by name, preferring an on-disk copy under
// prefabs/ so edits apply without a rebuild, falling back to the embedded
// copy shipped in the binary.
func Load(name string) ([]byte, error) {
	clean := cleanPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return catalogFS.ReadFile(clean)
}

// LoadScript reads a behavior script by name, with the same disk-first
// resolution as Load.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return scriptsFS.ReadFile(clean)
}

func cleanPath(path string) string {
	s := filepath.ToSlash(path)
	return strings.TrimPrefix(s, "prefabs/")
}

func cleanScriptPath(path string) string {
	s := cleanPath(path)
	if !strings.HasPrefix(s, "scripts/") {
		s = "scripts/" + s
	}
	return s
}

func diskPath(clean string) string {
	return filepath.Join("prefabs", filepath.FromSlash(clean))
}
