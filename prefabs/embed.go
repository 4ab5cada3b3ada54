package prefabs

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

//go:embed *.yaml
var PrefabsFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// DiskDir is where edited copies of the embedded files are looked for
// first. The viewer watches the same directory for hot reload.
var DiskDir = "prefabs"

// Load reads a spec file such as "level.yaml" or "prefabs/level.yaml".
func Load(name string) ([]byte, error) {
	return readOverlay(PrefabsFS, cleanPrefabPath(name))
}

// LoadScript reads a script such as "death_policy.tengo".
func LoadScript(name string) ([]byte, error) {
	return readOverlay(ScriptsFS, cleanScriptPath(name))
}

// readOverlay prefers the on-disk copy of clean and falls back to fsys.
func readOverlay(fsys embed.FS, clean string) ([]byte, error) {
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return fsys.ReadFile(clean)
}

// ModTime reports when the on-disk copy of name last changed. Files that
// only exist embedded report false.
func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskPath(cleanPrefabPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func cleanPrefabPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	s, _ = strings.CutPrefix(s, "prefabs/")
	return s
}

func cleanScriptPath(p string) string {
	if p == "" {
		return ""
	}
	s := cleanPrefabPath(p)
	s, _ = strings.CutPrefix(s, "scripts/")
	return path.Join("scripts", s)
}

func diskPath(clean string) string {
	return filepath.Join(DiskDir, filepath.FromSlash(clean))
}
