// Package configpaths resolves where hidra looks for its configuration
// files and where generated templates land.
package configpaths

import (
	"os"
	"path/filepath"
	"runtime"
)

// systemDir is searched last on unix hosts.
const systemDir = "/etc/hidra"

// bases are the accepted config file names, most specific first.
var bases = []string{"hidra", "config"}

// Candidates holds config file paths per format, highest priority first.
// Each list feeds the kong loader for that format.
type Candidates struct {
	JSON []string
	YAML []string
	TOML []string
}

// Dir returns hidra's per-user configuration directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "hidra"), nil
}

// Resolve builds the candidate config files to try, in priority order: an
// explicit user-provided path, then the working directory, the user config
// directory, and the system directory on unix. The user path is routed to
// the loader matching its extension, JSON when unrecognized.
func Resolve(userPath string) Candidates {
	var c Candidates
	if userPath != "" {
		switch filepath.Ext(userPath) {
		case ".yaml", ".yml":
			c.YAML = append(c.YAML, userPath)
		case ".toml":
			c.TOML = append(c.TOML, userPath)
		default:
			c.JSON = append(c.JSON, userPath)
		}
	}

	dirs := []string{"."}
	if dir, err := Dir(); err == nil {
		dirs = append(dirs, dir)
	}
	if runtime.GOOS != "windows" {
		dirs = append(dirs, systemDir)
	}

	for _, dir := range dirs {
		for _, base := range bases {
			c.JSON = append(c.JSON, filepath.Join(dir, base+".json"))
			c.YAML = append(c.YAML, filepath.Join(dir, base+".yaml"), filepath.Join(dir, base+".yml"))
			c.TOML = append(c.TOML, filepath.Join(dir, base+".toml"))
		}
	}
	return c
}

// EnsureDir creates the directory for a file path if it does not exist yet.
func EnsureDir(filePath string) error {
	return os.MkdirAll(filepath.Dir(filePath), 0o755)
}
