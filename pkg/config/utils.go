package config

import (
	"os"
	"path/filepath"
)

const defaultEnvFile = ".env"

// FindEnvFile resolves name against startDir and its parents and returns the
// first match. The walk stops after the directory holding go.mod, so a
// binary run inside a module never picks up files from outside it. An
// absolute name is only checked as given.
func FindEnvFile(name, startDir string) (string, error) {
	if name == "" {
		name = defaultEnvFile
	}
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", err
		}
		return name, nil
	}

	for dir := startDir; ; {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		if isModuleRoot(dir) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func isModuleRoot(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "go.mod"))
	return err == nil
}
