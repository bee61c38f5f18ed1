package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// EnvDataDir overrides DefaultDataDir when set.
const EnvDataDir = "LOBBYNET_DATA_DIR"

// DefaultDataDir returns a per-user directory for local state such as the
// message archive. Precedence: $LOBBYNET_DATA_DIR, os.UserConfigDir, then
// the current directory.
func DefaultDataDir() string {
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		return filepath.Clean(v)
	}
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "lobbynet")
	}
	return ".lobbynet"
}

// ArchivePath is the default location of the received-message archive.
func ArchivePath() string {
	return filepath.Join(DefaultDataDir(), "inbox.db")
}

// EnsureDir makes sure dir exists and returns the cleaned path.
func EnsureDir(dir string) (string, error) {
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
