// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the file contents (trimmed) are the value.
//
// The catalog client reads one key file: tind-api-token.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// APITokenKey names the file holding the TIND API token.
const APITokenKey = "tind-api-token"

// Load reads every key file in dir and returns a map of filename to trimmed
// contents. A missing directory yields an empty map. Hidden files, empty
// files and subdirectories are ignored. A file that cannot be read is
// logged and skipped. A file other users can read is loaded with a warning.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	keys := make(map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		if info, err := entry.Info(); err == nil && info.Mode().Perm()&0o077 != 0 {
			slog.Warn("secret file is readable by other users", "path", path, "mode", info.Mode().Perm())
		}

		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("could not read secret", "name", name, "error", err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			keys[name] = value
		}
	}
	return keys, nil
}

// APIToken returns the TIND API token stored in dir, or "" when none is set.
func APIToken(dir string) (string, error) {
	s, err := Load(dir)
	if err != nil {
		return "", err
	}
	return s[APITokenKey], nil
}
