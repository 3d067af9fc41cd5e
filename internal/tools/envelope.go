package tools

import (
	"fmt"
	"path/filepath"
	"strings"

	internalerrors "github.com/jamesprial/mcp-oauth-2.1/internal/errors"
)

// canonicalize resolves symlinks and normalizes ".." in path, the shared
// first step for both read and write allowlist checks.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// The target may not exist yet (fs.write_file creating a new file);
		// fall back to the cleaned absolute path of the parent directory
		// joined with the file name, so a nonexistent file under an
		// allowed prefix is still accepted.
		dir, file := filepath.Split(abs)
		resolvedDir, dirErr := filepath.EvalSymlinks(dir)
		if dirErr != nil {
			return "", err
		}
		return filepath.Join(resolvedDir, file), nil
	}
	return resolved, nil
}

// checkAllowed canonicalizes path and verifies it falls under one of the
// allowed prefixes. An empty allowed list rejects everything, matching the
// fail-closed default for an unconfigured envelope.
func checkAllowed(path string, allowed []string, op string) (string, error) {
	canon, err := canonicalize(path)
	if err != nil {
		return "", internalerrors.New("tools", op, internalerrors.ErrPermissionDenied, fmt.Errorf("cannot resolve path: %w", err)).
			WithContext("path", path)
	}

	for _, prefix := range allowed {
		canonPrefix, err := canonicalize(prefix)
		if err != nil {
			continue
		}
		if canon == canonPrefix || strings.HasPrefix(canon, canonPrefix+string(filepath.Separator)) {
			return canon, nil
		}
	}

	return "", internalerrors.New("tools", op, internalerrors.ErrPermissionDenied, fmt.Errorf("path %q is outside the allowed prefixes", path)).
		WithContext("path", path)
}

// commandAllowed reports whether program may be spawned by cmd.exec, by
// exact name match against allowed, or the "*" wildcard.
func commandAllowed(program string, allowed []string) bool {
	for _, a := range allowed {
		if a == "*" || a == program {
			return true
		}
	}
	return false
}
