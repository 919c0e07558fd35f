// FILE: utility.go
package recorder

import (
	"fmt"
	"strings"
	"time"
)

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "recorder: ") {
		format = "recorder: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// ParseLevel converts a level name to its Level value.
func ParseLevel(levelStr string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug, nil
	case "detail":
		return LevelDetail, nil
	case "normal":
		return LevelNormal, nil
	default:
		return 0, fmtErrorf("invalid level string: '%s' (use debug, detail, normal)", levelStr)
	}
}

// validateBaseName rejects names that would escape the log directory or collide with the archive pattern
func validateBaseName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidBaseName
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: '%s' must not contain path separators", ErrInvalidBaseName, name)
	}
	return nil
}

// sameDay reports whether a and b fall on the same local calendar date
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
