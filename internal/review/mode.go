package review

import (
	"fmt"
	"strings"
)

// Mode controls when comments reach disk.
type Mode string

const (
	// ModeImmediate writes every comment to its own review file as it is added.
	ModeImmediate Mode = "immediate"
	// ModeBatched queues comments until Submit writes them in one file.
	ModeBatched Mode = "batched"
)

// ParseMode accepts a mode name case-insensitively. Empty means immediate.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeImmediate:
		return ModeImmediate, nil
	case ModeBatched:
		return ModeBatched, nil
	}
	return "", fmt.Errorf("unknown review mode %q (want immediate or batched)", s)
}
