package trace

import (
	"fmt"
	"strings"
)

// Level is the finest scope a tracer records. Each level includes the
// events of the levels before it.
type Level uint8

const (
	LevelOff   Level = iota // nothing
	LevelPhase              // command and load/check phases
	LevelFile               // plus one span per declaration file
	LevelAlias              // plus one event per classified alias
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelPhase:
		return "phase"
	case LevelFile:
		return "file"
	case LevelAlias:
		return "alias"
	default:
		return fmt.Sprintf("Level(%d)", l)
	}
}

// ParseLevel converts a --trace-level value.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off":
		return LevelOff, nil
	case "phase":
		return LevelPhase, nil
	case "file":
		return LevelFile, nil
	case "alias":
		return LevelAlias, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|phase|file|alias)", s)
	}
}

// ShouldEmit reports whether events of scope are recorded at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	var finest Scope
	switch l {
	case LevelPhase:
		finest = ScopePass
	case LevelFile:
		finest = ScopeFile
	case LevelAlias:
		finest = ScopeAlias
	default:
		return false
	}
	return scope != 0 && scope <= finest
}
