package shared

import (
	"strings"

	"github.com/google/uuid"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// SessionID identifies one visitor session (UUID format).
type SessionID string

// NewSessionID generates a fresh random session ID.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// ParseSessionID validates and normalizes a session ID.
func ParseSessionID(raw string) (SessionID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", WrapError("session", "ParseSessionID", ErrInvalidID, "invalid session ID format", err)
	}
	return SessionID(id.String()), nil
}

// String returns the string representation.
func (s SessionID) String() string { return string(s) }

// IsEmpty checks if the ID is empty.
func (s SessionID) IsEmpty() bool { return s == "" }

// ═══════════════════════════════════════════════════════════════════════════
// Module Value Object
// ═══════════════════════════════════════════════════════════════════════════

// ModuleKey identifies one of the five fixed lesson units.
type ModuleKey string

const (
	ModuleFamilies   ModuleKey = "session1"
	ModuleNeedsWants ModuleKey = "session2"
	ModuleBusinesses ModuleKey = "session3"
	ModuleJobs       ModuleKey = "session4"
	ModuleCreate     ModuleKey = "session5"
)

// AllModules lists the modules in course order.
var AllModules = []ModuleKey{
	ModuleFamilies,
	ModuleNeedsWants,
	ModuleBusinesses,
	ModuleJobs,
	ModuleCreate,
}

// IsValid checks if the key is one of the five modules.
func (m ModuleKey) IsValid() bool {
	for _, k := range AllModules {
		if m == k {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (m ModuleKey) String() string { return string(m) }

// ModuleOf derives the module from a quiz-style activity key
// ("session2_q1" -> "session2"). It returns false for keys without a
// module prefix.
func ModuleOf(activityKey string) (ModuleKey, bool) {
	prefix, _, _ := strings.Cut(activityKey, "_")
	m := ModuleKey(prefix)
	return m, m.IsValid()
}

// ═══════════════════════════════════════════════════════════════════════════
// Wizard Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// Timeframe distinguishes businesses a child can run now from careers for later.
type Timeframe string

const (
	TimeframeNow    Timeframe = "now"
	TimeframeFuture Timeframe = "future"
)

// IsValid checks the timeframe.
func (t Timeframe) IsValid() bool {
	return t == TimeframeNow || t == TimeframeFuture
}

// Creativity is the 1-5 silliness dial for generated names.
type Creativity int

const (
	MinCreativity     Creativity = 1
	MaxCreativity     Creativity = 5
	DefaultCreativity Creativity = 3
)

// Clamp bounds the level to [1,5].
func (c Creativity) Clamp() Creativity {
	switch {
	case c < MinCreativity:
		return MinCreativity
	case c > MaxCreativity:
		return MaxCreativity
	default:
		return c
	}
}
