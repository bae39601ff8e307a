package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
)

// FeatureFlags manages feature toggles for the generation-backed parts of
// the course. Every flag only decides whether the external service is
// consulted; the local fallback is always available.
type FeatureFlags struct {
	mu sync.RWMutex

	features map[string]*Feature

	// Override rules (for testing/debugging)
	sessionOverrides map[string]map[string]bool // sessionID -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`

	// Rollout percentage (0-100)
	// Sessions are assigned based on hash of their ID
	RolloutPercent int `json:"rollout_percent"`
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	SessionID string
}

// Predefined feature flag names.
const (
	FeatureAINames     = "ai.names"      // Service-generated business names
	FeatureAIAdContent = "ai.ad_content" // Service-generated advertisement copy
	FeatureAIIdeas     = "ai.ideas"      // Extra service-generated business ideas
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:         make(map[string]*Feature),
		sessionOverrides: make(map[string]map[string]bool),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureAINames] = &Feature{
		Name:           FeatureAINames,
		Description:    "Ask the generation service for business names",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureAIAdContent] = &Feature{
		Name:           FeatureAIAdContent,
		Description:    "Ask the generation service for advertisement copy",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureAIIdeas] = &Feature{
		Name:           FeatureAIIdeas,
		Description:    "Append service-generated ideas to the idea table",
		Enabled:        true,
		RolloutPercent: 100,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false|<percent>
// Example: FEATURE_AI_IDEAS=false
// Example: FEATURE_AI_NAMES=50 (50% rollout)
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		val := os.Getenv(featureNameToEnvKey(name))
		if val == "" {
			continue
		}

		if b, err := strconv.ParseBool(val); err == nil {
			feature.Enabled = b
			if b {
				feature.RolloutPercent = 100
			} else {
				feature.RolloutPercent = 0
			}
			continue
		}

		if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
			feature.Enabled = p > 0
			feature.RolloutPercent = p
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "ai.ad_content" -> "FEATURE_AI_AD_CONTENT"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
// A nil receiver reports every feature as enabled.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	if ff == nil {
		return true
	}

	ff.mu.RLock()
	defer ff.mu.RUnlock()

	if ctx != nil && ctx.SessionID != "" {
		if overrides, ok := ff.sessionOverrides[ctx.SessionID]; ok {
			if enabled, ok := overrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	if !feature.Enabled {
		return false
	}

	if feature.RolloutPercent < 100 && ctx != nil && ctx.SessionID != "" {
		return isInRollout(ctx.SessionID, featureName, feature.RolloutPercent)
	}

	return feature.RolloutPercent > 0
}

// isInRollout uses consistent hashing so a session stays in its bucket.
func isInRollout(sessionID, featureName string, percent int) bool {
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write([]byte(sessionID))

	return int(h.Sum32()%100) < percent
}

// SetSessionOverride forces a feature on or off for one session.
func (ff *FeatureFlags) SetSessionOverride(sessionID, featureName string, enabled bool) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.features[featureName]; !ok {
		return ErrFeatureNotFound
	}
	if _, ok := ff.sessionOverrides[sessionID]; !ok {
		ff.sessionOverrides[sessionID] = make(map[string]bool)
	}
	ff.sessionOverrides[sessionID][featureName] = enabled
	return nil
}

// ClearSessionOverrides removes all overrides for a session.
func (ff *FeatureFlags) ClearSessionOverrides(sessionID string) {
	if ff == nil {
		return
	}
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.sessionOverrides, sessionID)
}

// SetRolloutPercent updates the rollout percentage for a feature.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0

	return nil
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]Feature {
	if ff == nil {
		return map[string]Feature{}
	}
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]Feature, len(ff.features))
	for k, v := range ff.features {
		result[k] = *v
	}
	return result
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
