package config

import (
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// FeatureFlags manages on/off toggles for optional parts of the registrar.
type FeatureFlags struct {
	mu       sync.RWMutex
	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool
}

// Predefined feature flag names.
const (
	FeatureEventMetrics  = "events.metrics"       // log event bus counters on exit
	FeatureAuditJournal  = "events.audit_journal" // append enrollment events to PostgreSQL
	FeatureRedisFanout   = "events.redis_fanout"  // mirror events to a Redis channel
	FeatureStartupVerify = "startup.verify"       // check registry invariants after seeding
	FeatureSampleCatalog = "catalog.samples"      // seed the built-in catalog when no file is given
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features: make(map[string]*Feature),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

func (ff *FeatureFlags) initializeDefaults() {
	ff.define(FeatureEventMetrics, "Log event bus metrics on exit", true)
	ff.define(FeatureAuditJournal, "Write enrollment events to the PostgreSQL audit journal", false)
	ff.define(FeatureRedisFanout, "Publish enrollment events to Redis pub/sub", false)
	ff.define(FeatureStartupVerify, "Verify capacity and mirror invariants after seeding", true)
	ff.define(FeatureSampleCatalog, "Seed sample courses and students", true)
}

func (ff *FeatureFlags) define(name, description string, enabled bool) {
	ff.features[name] = &Feature{Name: name, Description: description, Enabled: enabled}
}

// loadFromEnvironment applies overrides.
// Format: FEATURE_<NAME>=true|false
// Example: FEATURE_EVENTS_AUDIT_JOURNAL=true
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		if val := os.Getenv(featureNameToEnvKey(name)); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "events.audit_journal" -> "FEATURE_EVENTS_AUDIT_JOURNAL"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled reports whether a feature is on. Unknown features are off.
func (ff *FeatureFlags) IsEnabled(featureName string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	f, ok := ff.features[featureName]
	return ok && f.Enabled
}

// SetEnabled toggles a known feature.
func (ff *FeatureFlags) SetEnabled(featureName string, enabled bool) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	f, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}
	f.Enabled = enabled
	return nil
}

// Names returns all feature names, sorted.
func (ff *FeatureFlags) Names() []string {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	names := make([]string, 0, len(ff.features))
	for name := range ff.features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// --- Errors ---

var ErrFeatureNotFound = &FeatureFlagError{Message: "feature not found"}

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
