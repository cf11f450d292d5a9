package intent

import (
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// PatternSet holds the keyword families driving intent classification.
// The zero value is unusable; start from DefaultPatterns. The set can be
// replaced at runtime via SetPatterns (hot reload from patterns.yaml).
type PatternSet struct {
	// Research gates the whole research stage: the pipeline only searches
	// when the raw task text contains one of these.
	Research []string `yaml:"research"`

	// Classification families, evaluated in fixed priority order:
	// weather, financial, academic, customer. General is the catch-all.
	Weather   []string `yaml:"weather"`
	Financial []string `yaml:"financial"`
	Academic  []string `yaml:"academic"`
	Customer  []string `yaml:"customer"`
}

// DefaultPatterns returns the built-in keyword families.
func DefaultPatterns() *PatternSet {
	return &PatternSet{
		Research: []string{
			"research", "search", "find", "information",
			"weather", "forecast", "conditions", "temperature", "rain", "snow",
			"financial", "market", "stock", "investment", "cryptocurrency",
			"academic", "literature", "study", "analysis",
		},
		Weather:   []string{"weather", "forecast", "conditions"},
		Financial: []string{"investment", "financial", "market", "stock", "cryptocurrency"},
		Academic:  []string{"literature", "academic", "research", "study", "analysis"},
		Customer:  []string{"customer", "complaint", "refund", "support ticket", "inquiry"},
	}
}

var (
	patternsMu sync.RWMutex
	patterns   = DefaultPatterns()
)

// CurrentPatterns returns the active pattern set.
func CurrentPatterns() *PatternSet {
	patternsMu.RLock()
	defer patternsMu.RUnlock()
	return patterns
}

// SetPatterns swaps the active pattern set. Empty families in the new set
// fall back to the defaults so a partial patterns.yaml cannot disable
// classification entirely.
func SetPatterns(ps *PatternSet) {
	if ps == nil {
		return
	}
	def := DefaultPatterns()
	if len(ps.Research) == 0 {
		ps.Research = def.Research
	}
	if len(ps.Weather) == 0 {
		ps.Weather = def.Weather
	}
	if len(ps.Financial) == 0 {
		ps.Financial = def.Financial
	}
	if len(ps.Academic) == 0 {
		ps.Academic = def.Academic
	}
	if len(ps.Customer) == 0 {
		ps.Customer = def.Customer
	}
	patternsMu.Lock()
	patterns = ps
	patternsMu.Unlock()
}

// PatternsFromYAML parses a patterns.yaml document.
func PatternsFromYAML(data []byte) (*PatternSet, error) {
	var ps PatternSet
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("parse patterns: %w", err)
	}
	return &ps, nil
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
