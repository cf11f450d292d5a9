// Package insights distills raw fetched page text into labeled insight
// buckets using per-domain keyword rules. Analysis is a pure function of its
// inputs: no collaborator calls, no clock, no randomness.
package insights

import (
	"strings"

	"github.com/omnix-ai/orchestrator/internal/intent"
	"github.com/omnix-ai/orchestrator/internal/models"
)

// Bundle holds the four insight buckets. Each bucket carries at most
// MaxPerBucket entries and no exact duplicates; entries keep first-seen
// order, so identical input always yields an identical bundle.
type Bundle struct {
	KeyFindings     []string `json:"key_findings"`
	SpecificData    []string `json:"specific_data"`
	Recommendations []string `json:"recommendations"`
	SummaryLines    []string `json:"summary"`
}

// MaxPerBucket caps every insight bucket.
const MaxPerBucket = 5

// Minimum unit lengths below which a line/paragraph is treated as noise.
const (
	minLineLen          = 20
	minFinancialLineLen = 30
	minParagraphLen     = 50
)

// Empty reports whether no bucket has entries.
func (b Bundle) Empty() bool {
	return len(b.KeyFindings) == 0 && len(b.SpecificData) == 0 &&
		len(b.Recommendations) == 0 && len(b.SummaryLines) == 0
}

// Analyze classifies the successfully fetched page bodies into insight
// buckets for the given domain. Pages that failed or carry no text are
// skipped; when nothing remains the bundle is all-empty, never nil slices
// turned into an error.
func Analyze(pages []models.FetchedPage, domain intent.Domain) Bundle {
	var sb strings.Builder
	for _, p := range pages {
		if p.Succeeded && p.Content != "" {
			sb.WriteString(p.Content)
			sb.WriteString("\n\n")
		}
	}
	text := sb.String()
	if text == "" {
		return Bundle{}
	}

	var b Bundle
	switch domain {
	case intent.DomainWeather:
		b = analyzeWeather(text)
	case intent.DomainFinancial:
		b = analyzeFinancial(text)
	case intent.DomainAcademic:
		b = analyzeAcademic(text)
	case intent.DomainCustomer:
		b = analyzeCustomer(text)
	default:
		// The general domain has no keyword families; the report falls
		// back to search snippets instead.
		return Bundle{}
	}

	b.KeyFindings = dedupeCap(b.KeyFindings)
	b.SpecificData = dedupeCap(b.SpecificData)
	b.Recommendations = dedupeCap(b.Recommendations)
	b.SummaryLines = dedupeCap(b.SummaryLines)
	return b
}

func analyzeWeather(text string) Bundle {
	var b Bundle
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < minLineLen {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case hasAny(lower, "temperature", "degrees", "°f", "°c", "high", "low") && hasDigit(line):
			b.SpecificData = append(b.SpecificData, "Temperature: "+truncate(line, 150))
		case hasAny(lower, "rain", "snow", "sunny", "cloudy", "storm", "wind", "humidity", "precipitation"):
			b.KeyFindings = append(b.KeyFindings, "Conditions: "+truncate(line, 150))
		case hasAny(lower, "forecast", "outlook", "expected", "today", "tomorrow", "week"):
			b.SummaryLines = append(b.SummaryLines, "Forecast: "+truncate(line, 150))
		}
	}
	return b
}

func analyzeFinancial(text string) Bundle {
	var b Bundle
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < minFinancialLineLen {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case strings.ContainsAny(line, "$%") && hasAny(lower, "price", "cost", "return", "yield", "gain", "loss"):
			b.SpecificData = append(b.SpecificData, "Market Data: "+truncate(line, 200))
		case hasAny(lower, "invest", "opportunity", "recommend", "strategy", "portfolio", "diversify"):
			b.Recommendations = append(b.Recommendations, "Investment Insight: "+truncate(line, 200))
		case hasAny(lower, "trend", "growth", "market", "sector", "industry", "analysis"):
			b.KeyFindings = append(b.KeyFindings, "Market Analysis: "+truncate(line, 200))
		}
	}
	return b
}

func analyzeAcademic(text string) Bundle {
	var b Bundle
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if len(para) < minParagraphLen {
			continue
		}
		lower := strings.ToLower(para)
		switch {
		case hasAny(lower, "methodology", "method", "study design", "participants", "sample"):
			b.SpecificData = append(b.SpecificData, "Methodology: "+truncate(para, 250))
		case hasAny(lower, "findings", "results", "conclusion", "significant", "evidence"):
			b.KeyFindings = append(b.KeyFindings, "Research Finding: "+truncate(para, 250))
		case hasAny(lower, "recommend", "suggest", "future research", "limitation", "implication"):
			b.Recommendations = append(b.Recommendations, "Research Recommendation: "+truncate(para, 250))
		}
	}
	return b
}

func analyzeCustomer(text string) Bundle {
	var b Bundle
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < minLineLen {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case hasAny(lower, "solution", "resolve", "fix", "procedure", "policy", "refund", "exchange"):
			b.Recommendations = append(b.Recommendations, "Solution: "+truncate(line, 200))
		case hasAny(lower, "contact", "phone", "email", "department", "escalate", "manager"):
			b.SpecificData = append(b.SpecificData, "Contact Info: "+truncate(line, 150))
		}
	}
	return b
}

// dedupeCap removes exact duplicates keeping first-seen order, then caps the
// bucket. Dedup runs before truncation so a repeated early entry cannot
// crowd out a distinct later one.
func dedupeCap(entries []string) []string {
	if len(entries) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
		if len(out) == MaxPerBucket {
			break
		}
	}
	return out
}

func hasAny(lower string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
