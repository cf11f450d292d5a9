package intent

import (
	"regexp"
	"strings"
)

// Intent is the structured result of parsing free task text: the inferred
// domain, a research query, and an optional delivery destination. Extraction
// never fails; unrecognized phrasing degrades to DomainGeneral with a
// fallback query.
type Intent struct {
	Domain        Domain `json:"domain"`
	Query         string `json:"query"`
	Destination   string `json:"destination,omitempty"`
	NeedsResearch bool   `json:"needs_research"`
}

var (
	emailPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)

	// Delivery phrasing around a destination address is stripped from the
	// working text before query derivation, so the query never carries the
	// address or its "send ... to" clause.
	deliveryClausePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s*(?:send|email|mail).*?(?:to|at)\s+[\w.-]+@[\w.-]+\.\w+.*?(?:\.|$)`),
		regexp.MustCompile(`(?i)\s*(?:research and |and research |and )?send.*?(?:to|at)\s+[\w.-]+@[\w.-]+\.\w+.*?(?:\.|$)`),
	}

	questionPrefix   = regexp.MustCompile(`(?i)^(?:what are the|what is the|what are|what is|how to|how do|can you|please)\s+`)
	imperativePrefix = regexp.MustCompile(`(?i)^(?:conduct a|perform a|do a|make a)\s+`)

	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:weather|forecast|conditions).*?(?:in|for|at)\s+([^.?]+?)(?:\?|\.|\s+for|\s+event|$)`),
		regexp.MustCompile(`(?i)(?:outdoor|event).*?(?:in|at)\s+([^.?]+?)(?:\?|\.|\s+plan|$)`),
		regexp.MustCompile(`(?i)(?:plan|planning).*?(?:in|at|for)\s+([^.?]+?)(?:\?|\.|\s+event|$)`),
	}

	financialPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:investment opportunities|opportunities|investing|invest)\s+(?:in|for)\s+([^.?]+?)(?:\?|\.|\s+research|$)`),
		regexp.MustCompile(`(?i)(?:best|good|top)\s+([^.?]*?(?:investment|stock|market|financial)[^.?]*?)(?:\?|\.|\s+research|$)`),
		regexp.MustCompile(`(?i)(?:analyze|analysis|research|trends)\s+(?:of|in|on|for)\s+([^.?]+?)(?:\?|\.|\s+research|$)`),
		regexp.MustCompile(`(?i)(?:financial|market|stock|investment)\s+([^.?]+?)(?:\?|\.|\s+research|$)`),
	}
	financialTrailing = regexp.MustCompile(`(?i)\s+(?:research|and research|send|email).*$`)

	academicPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:literature review|review|research|study|analysis)\s+(?:on|of|about|regarding)\s+([^.?]+?)(?:\?|\.|\s+send|$)`),
		regexp.MustCompile(`(?i)(?:applications|uses|role)\s+(?:of|in)\s+([^.?]+?)(?:\?|\.|\s+send|$)`),
		regexp.MustCompile(`(?i)(?:machine learning|ai|artificial intelligence)\s+(?:in|for|applications in)\s+([^.?]+?)(?:\?|\.|\s+send|$)`),
	}
	academicTrailing = regexp.MustCompile(`(?i)\s+(?:send|email|mail).*$`)

	topicPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:about|on|regarding|for)\s+([^.?]+?)(?:\?|\.|\s+send|$)`),
		regexp.MustCompile(`(?i)^([^.?]+?)(?:\?|\.|\s+send|$)`),
	}

	// Single-word extractions that carry no topic are rejected.
	queryStopwords = map[string]bool{
		"and": true, "or": true, "but": true, "the": true, "of": true,
		"in": true, "to": true, "a": true, "an": true,
	}
)

// domainRule is one row of the classification cascade. Rows are evaluated
// in order and the first keyword match wins; keyword counts never override
// the fixed priority.
type domainRule struct {
	domain   Domain
	keywords func(ps *PatternSet) []string
	derive   func(cleaned string) string
	fallback string
}

var domainRules = []domainRule{
	{DomainWeather, func(ps *PatternSet) []string { return ps.Weather }, deriveWeatherQuery, "current weather forecast"},
	{DomainFinancial, func(ps *PatternSet) []string { return ps.Financial }, deriveFinancialQuery, "current market analysis financial trends"},
	{DomainAcademic, func(ps *PatternSet) []string { return ps.Academic }, deriveAcademicQuery, "academic research analysis"},
	{DomainCustomer, func(ps *PatternSet) []string { return ps.Customer }, deriveTopicQuery, "customer service request"},
}

// Extract parses raw task text into an Intent. Worst case it returns
// DomainGeneral with the trimmed raw text (or the generic fallback query
// when even that is empty).
func Extract(raw string) Intent {
	ps := CurrentPatterns()
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)

	out := Intent{Domain: DomainGeneral, NeedsResearch: containsAny(lower, ps.Research)}

	working := trimmed
	if addr := emailPattern.FindString(trimmed); addr != "" {
		// Only the first email-like substring is the destination.
		out.Destination = addr
		for _, re := range deliveryClausePatterns {
			working = re.ReplaceAllString(working, "")
		}
		// Address without recognizable delivery phrasing: drop it bare.
		working = strings.ReplaceAll(working, addr, "")
	}
	working = strings.TrimSpace(working)
	working = questionPrefix.ReplaceAllString(working, "")
	working = imperativePrefix.ReplaceAllString(working, "")
	working = strings.TrimSpace(working)

	for _, rule := range domainRules {
		if !containsAny(lower, rule.keywords(ps)) {
			continue
		}
		out.Domain = rule.domain
		q := strings.TrimSpace(rule.derive(working))
		if q == "" {
			q = rule.fallback
		}
		out.Query = q
		return out
	}

	q := strings.TrimSpace(deriveTopicQuery(working))
	if q == "" {
		q = working
	}
	if q == "" {
		q = "general research query"
	}
	out.Query = q
	return out
}

func deriveWeatherQuery(cleaned string) string {
	for _, re := range locationPatterns {
		if m := re.FindStringSubmatch(cleaned); m != nil {
			if loc := strings.TrimSpace(m[1]); loc != "" {
				return "current weather forecast " + loc
			}
		}
	}
	return ""
}

func deriveFinancialQuery(cleaned string) string {
	for _, re := range financialPatterns {
		m := re.FindStringSubmatch(cleaned)
		if m == nil {
			continue
		}
		extracted := strings.TrimSpace(financialTrailing.ReplaceAllString(m[1], ""))
		if len(extracted) > 3 && !queryStopwords[strings.ToLower(extracted)] {
			return extracted
		}
	}
	return ""
}

func deriveAcademicQuery(cleaned string) string {
	for _, re := range academicPatterns {
		m := re.FindStringSubmatch(cleaned)
		if m == nil {
			continue
		}
		extracted := strings.TrimSpace(academicTrailing.ReplaceAllString(m[1], ""))
		if len(extracted) > 3 {
			return extracted
		}
	}
	return ""
}

func deriveTopicQuery(cleaned string) string {
	for _, re := range topicPatterns {
		m := re.FindStringSubmatch(cleaned)
		if m == nil {
			continue
		}
		if extracted := strings.TrimSpace(m[1]); len(extracted) > 3 {
			return extracted
		}
	}
	return ""
}
