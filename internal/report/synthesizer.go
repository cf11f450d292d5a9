// Package report renders the final multi-section task report. Synthesis is
// pure: it never fails, never calls out, and degrades to generic prose when
// research or insights are missing.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/omnix-ai/orchestrator/internal/insights"
	"github.com/omnix-ai/orchestrator/internal/intent"
	"github.com/omnix-ai/orchestrator/internal/models"
)

const rule80 = "================================================================================"
const rule40 = "----------------------------------------"

// Input carries everything synthesis may draw on. All fields are read-only;
// absent data (failed search, empty insights) selects fallback prose.
type Input struct {
	TaskText        string
	Intent          intent.Intent
	SourceName      string
	SearchSucceeded bool
	Results         []models.SearchResult
	Pages           []models.FetchedPage
	Insights        insights.Bundle
	GeneratedAt     time.Time
}

// template is the per-domain report shape. Section order is fixed by
// Synthesize; only the wording inside each section branches on domain.
type template struct {
	title           string
	summary         func(b *strings.Builder, in Input)
	recommendations func(b *strings.Builder, in Input)
	closing         func(b *strings.Builder, in Input)
}

var templates = map[intent.Domain]template{
	intent.DomainWeather:   {"WEATHER INFORMATION REPORT", weatherSummary, weatherRecommendations, weatherClosing},
	intent.DomainFinancial: {"FINANCIAL ANALYSIS REPORT", financialSummary, financialRecommendations, financialClosing},
	intent.DomainAcademic:  {"ACADEMIC RESEARCH REPORT", academicSummary, academicRecommendations, academicClosing},
	intent.DomainCustomer:  {"CUSTOMER SERVICE RESOLUTION REPORT", customerSummary, customerResponse, customerClosing},
	intent.DomainGeneral:   {"COMPREHENSIVE RESEARCH REPORT", generalSummary, generalConclusions, nil},
}

// Synthesize renders the report: header, domain summary, detailed findings
// (omitted entirely when research did not succeed), domain recommendations,
// domain closing, footer.
func Synthesize(in Input) string {
	tpl, ok := templates[in.Intent.Domain]
	if !ok {
		tpl = templates[intent.DomainGeneral]
	}
	if in.SourceName == "" {
		in.SourceName = in.Intent.Domain.DisplayName()
	}

	var b strings.Builder
	writeHeader(&b, tpl.title, in)
	tpl.summary(&b, in)
	b.WriteString("\n")
	if in.SearchSucceeded {
		writeDetailedFindings(&b, in)
	}
	tpl.recommendations(&b, in)
	b.WriteString("\n")
	if tpl.closing != nil {
		tpl.closing(&b, in)
		b.WriteString("\n")
	}
	writeFooter(&b, in)
	return b.String()
}

func writeHeader(b *strings.Builder, title string, in Input) {
	line(b, rule80)
	line(b, title)
	line(b, rule80)
	line(b, "Request: "+in.TaskText)
	if in.SearchSucceeded {
		line(b, "Research Query: "+in.Intent.Query)
	}
	line(b, fmt.Sprintf("Prepared by: %s (%s)", in.SourceName, strings.ToUpper(in.Intent.Domain.String())))
	line(b, "Generated on: "+in.GeneratedAt.Format("2006-01-02 15:04:05"))
	line(b, "")
}

func writeFooter(b *strings.Builder, in Input) {
	line(b, rule80)
	line(b, "Report generated by "+in.SourceName)
	line(b, "Domain: "+strings.ToUpper(in.Intent.Domain.String()))
	line(b, "Timestamp: "+in.GeneratedAt.Format("2006-01-02 15:04:05"))
	line(b, rule80)
}

// writeDetailedFindings enumerates each search result with its snippet and,
// when the matching page fetch succeeded, up to two relevant paragraphs plus
// publication metadata.
func writeDetailedFindings(b *strings.Builder, in Input) {
	line(b, "DETAILED FINDINGS")
	line(b, rule40)
	for i, r := range in.Results {
		title := r.Title
		if title == "" {
			title = "No title"
		}
		snippet := r.Snippet
		if snippet == "" {
			snippet = "No summary"
		}
		line(b, fmt.Sprintf("%d. %s", i+1, title))
		line(b, "   URL: "+r.URL)
		line(b, "   Summary: "+snippet)

		if i < len(in.Pages) && in.Pages[i].Succeeded && in.Pages[i].Content != "" {
			page := in.Pages[i]
			if paras := relevantParagraphs(page.Content, in.Intent.Query, 2); len(paras) > 0 {
				line(b, "   Key Insights:")
				for _, p := range paras {
					line(b, "   - "+p)
				}
			}
			if page.Author != "" {
				line(b, "   Author: "+page.Author)
			}
			if page.PublishedAt != "" {
				line(b, "   Published: "+page.PublishedAt)
			}
		}
		line(b, "")
	}
}

// relevantParagraphs picks up to max paragraphs over 100 chars that mention
// a query term, truncated to 300 chars.
func relevantParagraphs(content, query string, max int) []string {
	terms := queryTerms(query)
	var out []string
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if len(para) <= 100 {
			continue
		}
		lower := strings.ToLower(para)
		for _, t := range terms {
			if strings.Contains(lower, t) {
				if len([]rune(para)) > 300 {
					para = string([]rune(para)[:300]) + "..."
				}
				out = append(out, para)
				break
			}
		}
		if len(out) >= max {
			break
		}
	}
	return out
}

// queryTerms splits the query into lowercase terms longer than 3 chars so
// stop words do not mark everything relevant.
func queryTerms(query string) []string {
	var terms []string
	for _, f := range strings.Fields(strings.ToLower(query)) {
		if len(f) > 3 {
			terms = append(terms, f)
		}
	}
	return terms
}

func bullets(b *strings.Builder, heading string, entries []string) {
	if len(entries) == 0 {
		return
	}
	line(b, "")
	line(b, heading)
	for _, e := range entries {
		line(b, "- "+e)
	}
}

func line(b *strings.Builder, s string) {
	b.WriteString(s)
	b.WriteString("\n")
}

// --- weather ---

func weatherSummary(b *strings.Builder, in Input) {
	line(b, "WEATHER SUMMARY")
	line(b, rule40)
	if in.SearchSucceeded && !in.Insights.Empty() {
		line(b, "Based on current weather analysis:")
		bullets(b, "CURRENT CONDITIONS:", in.Insights.SpecificData)
		bullets(b, "WEATHER CONDITIONS:", in.Insights.KeyFindings)
		bullets(b, "FORECAST OUTLOOK:", in.Insights.SummaryLines)
		return
	}
	if in.SearchSucceeded {
		line(b, "Weather information found in search results:")
		for _, r := range topResults(in.Results, 2) {
			line(b, "- "+r.Snippet)
		}
		return
	}
	line(b, "I have processed your weather-related request.")
	line(b, "As a Weather Assistant, I provide current conditions, forecasts,")
	line(b, "and recommendations for weather-related planning.")
}

func weatherRecommendations(b *strings.Builder, in Input) {
	line(b, "WEATHER RECOMMENDATIONS")
	line(b, rule40)
	if in.SearchSucceeded && !in.Insights.Empty() {
		conditions := detectConditions(in.Insights.KeyFindings)
		line(b, "EVENT PLANNING RECOMMENDATIONS:")
		if conditions["rain"] {
			line(b, "- RAIN EXPECTED - Secure covered areas and have indoor backups ready")
			line(b, "- Provide waterproof cover for equipment and seating")
		}
		if conditions["wind"] {
			line(b, "- WINDY CONDITIONS - Secure decorations, signage and loose items")
			line(b, "- Use weighted fixtures for outdoor setups")
		}
		if conditions["snow"] {
			line(b, "- SNOW POSSIBLE - Ensure heated indoor alternatives")
			line(b, "- Plan for transportation and parking disruptions")
		}
		if conditions["storm"] {
			line(b, "- SEVERE WEATHER ALERT - Consider postponement")
			line(b, "- Monitor weather alerts closely")
		}
		if len(conditions) == 0 {
			line(b, "- FAVORABLE CONDITIONS expected for outdoor activities")
			line(b, "- Standard outdoor preparations should suffice")
		}
		line(b, "")
		line(b, "GENERAL RECOMMENDATIONS:")
		line(b, "- Check weather updates 24-48 hours before your event")
		line(b, "- Have backup plans regardless of forecast")
		line(b, "- Consider comfort for temperature changes")
		return
	}
	line(b, "Based on your weather inquiry, here are my recommendations:")
	line(b, "- Check local weather services for real-time updates")
	line(b, "- Consider weather conditions when planning outdoor activities")
	line(b, "- Monitor weather alerts and warnings in your area")
}

// detectConditions scans extracted findings for actionable condition words.
func detectConditions(findings []string) map[string]bool {
	conditions := make(map[string]bool)
	for _, f := range findings {
		lower := strings.ToLower(f)
		for _, c := range []string{"rain", "wind", "snow", "storm"} {
			if strings.Contains(lower, c) {
				conditions[c] = true
			}
		}
		if strings.Contains(lower, "precipitation") {
			conditions["rain"] = true
		}
	}
	return conditions
}

func weatherClosing(b *strings.Builder, _ Input) {
	line(b, "ADDITIONAL RESOURCES")
	line(b, rule40)
	line(b, "For more detailed weather information:")
	line(b, "- National Weather Service")
	line(b, "- Local meteorological departments")
	line(b, "- Weather forecasting websites and apps")
	line(b, "")
	line(b, "Stay weather-aware and plan accordingly!")
}

// --- financial ---

func financialSummary(b *strings.Builder, in Input) {
	line(b, "FINANCIAL ANALYSIS SUMMARY")
	line(b, rule40)
	if in.SearchSucceeded && !in.Insights.Empty() {
		line(b, fmt.Sprintf("Based on comprehensive analysis of %s:", in.Intent.Query))
		bullets(b, "MARKET DATA & ANALYSIS:", in.Insights.SpecificData)
		bullets(b, "MARKET TRENDS & INSIGHTS:", in.Insights.KeyFindings)
		bullets(b, "PROFESSIONAL INSIGHTS:", in.Insights.Recommendations)
		return
	}
	if in.SearchSucceeded {
		line(b, "Market information found in research:")
		for _, r := range topResults(in.Results, 2) {
			line(b, fmt.Sprintf("- %s: %s", r.Title, r.Snippet))
		}
		return
	}
	line(b, "I have analyzed your financial inquiry using available market knowledge.")
	line(b, "As a Financial Advisor, I provide investment insights, market analysis,")
	line(b, "and financial recommendations based on current data.")
}

func financialRecommendations(b *strings.Builder, in Input) {
	line(b, "FINANCIAL RECOMMENDATIONS")
	line(b, rule40)
	line(b, "Based on your financial inquiry, here are my professional recommendations:")
	line(b, "- Diversify your investment portfolio across different asset classes")
	line(b, "- Consider your risk tolerance and investment timeline")
	line(b, "- Stay informed about market trends and economic indicators")
	line(b, "- Consult with a qualified financial advisor for personalized advice")
	for _, rec := range in.Insights.Recommendations {
		line(b, "- "+rec)
	}
	line(b, "")
	line(b, "Important Disclaimer:")
	line(b, "This analysis is for informational purposes only and should not be")
	line(b, "considered as personalized financial advice. Please consult with")
	line(b, "a qualified financial professional before making investment decisions.")
}

func financialClosing(b *strings.Builder, _ Input) {
	line(b, "NEXT STEPS")
	line(b, rule40)
	line(b, "Consider these next steps:")
	line(b, "- Review your current financial portfolio")
	line(b, "- Consult with a certified financial planner")
	line(b, "- Stay updated on market developments")
	line(b, "")
	line(b, "Remember: Past performance does not guarantee future results.")
}

// --- academic ---

func academicSummary(b *strings.Builder, in Input) {
	line(b, "ACADEMIC RESEARCH SUMMARY")
	line(b, rule40)
	if in.SearchSucceeded && !in.Insights.Empty() {
		line(b, "Comprehensive literature review on: "+in.Intent.Query)
		if sources := academicSources(in.Results); len(sources) > 0 {
			line(b, "")
			line(b, fmt.Sprintf("ACADEMIC SOURCES REVIEWED (%d sources):", len(sources)))
			for i, s := range sources {
				line(b, fmt.Sprintf("%d. %s", i+1, s.Title))
				line(b, "   Summary: "+s.Snippet)
			}
		}
		bullets(b, "METHODOLOGY & STUDY DESIGN:", in.Insights.SpecificData)
		bullets(b, "KEY RESEARCH FINDINGS:", in.Insights.KeyFindings)
		bullets(b, "RESEARCH IMPLICATIONS & FUTURE DIRECTIONS:", in.Insights.Recommendations)
		return
	}
	line(b, "I have conducted an academic literature review using available resources.")
	line(b, "As an Academic Researcher, I provide scholarly analysis,")
	line(b, "citations, and evidence-based conclusions.")
}

// academicSources filters results that look like scholarly material.
func academicSources(results []models.SearchResult) []models.SearchResult {
	var out []models.SearchResult
	for _, r := range results {
		haystack := strings.ToLower(r.Title + " " + r.URL)
		for _, term := range []string{"study", "research", "journal", "pubmed", "scholar", "academic", "doi"} {
			if strings.Contains(haystack, term) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func academicRecommendations(b *strings.Builder, in Input) {
	line(b, "ACADEMIC CONCLUSIONS")
	line(b, rule40)
	line(b, "Based on the academic literature review:")
	line(b, "- Further research is needed to fully understand the implications")
	line(b, "- Current studies provide valuable insights but have limitations")
	line(b, "- Interdisciplinary approaches may yield better results")
	for _, rec := range in.Insights.Recommendations {
		line(b, "- "+rec)
	}
	line(b, "")
	line(b, "Recommendations for Future Research:")
	line(b, "- Longitudinal studies to track changes over time")
	line(b, "- Larger sample sizes for statistical significance")
	line(b, "- Cross-cultural validation of findings")
}

func academicClosing(b *strings.Builder, _ Input) {
	line(b, "RESEARCH LIMITATIONS")
	line(b, rule40)
	line(b, "This literature review has the following limitations:")
	line(b, "- Limited to available online sources")
	line(b, "- May not include the most recent publications")
	line(b, "- Requires peer review for validation")
	line(b, "")
	line(b, "For comprehensive research, consider consulting")
	line(b, "academic databases and peer-reviewed journals.")
}

// --- customer ---

func customerSummary(b *strings.Builder, _ Input) {
	line(b, "RESOLUTION SUMMARY")
	line(b, rule40)
	line(b, "I have analyzed your request and prepared a professional response.")
	line(b, "As a Customer Service representative, I focus on providing helpful solutions")
	line(b, "and ensuring customer satisfaction through clear communication.")
}

func customerResponse(b *strings.Builder, in Input) {
	line(b, "CUSTOMER SERVICE RESPONSE")
	line(b, rule40)
	line(b, "Dear Valued Customer,")
	line(b, "")
	line(b, "Thank you for contacting us. I understand your concern and I'm here to help.")
	line(b, "")
	line(b, "Based on your request, I recommend the following actions:")
	line(b, "- I will escalate your issue to the appropriate department")
	line(b, "- You should receive a follow-up within 24-48 hours")
	line(b, "- Please keep your reference number for future correspondence")
	for _, rec := range in.Insights.Recommendations {
		line(b, "- "+rec)
	}
	line(b, "")
	line(b, "We appreciate your patience and value your business.")
}

func customerClosing(b *strings.Builder, _ Input) {
	line(b, "CONTACT INFORMATION")
	line(b, rule40)
	line(b, "If you need further assistance, please contact us:")
	line(b, "- Customer Service Department")
	line(b, "- Available 24/7 for your support needs")
	line(b, "- Reference this report for faster resolution")
	line(b, "")
	line(b, "Best regards,")
	line(b, "Customer Service Team")
}

// --- general ---

func generalSummary(b *strings.Builder, in Input) {
	line(b, "EXECUTIVE SUMMARY")
	line(b, rule40)
	if in.SearchSucceeded && len(in.Pages) > 0 {
		line(b, fmt.Sprintf("Based on analysis of %d sources gathered for '%s',", len(in.Pages), in.Intent.Query))
		line(b, "the detailed findings below summarize the most relevant material.")
		return
	}
	line(b, "I have processed your request to the best of my abilities.")
	line(b, "While comprehensive web research was not performed, I can provide")
	line(b, "general guidance and assistance based on available knowledge.")
}

func generalConclusions(b *strings.Builder, in Input) {
	line(b, "SYNTHESIS AND CONCLUSIONS")
	line(b, rule40)
	if in.SearchSucceeded && len(in.Pages) > 0 {
		line(b, "Key Conclusions:")
		line(b, "- The sources above represent the most relevant material found")
		line(b, "- Findings should be validated against primary sources where possible")
		line(b, "- Additional targeted research can deepen any section on request")
		return
	}
	line(b, "I have processed your request to the best of my abilities.")
	line(b, "While comprehensive analysis was not performed, I can provide")
	line(b, "general guidance and assistance based on available knowledge.")
}

func topResults(results []models.SearchResult, n int) []models.SearchResult {
	if len(results) <= n {
		return results
	}
	return results[:n]
}
