package intent

// Domain is the inferred task category. The set is closed: insight analysis
// and report synthesis both switch on it exhaustively, so adding a domain
// means adding a classification rule, an analyzer rule set, and a report
// template together.
type Domain string

const (
	DomainWeather   Domain = "weather"
	DomainFinancial Domain = "financial"
	DomainAcademic  Domain = "academic"
	DomainCustomer  Domain = "customer"
	DomainGeneral   Domain = "general"
)

func (d Domain) String() string { return string(d) }

// DisplayName is the assistant persona a report is attributed to when the
// caller does not supply a source name.
func (d Domain) DisplayName() string {
	switch d {
	case DomainWeather:
		return "Weather Assistant"
	case DomainFinancial:
		return "Financial Advisor"
	case DomainAcademic:
		return "Academic Researcher"
	case DomainCustomer:
		return "Customer Service"
	default:
		return "Research Assistant"
	}
}
