package models

// SearchResult is a single entry returned by the search collaborator.
// Order within a result list reflects the collaborator's relevance ranking
// and is preserved through the whole pipeline.
type SearchResult struct {
	Title          string `json:"title"`
	URL            string `json:"url"`
	Snippet        string `json:"snippet"`
	ContentPreview string `json:"content_preview,omitempty"`
}

// SearchOutcome is the full response of one search collaborator call.
// A failed call is data, not an error: the pipeline continues with
// Succeeded=false and an empty result list.
type SearchOutcome struct {
	Succeeded bool           `json:"succeeded"`
	Results   []SearchResult `json:"results"`
	Error     string         `json:"error,omitempty"`
}

// FetchedPage is the outcome of fetching one search result URL.
type FetchedPage struct {
	SourceURL   string `json:"source_url"`
	Succeeded   bool   `json:"succeeded"`
	Content     string `json:"content,omitempty"`
	Author      string `json:"author,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	Error       string `json:"error,omitempty"`
}

// DeliveryOutcome is the response of one delivery collaborator call.
type DeliveryOutcome struct {
	Succeeded bool   `json:"succeeded"`
	To        string `json:"to"`
	Error     string `json:"error,omitempty"`
}

// DispatchOutcome records whether and how the rendered report was sent.
// Attempted stays false when no destination address was detected, which is
// distinct from an attempted-but-failed dispatch.
type DispatchOutcome struct {
	Attempted   bool   `json:"attempted"`
	Succeeded   bool   `json:"succeeded"`
	Destination string `json:"destination,omitempty"`
	Error       string `json:"error,omitempty"`
}
