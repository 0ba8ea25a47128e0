package model

// Article is a search candidate supplied by the content source. The enhancer
// only reads Title, Excerpt and Content; everything else passes through.
type Article struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	Excerpt        string                 `json:"excerpt"`
	Content        string                 `json:"content"`
	Slug           string                 `json:"slug,omitempty"`
	Category       string                 `json:"category,omitempty"`
	Author         string                 `json:"author,omitempty"`
	PublishedAt    int64                  `json:"published_at,omitempty"`
	Meta           map[string]interface{} `json:"meta,omitempty"`
	RelevanceScore *float64               `json:"ai_relevance_score,omitempty"`
	SearchEnhanced bool                   `json:"search_enhanced,omitempty"`
}

// Score returns the relevance score, or 0 for an article that was not enhanced.
func (a Article) Score() float64 {
	if a.RelevanceScore == nil {
		return 0
	}
	return *a.RelevanceScore
}
