package entity

// ImportedArticle is the readable text extracted from a web page, used as
// source content for generation.
type ImportedArticle struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Byline      string   `json:"byline,omitempty"`
	SiteName    string   `json:"siteName,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Text        string   `json:"text"`
}
