package models

// ExternalBook is a normalized record from the bibliographic collaborator.
// PublishedDate stays a raw string (YYYY, YYYY-MM or YYYY-MM-DD); parsing
// happens in the import merge step.
type ExternalBook struct {
	ExternalId    string   `json:"externalId"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	Description   string   `json:"description,omitempty"`
	PageCount     int      `json:"pageCount,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Language      string   `json:"language,omitempty"`
	Isbn10        string   `json:"isbn10,omitempty"`
	Isbn13        string   `json:"isbn13,omitempty"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
}

// SearchResult wraps a proxied bibliographic search response.
type SearchResult struct {
	Query        string         `json:"query"`
	TotalResults int            `json:"totalResults"`
	Count        int            `json:"count"`
	Books        []ExternalBook `json:"books"`
}

// ImportResult reports whether the import created a new book or merged
// into an existing one.
type ImportResult struct {
	Book    *Book `json:"book"`
	Created bool  `json:"created"`
}

// ValidationResult is the tri-state outcome of decoding a stored artifact
// back and comparing it with the expected payload.
type ValidationResult struct {
	// Status is "valid", "invalid" or "unknown". "unknown" means the
	// decoder capability is unavailable, not that the code is wrong.
	Status  string `json:"status"`
	Payload string `json:"payload,omitempty"`
	Decoded string `json:"decoded,omitempty"`
	Detail  string `json:"detail,omitempty"`
}
