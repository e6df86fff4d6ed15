package models

type ListBooksParams struct {
	Page    int    `query:"page"`
	PerPage int    `query:"perPage"`
	BaseURL string // not from query, set in handler
}

type BookParams struct {
	Id uint `path:"id"`
}

// BookInput is the write shape for create and update.
type BookInput struct {
	Title           string  `json:"title" binding:"required"`
	Author          string  `json:"author" binding:"required"`
	Isbn            *string `json:"isbn,omitempty"`
	Description     string  `json:"description,omitempty"`
	PublicationDate *string `json:"publicationDate,omitempty"`
}

type UpdateBookInput struct {
	Id uint `path:"id" json:"-"`
	BookInput
}

// QRCodeImageParams feed the codec and resize operations when serving
// a stored artifact at a different size or format.
type QRCodeImageParams struct {
	Id      uint   `path:"id"`
	Format  string `query:"format"`
	Size    int    `query:"size"`
	Quality int    `query:"quality"`
}

// RegenerateInput is the RenderSpec accepted by the regenerate endpoint.
type RegenerateInput struct {
	Id         uint     `path:"id" json:"-"`
	Level      string   `json:"level,omitempty"`
	FillColor  string   `json:"fillColor,omitempty"`
	BackColor  string   `json:"backColor,omitempty"`
	Width      int      `json:"width,omitempty"`
	Height     int      `json:"height,omitempty"`
	Format     string   `json:"format,omitempty"`
	Quality    int      `json:"quality,omitempty"`
	LogoPath   string   `json:"logoPath,omitempty"`
	LogoRatio  float64  `json:"logoRatio,omitempty"`
	AddBorder  bool     `json:"addBorder,omitempty"`
	BorderSize int      `json:"borderSize,omitempty"`
	Filters    []string `json:"filters,omitempty"`
	Brightness float64  `json:"brightness,omitempty"`
	Contrast   float64  `json:"contrast,omitempty"`
}

type ScanInput struct {
	QrData string `json:"qrData" binding:"required"`
}

type ValidateParams struct {
	Id uint `path:"id"`
}

type SearchParams struct {
	Query      string `query:"query" validate:"required"`
	MaxResults int    `query:"maxResults"`
}

// ImportInput selects an external record either directly by id or as the
// n-th result of a search query.
type ImportInput struct {
	ExternalId string `json:"externalId,omitempty"`
	Query      string `json:"query,omitempty"`
	Index      int    `json:"index,omitempty"`
}

type Pagination struct {
	Next           *int `json:"next,omitempty"`
	Previous       *int `json:"previous,omitempty"`
	CurrentPage    int  `json:"currentPage"`
	RecordsPerPage int  `json:"recordsPerPage"`
	TotalPages     int  `json:"totalPages"`
	TotalRecords   int  `json:"totalRecords"`
}
