package linkdb

// Page represents a row in the pages table
type Page struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Norm  string `json:"norm"` // normalize.ID(Title)
}

// Redirect represents a row in the redirects table
type Redirect struct {
	FromNorm string `json:"from_norm"`
	ToTitle  string `json:"to_title"`
}

// Stats counts rows per table
type Stats struct {
	Pages     int `json:"pages"`
	Redirects int `json:"redirects"`
	Links     int `json:"links"`
}
