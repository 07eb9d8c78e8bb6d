package models

// BrowsePage is one page of a filtered, sorted catalog listing.
type BrowsePage struct {
	Results    []Recipe `json:"results"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalPages int      `json:"totalPages"`
}
