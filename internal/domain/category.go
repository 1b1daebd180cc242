package domain

type Category struct {
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	ParentSlug   string `json:"parentSlug,omitempty"`
	Image        string `json:"image,omitempty"`
	AuctionCount int    `json:"auctionCount"`
}

// FieldSchema labels one raw specification key for a category.
type FieldSchema struct {
	Name  string `json:"name"`
	Group string `json:"group"`
	Label string `json:"label"`
	Unit  string `json:"unit,omitempty"`
	Type  string `json:"type"`
}
