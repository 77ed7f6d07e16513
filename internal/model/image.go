package model

type ImageFile struct {
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	UpdatedAt string `json:"updatedAt"`
	URL       string `json:"url"`
}

type ImageCategorySummary struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Count       int    `json:"count"`
	PublicPath  string `json:"publicPath"`
}

type ImageCategoryInfo struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	PrimaryPath string `json:"primaryPath"`
}

// ImageListing is one category with its files.
type ImageListing struct {
	Category ImageCategoryInfo `json:"category"`
	Files    []ImageFile       `json:"files"`
}
