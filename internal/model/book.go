package model

type Book struct {
	ID            int    `json:"id"`
	ISBN          string `json:"isbn"`
	Title         string `json:"title"`
	Authors       string `json:"authors"` // カンマ区切り
	Publisher     string `json:"publisher"`
	PublishedDate string `json:"published_date"`
	Description   string `json:"description"`
	Thumbnail     string `json:"thumbnail"`
	PageCount     int    `json:"page_count"`
	Memo          string `json:"memo"`
	CreatedAt     string `json:"created_at"` // yyyy-mm-dd hh:mm:ss
	UpdatedAt     string `json:"updated_at"` // yyyy-mm-dd hh:mm:ss
}

// BookMetadata is the partial record returned by the catalog lookup,
// before the user has confirmed registration.
type BookMetadata struct {
	ISBN          string `json:"isbn"`
	Title         string `json:"title"`
	Authors       string `json:"authors"`
	Publisher     string `json:"publisher"`
	PublishedDate string `json:"published_date"`
	Description   string `json:"description"`
	Thumbnail     string `json:"thumbnail"`
	PageCount     int    `json:"page_count"`
}

type BookFrontMatter struct {
	ID            int    `yaml:"id"`
	ISBN          string `yaml:"isbn"`
	Title         string `yaml:"title"`
	Authors       string `yaml:"authors"`
	Publisher     string `yaml:"publisher"`
	PublishedDate string `yaml:"published_date"`
	Description   string `yaml:"description"`
	Thumbnail     string `yaml:"thumbnail"`
	PageCount     int    `yaml:"page_count"`
	CreatedAt     string `yaml:"created_at"`
	UpdatedAt     string `yaml:"updated_at"`
}
