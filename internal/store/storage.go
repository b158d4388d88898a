package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/araki-m/hondana/internal/model"
	"gopkg.in/yaml.v3"
)

func LoadJson[T any](filePath string, v *[]T) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		// ファイルが存在しない場合は空のスライスを返す
		*v = []T{}
		return nil
	} else if err != nil {
		return fmt.Errorf("❌ Failed to check JSON file: %w", err)
	}

	jsonBytes, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("❌ Failed to read JSON file: %w", err)
	}

	if len(jsonBytes) > 0 {
		err = json.Unmarshal(jsonBytes, v)
		if err != nil {
			return fmt.Errorf("❌ Failed to parse JSON: %w", err)
		}
	}

	return nil
}

func SaveUpdatedJson[T any](items []T, jsonPath string) error {
	updatedJson, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("❌ Failed to convert to JSON: %w", err)
	}

	err = os.WriteFile(jsonPath, updatedJson, 0644)
	if err != nil {
		return fmt.Errorf("❌ Failed to write JSON file: %w", err)
	}

	return nil
}

// ParseBookFrontMatter splits an edited book document into its YAML header
// and the memo body.
func ParseBookFrontMatter(content string) (model.BookFrontMatter, string, error) {
	if !strings.HasPrefix(content, "---") {
		return model.BookFrontMatter{}, content, fmt.Errorf("❌ Front matter not found")
	}

	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		return model.BookFrontMatter{}, content, fmt.Errorf("❌ Invalid front matter format")
	}

	frontMatterStr := strings.TrimSpace(parts[1])
	body := strings.TrimSpace(parts[2])

	// Parse YAML
	var frontMatter model.BookFrontMatter
	err := yaml.Unmarshal([]byte(frontMatterStr), &frontMatter)
	if err != nil {
		return model.BookFrontMatter{}, content, fmt.Errorf("❌ Failed to parse front matter: %w", err)
	}

	return frontMatter, body, nil
}

// RenderBookFrontMatter renders a book as front-matter Markdown, with the
// memo as body. Used for editor round-trips.
func RenderBookFrontMatter(book model.Book) (string, error) {
	frontMatter := model.BookFrontMatter{
		ID:            book.ID,
		ISBN:          book.ISBN,
		Title:         book.Title,
		Authors:       book.Authors,
		Publisher:     book.Publisher,
		PublishedDate: book.PublishedDate,
		Description:   book.Description,
		Thumbnail:     book.Thumbnail,
		PageCount:     book.PageCount,
		CreatedAt:     book.CreatedAt,
		UpdatedAt:     book.UpdatedAt,
	}

	frontMatterBytes, err := yaml.Marshal(&frontMatter)
	if err != nil {
		return "", fmt.Errorf("❌ Failed to convert front matter to YAML: %w", err)
	}

	// Preserve `---` and merge YAML with body
	return fmt.Sprintf("---\n%s---\n\n%s", string(frontMatterBytes), book.Memo), nil
}
