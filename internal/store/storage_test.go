package store

import (
	"testing"

	"github.com/araki-m/hondana/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookFrontMatterRoundTrip(t *testing.T) {
	book := model.Book{
		ID:            3,
		ISBN:          "9784000000000",
		Title:         "坊っちゃん",
		Authors:       "夏目漱石",
		Publisher:     "岩波書店",
		PublishedDate: "1906-01-01",
		PageCount:     250,
		Memo:          "## 感想\n\nまた読みたい。",
		CreatedAt:     "2025-01-01 10:00:00",
		UpdatedAt:     "2025-01-02 11:00:00",
	}

	content, err := RenderBookFrontMatter(book)
	require.NoError(t, err)

	frontMatter, body, err := ParseBookFrontMatter(content)
	require.NoError(t, err)

	assert.Equal(t, book.ID, frontMatter.ID)
	assert.Equal(t, book.ISBN, frontMatter.ISBN)
	assert.Equal(t, book.Title, frontMatter.Title)
	assert.Equal(t, book.PageCount, frontMatter.PageCount)
	assert.Equal(t, "## 感想\n\nまた読みたい。", body)
}

func TestParseBookFrontMatter_RejectsMissingHeader(t *testing.T) {
	_, _, err := ParseBookFrontMatter("just a memo, no header")
	assert.Error(t, err)

	_, _, err = ParseBookFrontMatter("---\nunterminated")
	assert.Error(t, err)
}
