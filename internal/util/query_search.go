package util

import (
	"sort"
	"strings"

	"github.com/araki-m/hondana/internal/model"
)

// FilterBooks narrows the shelf by a free-text query over title, authors
// and ISBN. An empty query returns everything.
func FilterBooks(books []model.Book, query string) []model.Book {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return books
	}

	var filteredBooks []model.Book
	for _, book := range books {
		// タイトル・著者・ISBN のいずれかに `query` が含まれているかチェック
		if strings.Contains(strings.ToLower(book.Title), query) ||
			strings.Contains(strings.ToLower(book.Authors), query) ||
			strings.Contains(book.ISBN, query) {
			filteredBooks = append(filteredBooks, book)
		}
	}

	return filteredBooks
}

// SortNewestFirst orders the shelf for display, most recently added on top.
// CreatedAt sorts lexicographically; IDs break ties within the same second.
func SortNewestFirst(books []model.Book) {
	sort.Slice(books, func(i, j int) bool {
		if books[i].CreatedAt != books[j].CreatedAt {
			return books[i].CreatedAt > books[j].CreatedAt
		}
		return books[i].ID > books[j].ID
	})
}
