package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/araki-m/hondana/internal/model"
)

const timeLayout = "2006-01-02 15:04:05"

// Books owns `books.json` under the data directory. Every mutation rewrites
// the whole file and publishes a change event to watchers.
type Books struct {
	config model.Config
	broker *Broker
}

func NewBooks(config model.Config) *Books {
	return &Books{config: config, broker: NewBroker()}
}

func (b *Books) Load() ([]model.Book, string, error) {
	booksJsonPath := filepath.Join(b.config.DataDir, "books.json")

	// ディレクトリがない場合は作成
	if err := os.MkdirAll(b.config.DataDir, 0755); err != nil {
		return nil, "", fmt.Errorf("❌ Failed to create data directory: %w", err)
	}

	// books.json が存在しない場合、空の JSON 配列 `[]` で初期化
	if _, err := os.Stat(booksJsonPath); os.IsNotExist(err) {
		if err := os.WriteFile(booksJsonPath, []byte("[]"), 0644); err != nil {
			return nil, "", fmt.Errorf("❌ Failed to create books.json file: %w", err)
		}
	} else if err != nil {
		return nil, "", fmt.Errorf("❌ Failed to check books.json: %w", err)
	}

	var books []model.Book
	if err := LoadJson(booksJsonPath, &books); err != nil {
		return nil, "", fmt.Errorf("❌ Error loading books from JSON: %w", err)
	}

	return books, booksJsonPath, nil
}

func GetNextBookID(books []model.Book) int {
	maxID := 0
	for _, book := range books {
		if book.ID > maxID {
			maxID = book.ID
		}
	}
	return maxID + 1
}

// Insert assigns the next ID and both timestamps, then appends the record.
func (b *Books) Insert(book model.Book) (model.Book, error) {
	books, booksJsonPath, err := b.Load()
	if err != nil {
		return model.Book{}, fmt.Errorf("❌ Failed to load to JSON: %w", err)
	}

	book.ID = GetNextBookID(books)
	now := time.Now().Format(timeLayout)
	book.CreatedAt = now
	book.UpdatedAt = now

	books = append(books, book)

	if err := SaveUpdatedJson(books, booksJsonPath); err != nil {
		return model.Book{}, err
	}

	b.broker.Publish()
	return book, nil
}

func (b *Books) List() ([]model.Book, error) {
	books, _, err := b.Load()
	if err != nil {
		return nil, err
	}
	return books, nil
}

func (b *Books) Get(id int) (*model.Book, error) {
	books, _, err := b.Load()
	if err != nil {
		return nil, err
	}

	for i := range books {
		if books[i].ID == id {
			return &books[i], nil
		}
	}
	return nil, nil
}

// FindByISBN returns the first record with an exact ISBN match. ISBN is not
// enforced unique by the store, so "first" is all that is promised.
func (b *Books) FindByISBN(isbn string) (*model.Book, error) {
	books, _, err := b.Load()
	if err != nil {
		return nil, err
	}

	for i := range books {
		if books[i].ISBN == isbn {
			return &books[i], nil
		}
	}
	return nil, nil
}

// Update replaces the record with the same ID and refreshes UpdatedAt.
// CreatedAt is preserved from the stored record.
func (b *Books) Update(book model.Book) error {
	books, booksJsonPath, err := b.Load()
	if err != nil {
		return fmt.Errorf("❌ Failed to load to JSON: %w", err)
	}

	found := false
	for i := range books {
		if books[i].ID == book.ID {
			book.CreatedAt = books[i].CreatedAt
			book.UpdatedAt = time.Now().Format(timeLayout)
			books[i] = book
			found = true
			break
		}
	}

	if !found {
		return fmt.Errorf("❌ Book ID '%d' not found", book.ID)
	}

	if err := SaveUpdatedJson(books, booksJsonPath); err != nil {
		return err
	}

	b.broker.Publish()
	return nil
}

func (b *Books) Delete(id int) error {
	books, booksJsonPath, err := b.Load()
	if err != nil {
		return fmt.Errorf("❌ Failed to load to JSON: %w", err)
	}

	updatedBooks := []model.Book{}
	found := false
	for _, book := range books {
		if book.ID == id {
			found = true
			continue
		}
		updatedBooks = append(updatedBooks, book)
	}

	if !found {
		return fmt.Errorf("❌ Book ID '%d' not found", id)
	}

	if err := SaveUpdatedJson(updatedBooks, booksJsonPath); err != nil {
		return err
	}

	b.broker.Publish()
	return nil
}

// Watch subscribes to change events. Close the subscription on teardown.
func (b *Books) Watch() *Subscription {
	return b.broker.Subscribe()
}

// PollChanges bridges mutations made by other processes into the broker.
// In-process mutations publish directly; a rewrite of books.json from
// another shell only shows up as a new mtime, so poll for it. The returned
// stop function releases the poller and is safe to call more than once.
func (b *Books) PollChanges(interval time.Duration) (func(), error) {
	_, booksJsonPath, err := b.Load()
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(booksJsonPath)
	if err != nil {
		return nil, fmt.Errorf("❌ Failed to check books.json: %w", err)
	}
	lastMod := info.ModTime()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				info, err := os.Stat(booksJsonPath)
				if err != nil {
					continue
				}
				if !info.ModTime().Equal(lastMod) {
					lastMod = info.ModTime()
					b.broker.Publish()
				}
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }, nil
}
