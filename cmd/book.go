/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/araki-m/hondana/internal/googlebooks"
	"github.com/araki-m/hondana/internal/model"
	"github.com/araki-m/hondana/internal/store"
	"github.com/araki-m/hondana/internal/util"
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/text"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var bookISBN, bookTitle, bookAuthors, bookPublisher, bookPublished string
var bookDescription, bookThumbnail, bookMemo string
var bookPageCount int
var bookFetch bool
var bookSearchQuery string
var bookPageSize int
var bookWatch bool
var newBookTitle, newBookAuthors, newBookPublisher, newBookPublished string
var newBookDescription, newBookThumbnail, newBookMemo, newBookISBN string
var newBookPageCount int
var bookUseEditor bool
var bookForceDelete bool

// bookCmd represents the book command
var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Manage the books on your shelf",
}

var bookNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Register a book manually (optionally pre-filled from the catalog)",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := store.LoadConfig()
		if err != nil {
			log.Fatalf("❌ Error loading config: %v", err)
		}

		book := model.Book{
			ISBN:          bookISBN,
			Title:         bookTitle,
			Authors:       bookAuthors,
			Publisher:     bookPublisher,
			PublishedDate: bookPublished,
			Description:   bookDescription,
			Thumbnail:     bookThumbnail,
			PageCount:     bookPageCount,
			Memo:          bookMemo,
		}

		// --fetch: 空いているフィールドだけカタログの情報で埋める
		if bookFetch {
			if bookISBN == "" {
				log.Fatalf("❌ --fetch requires --isbn")
			}
			client := googlebooks.NewClient(*config)
			data, err := client.FetchByISBN(context.Background(), bookISBN)
			if err != nil {
				log.Fatalf("❌ Failed to fetch book info: %v", err)
			}
			if data == nil {
				log.Printf("⚠️  No catalog entry for ISBN %s. Fill the fields manually.", bookISBN)
			} else {
				fillEmptyFields(&book, *data)
			}
		}

		if book.Title == "" {
			log.Fatalf("❌ You must specify a title with --title")
		}

		books := store.NewBooks(*config)
		created, err := books.Insert(book)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}

		log.Printf("✅ Added new book: [%d] %s", created.ID, created.Title)
	},
}

// fillEmptyFields leaves user-provided flag values alone.
func fillEmptyFields(book *model.Book, data model.BookMetadata) {
	if book.Title == "" {
		book.Title = data.Title
	}
	if book.Authors == "" {
		book.Authors = data.Authors
	}
	if book.Publisher == "" {
		book.Publisher = data.Publisher
	}
	if book.PublishedDate == "" {
		book.PublishedDate = data.PublishedDate
	}
	if book.Description == "" {
		book.Description = data.Description
	}
	if book.Thumbnail == "" {
		book.Thumbnail = data.Thumbnail
	}
	if book.PageCount == 0 {
		book.PageCount = data.PageCount
	}
}

var bookListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the books on your shelf",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		config, err := store.LoadConfig()
		if err != nil {
			log.Fatalf("❌ Error loading config: %v", err)
		}

		books := store.NewBooks(*config)

		if bookWatch {
			watchBookList(books)
			return
		}

		all, err := books.List()
		if err != nil {
			log.Fatalf("❌ Failed to load books.json: %v", err)
		}

		filtered := util.FilterBooks(all, bookSearchQuery)
		util.SortNewestFirst(filtered)

		// Handle case where no books match
		if len(filtered) == 0 {
			fmt.Println("No matching books found.")
			return
		}

		reader := bufio.NewReader(os.Stdin)
		page := 0

		fmt.Println(strings.Repeat("=", 30))
		fmt.Printf("Bookshelf: %v books shown\n", len(filtered))
		fmt.Println(strings.Repeat("=", 30))

		if bookPageSize == -1 {
			bookPageSize = len(filtered)
		}

		// ページネーションのループ
		for {
			start := page * bookPageSize
			end := start + bookPageSize

			// 範囲チェック
			if start >= len(filtered) {
				fmt.Println("No more books to display.")
				break
			}
			if end > len(filtered) {
				end = len(filtered)
			}

			renderBookTable(filtered[start:end])

			if end >= len(filtered) {
				break
			}

			fmt.Print("\nPress Enter for the next page (q to quit): ")
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(input)

			if input == "q" {
				break
			}

			page++
		}
	},
}

func renderBookTable(books []model.Book) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleDouble)
	t.Style().Options.SeparateRows = false

	t.AppendHeader(table.Row{
		text.FgGreen.Sprintf("ID"),
		text.FgGreen.Sprintf("ISBN"),
		text.FgGreen.Sprintf("%s", text.Bold.Sprintf("Title")),
		text.FgGreen.Sprintf("Authors"),
		text.FgGreen.Sprintf("Publisher"),
		text.FgGreen.Sprintf("Pages"),
		text.FgGreen.Sprintf("Added"),
	})

	for _, row := range books {
		t.AppendRow(table.Row{
			row.ID,
			row.ISBN,
			row.Title,
			row.Authors,
			row.Publisher,
			row.PageCount,
			row.CreatedAt,
		})
	}

	t.Render()
}

// watchBookList re-renders the table whenever the store changes, until the
// process is interrupted. The subscription is released on return.
func watchBookList(books *store.Books) {
	sub := books.Watch()
	defer sub.Close()

	// 他のシェルからの変更も拾う
	stop, err := books.PollChanges(time.Second)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer stop()

	render := func() {
		all, err := books.List()
		if err != nil {
			log.Printf("❌ Failed to load books.json: %v", err)
			return
		}
		filtered := util.FilterBooks(all, bookSearchQuery)
		util.SortNewestFirst(filtered)

		fmt.Print("\033[H\033[2J")
		fmt.Printf("Bookshelf: %v books (watching, Ctrl-C to quit)\n", len(filtered))
		renderBookTable(filtered)
	}

	render()
	for range sub.C {
		render()
	}
}

var bookShowCmd = &cobra.Command{
	Use:     "show [bookID]",
	Short:   "Show book detail",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"s"},
	Run: func(cmd *cobra.Command, args []string) {
		bookID, err := strconv.Atoi(args[0])
		if err != nil {
			log.Fatalf("❌ Invalid book ID: %s", args[0])
		}

		config, err := store.LoadConfig()
		if err != nil {
			log.Fatalf("❌ Error loading config: %v", err)
		}

		books := store.NewBooks(*config)
		book, err := books.Get(bookID)
		if err != nil {
			log.Fatalf("❌ Failed to load books.json: %v", err)
		}
		if book == nil {
			log.Fatalf("❌ Book ID '%d' not found", bookID)
		}

		printBookDetail(*book)
	},
}

func printBookDetail(book model.Book) {
	titleStyle := color.New(color.FgCyan, color.Bold).SprintFunc()

	fmt.Printf("📖 %s\n", titleStyle(book.Title))
	fmt.Println(strings.Repeat("─", len(book.Title)+3))
	fmt.Printf("ID:         %d\n", book.ID)
	if book.ISBN != "" {
		fmt.Printf("ISBN:       %s\n", book.ISBN)
	}
	if book.Authors != "" {
		fmt.Printf("Authors:    %s\n", book.Authors)
	}
	if book.Publisher != "" {
		fmt.Printf("Publisher:  %s\n", book.Publisher)
	}
	if book.PublishedDate != "" {
		fmt.Printf("Published:  %s\n", book.PublishedDate)
	}
	if book.PageCount > 0 {
		fmt.Printf("Pages:      %d\n", book.PageCount)
	}
	if book.Thumbnail != "" {
		fmt.Printf("Cover:      %s\n", book.Thumbnail)
	}
	fmt.Printf("Added:      %s\n", book.CreatedAt)
	fmt.Printf("Updated:    %s\n", book.UpdatedAt)

	if book.Description != "" {
		fmt.Println("\n📚 Description:")
		fmt.Println(book.Description)
	}

	if book.Memo != "" {
		fmt.Println("\n📝 Memo:")
		renderedMemo, err := glamour.Render(book.Memo, "dark")
		if err != nil {
			log.Printf("⚠️ Failed to render memo: %v", err)
			fmt.Println(book.Memo)
		} else {
			fmt.Println(renderedMemo)
		}
	}

	fmt.Println()
}

var bookEditCmd = &cobra.Command{
	Use:     "edit [bookID]",
	Short:   "Edit book detail",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"e"},
	Run: func(cmd *cobra.Command, args []string) {
		bookID, err := strconv.Atoi(args[0])
		if err != nil {
			log.Fatalf("❌ Invalid book ID: %s", args[0])
		}

		config, err := store.LoadConfig()
		if err != nil {
			log.Fatalf("❌ Error loading config: %v", err)
		}

		books := store.NewBooks(*config)
		book, err := books.Get(bookID)
		if err != nil {
			log.Fatalf("❌ Failed to load books.json: %v", err)
		}
		if book == nil {
			log.Fatalf("❌ Book ID '%d' not found", bookID)
		}

		if bookUseEditor {
			if err := editBookInEditor(books, *book, *config); err != nil {
				log.Fatalf("❌ %v", err)
			}
			log.Printf("✅ Book '%d' updated successfully!", bookID)
			return
		}

		// 指定されたオプションのみ更新
		if cmd.Flags().Changed("title") {
			book.Title = newBookTitle
		}
		if cmd.Flags().Changed("authors") {
			book.Authors = newBookAuthors
		}
		if cmd.Flags().Changed("publisher") {
			book.Publisher = newBookPublisher
		}
		if cmd.Flags().Changed("published") {
			book.PublishedDate = newBookPublished
		}
		if cmd.Flags().Changed("description") {
			book.Description = newBookDescription
		}
		if cmd.Flags().Changed("thumbnail") {
			book.Thumbnail = newBookThumbnail
		}
		if cmd.Flags().Changed("pages") {
			book.PageCount = newBookPageCount
		}
		if cmd.Flags().Changed("memo") {
			book.Memo = newBookMemo
		}
		if cmd.Flags().Changed("isbn") {
			book.ISBN = newBookISBN
		}

		if book.Title == "" {
			log.Fatalf("❌ Title must not be empty")
		}

		if err := books.Update(*book); err != nil {
			log.Fatalf("❌ Failed to update books.json: %v", err)
		}

		log.Printf("✅ Book '%d' updated successfully!", bookID)
	},
}

// editBookInEditor round-trips the record through $EDITOR as front-matter
// Markdown, with the memo as body.
func editBookInEditor(books *store.Books, book model.Book, config model.Config) error {
	content, err := store.RenderBookFrontMatter(book)
	if err != nil {
		return err
	}

	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("hondana-%d.md", book.ID))
	if err := os.WriteFile(tmpPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("❌ Failed to write temp file: %w", err)
	}
	defer os.Remove(tmpPath)

	if err := util.OpenEditor(tmpPath, config); err != nil {
		return err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return fmt.Errorf("❌ Failed to read edited file: %w", err)
	}

	frontMatter, body, err := store.ParseBookFrontMatter(string(edited))
	if err != nil {
		return err
	}

	if frontMatter.Title == "" {
		return fmt.Errorf("❌ Title must not be empty")
	}

	book.ISBN = frontMatter.ISBN
	book.Title = frontMatter.Title
	book.Authors = frontMatter.Authors
	book.Publisher = frontMatter.Publisher
	book.PublishedDate = frontMatter.PublishedDate
	book.Description = frontMatter.Description
	book.Thumbnail = frontMatter.Thumbnail
	book.PageCount = frontMatter.PageCount
	book.Memo = body

	return books.Update(book)
}

var bookDeleteCmd = &cobra.Command{
	Use:     "delete [bookID]",
	Short:   "Delete a book from the shelf",
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"rm"},
	Run: func(cmd *cobra.Command, args []string) {
		bookID, err := strconv.Atoi(args[0])
		if err != nil {
			log.Fatalf("❌ Invalid book ID: %s", args[0])
		}

		config, err := store.LoadConfig()
		if err != nil {
			log.Fatalf("❌ Error loading config: %v", err)
		}

		books := store.NewBooks(*config)
		book, err := books.Get(bookID)
		if err != nil {
			log.Fatalf("❌ Failed to load books.json: %v", err)
		}
		if book == nil {
			log.Fatalf("❌ Book ID '%d' not found", bookID)
		}

		if !bookForceDelete {
			reader := bufio.NewReader(os.Stdin)
			fmt.Printf("Delete 「%s」? This cannot be undone. (y/N): ", book.Title)
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(input)
			if input != "y" && input != "Y" {
				fmt.Println("Canceled.")
				return
			}
		}

		if err := books.Delete(bookID); err != nil {
			log.Fatalf("❌ %v", err)
		}

		log.Printf("✅ Book '%d' deleted", bookID)
	},
}

func init() {
	bookCmd.AddCommand(bookNewCmd)
	bookCmd.AddCommand(bookListCmd)
	bookCmd.AddCommand(bookShowCmd)
	bookCmd.AddCommand(bookEditCmd)
	bookCmd.AddCommand(bookDeleteCmd)
	rootCmd.AddCommand(bookCmd)

	bookNewCmd.Flags().StringVar(&bookISBN, "isbn", "", "ISBN-13 of the book")
	bookNewCmd.Flags().StringVar(&bookTitle, "title", "", "Title of the book")
	bookNewCmd.Flags().StringVar(&bookAuthors, "authors", "", "Authors (comma separated)")
	bookNewCmd.Flags().StringVar(&bookPublisher, "publisher", "", "Publisher")
	bookNewCmd.Flags().StringVar(&bookPublished, "published", "", "Published date (e.g. 2024-01-01)")
	bookNewCmd.Flags().StringVar(&bookDescription, "description", "", "Description")
	bookNewCmd.Flags().StringVar(&bookThumbnail, "thumbnail", "", "Cover image URL")
	bookNewCmd.Flags().IntVar(&bookPageCount, "pages", 0, "Page count")
	bookNewCmd.Flags().StringVar(&bookMemo, "memo", "", "Free-form memo")
	bookNewCmd.Flags().BoolVar(&bookFetch, "fetch", false, "Pre-fill empty fields from Google Books")

	bookListCmd.Flags().StringVarP(&bookSearchQuery, "query", "q", "", "Filter by title, authors or ISBN")
	bookListCmd.Flags().IntVar(&bookPageSize, "limit", 20, "Set the number of books to display per page (-1 for all)")
	bookListCmd.Flags().BoolVar(&bookWatch, "watch", false, "Keep the table on screen and re-render on changes")

	bookEditCmd.Flags().StringVar(&newBookTitle, "title", "", "New title")
	bookEditCmd.Flags().StringVar(&newBookAuthors, "authors", "", "New authors")
	bookEditCmd.Flags().StringVar(&newBookPublisher, "publisher", "", "New publisher")
	bookEditCmd.Flags().StringVar(&newBookPublished, "published", "", "New published date")
	bookEditCmd.Flags().StringVar(&newBookDescription, "description", "", "New description")
	bookEditCmd.Flags().StringVar(&newBookThumbnail, "thumbnail", "", "New cover image URL")
	bookEditCmd.Flags().IntVar(&newBookPageCount, "pages", 0, "New page count")
	bookEditCmd.Flags().StringVar(&newBookMemo, "memo", "", "New memo")
	bookEditCmd.Flags().StringVar(&newBookISBN, "isbn", "", "New ISBN")
	bookEditCmd.Flags().BoolVarP(&bookUseEditor, "editor", "e", false, "Edit the record in $EDITOR")

	bookDeleteCmd.Flags().BoolVarP(&bookForceDelete, "force", "f", false, "Delete without confirmation")
}
