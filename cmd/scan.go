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
	"strconv"
	"strings"

	"github.com/araki-m/hondana/internal/googlebooks"
	"github.com/araki-m/hondana/internal/model"
	"github.com/araki-m/hondana/internal/scan"
	"github.com/araki-m/hondana/internal/store"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var scanISBN string

type scanModel struct {
	wf        *scan.Workflow
	textInput textinput.Model
	decodes   chan string

	// results handed back to the command after the TUI exits
	registered *model.Book
	openID     int
	manualISBN string
	fatalErr   error
}

type decodeMsg string

type resolvedMsg struct {
	gen   int
	state scan.State
}

func newScanModel(wf *scan.Workflow, decodes chan string) *scanModel {
	ti := textinput.New()
	ti.Placeholder = "978..."
	ti.Focus()
	ti.CharLimit = 32

	return &scanModel{
		wf:        wf,
		textInput: ti,
		decodes:   decodes,
	}
}

// waitForDecode forwards one line from the reader device into the event
// loop. Re-armed after every delivery.
func waitForDecode(decodes chan string) tea.Cmd {
	return func() tea.Msg {
		text, ok := <-decodes
		if !ok {
			return nil
		}
		return decodeMsg(text)
	}
}

// resolveCmd runs the duplicate-check and lookup off the event loop. The
// result is installed through Apply, which drops it if the session has been
// reset in the meantime.
func resolveCmd(wf *scan.Workflow, isbn string, gen int) tea.Cmd {
	return func() tea.Msg {
		return resolvedMsg{gen: gen, state: wf.Resolve(context.Background(), isbn)}
	}
}

func (m scanModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.decodes != nil {
		cmds = append(cmds, waitForDecode(m.decodes))
	}
	return tea.Batch(cmds...)
}

func (m *scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case decodeMsg:
		isbn, gen, ok := m.wf.Decode(string(msg))
		m.textInput.Reset()

		var cmds []tea.Cmd
		if m.decodes != nil {
			cmds = append(cmds, waitForDecode(m.decodes))
		}
		if ok {
			cmds = append(cmds, resolveCmd(m.wf, isbn, gen))
		}
		return m, tea.Batch(cmds...)

	case resolvedMsg:
		m.wf.Apply(msg.gen, msg.state)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch st := m.wf.State().(type) {
		case scan.Scanning:
			switch msg.String() {
			case "esc":
				return m, tea.Quit
			case "enter":
				return m, func() tea.Msg { return decodeMsg(m.textInput.Value()) }
			default:
				m.textInput, _ = m.textInput.Update(msg)
			}

		case scan.Loading:
			// 取得中はキー入力を受け付けない

		case scan.Preview:
			switch msg.String() {
			case "enter":
				book, err := m.wf.Register()
				if err != nil {
					m.fatalErr = err
					return m, tea.Quit
				}
				m.registered = &book
				return m, tea.Quit
			case "r":
				m.wf.Reset()
			case "q", "esc":
				return m, tea.Quit
			}

		case scan.Duplicate:
			switch msg.String() {
			case "o":
				m.openID = st.ExistingID
				return m, tea.Quit
			case "r":
				m.wf.Reset()
			case "q", "esc":
				return m, tea.Quit
			}

		case scan.NotFound:
			switch msg.String() {
			case "m":
				m.manualISBN = st.ISBN
				return m, tea.Quit
			case "r":
				m.wf.Reset()
			case "q", "esc":
				return m, tea.Quit
			}

		case scan.Failed:
			switch msg.String() {
			case "m":
				m.manualISBN = st.ISBN
				return m, tea.Quit
			case "r":
				m.wf.Reset()
			case "q", "esc":
				return m, tea.Quit
			}
		}
	}

	return m, nil
}

func (m scanModel) View() string {
	var s strings.Builder
	s.WriteString("📷 バーコードスキャン\n\n")

	switch st := m.wf.State().(type) {
	case scan.Scanning:
		s.WriteString("Point the reader at the book barcode, or type the ISBN:\n\n")
		s.WriteString(m.textInput.View() + "\n\n")
		s.WriteString("Enter で確定, ESC で終了\n")

	case scan.Loading:
		s.WriteString(fmt.Sprintf("ISBN: %s\n", st.ISBN))
		s.WriteString("書籍情報を取得中...\n")

	case scan.Preview:
		s.WriteString(fmt.Sprintf("📖 %s\n", st.Data.Title))
		if st.Data.Authors != "" {
			s.WriteString(fmt.Sprintf("   %s\n", st.Data.Authors))
		}
		if st.Data.Publisher != "" {
			s.WriteString(fmt.Sprintf("   %s\n", st.Data.Publisher))
		}
		s.WriteString(fmt.Sprintf("   ISBN: %s\n\n", st.ISBN))
		s.WriteString("Enter で登録, R でやり直す, Q で終了\n")

	case scan.Duplicate:
		s.WriteString(fmt.Sprintf("⚠️  この本はすでに登録されています (ISBN: %s)\n\n", st.ISBN))
		s.WriteString("O で詳細を見る, R で続けてスキャン, Q で終了\n")

	case scan.NotFound:
		s.WriteString(fmt.Sprintf("ISBN: %s の書籍情報が見つかりませんでした。\n\n", st.ISBN))
		s.WriteString("M で手動登録, R でやり直す, Q で終了\n")

	case scan.Failed:
		s.WriteString(fmt.Sprintf("❌ %s\n", st.Message))
		s.WriteString(fmt.Sprintf("   ISBN: %s\n\n", st.ISBN))
		s.WriteString("M で手動登録, R でやり直す, Q で終了\n")
	}

	return s.String()
}

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Register books by scanning ISBN barcodes",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := store.LoadConfig()
		if err != nil {
			log.Fatalf("❌ Error loading config: %v", err)
		}

		books := store.NewBooks(*config)
		client := googlebooks.NewClient(*config)
		wf := scan.NewWorkflow(books, client)

		// --isbn: 1回だけの非対話モード
		if scanISBN != "" {
			runScanOnce(wf, books)
			return
		}

		var decodes chan string
		if config.Scanner.Device != "" {
			decodes = make(chan string, 16)
			capture := scan.NewCapture(config.Scanner.Device, func(text string) {
				select {
				case decodes <- text:
				default:
					// リーダーのノイズでループを詰まらせない
				}
			})
			if err := capture.Start(); err != nil {
				log.Fatalf("❌ %v", err)
			}
			defer capture.Stop()
		}

		finalModel, err := tea.NewProgram(newScanModel(wf, decodes)).Run()
		if err != nil {
			log.Fatalf("❌ Error running TUI: %v", err)
		}

		m, ok := finalModel.(*scanModel)
		if !ok {
			return
		}

		if m.fatalErr != nil {
			log.Fatalf("❌ %v", m.fatalErr)
		}

		switch {
		case m.registered != nil:
			log.Printf("✅ Registered: [%d] %s", m.registered.ID, m.registered.Title)
			printBookDetail(*m.registered)
		case m.openID != 0:
			book, err := books.Get(m.openID)
			if err != nil || book == nil {
				log.Fatalf("❌ Book ID '%d' not found", m.openID)
			}
			printBookDetail(*book)
		case m.manualISBN != "":
			registerManually(books, m.manualISBN)
		}
	},
}

func runScanOnce(wf *scan.Workflow, books *store.Books) {
	state, ok := wf.Handle(context.Background(), scanISBN)
	if !ok {
		log.Fatalf("❌ Not a valid ISBN-13: %s", scanISBN)
	}

	switch st := state.(type) {
	case scan.Duplicate:
		log.Printf("⚠️  Already on the shelf (ISBN: %s)", st.ISBN)
		book, err := books.Get(st.ExistingID)
		if err == nil && book != nil {
			printBookDetail(*book)
		}

	case scan.NotFound:
		log.Printf("⚠️  No catalog entry for ISBN %s.", st.ISBN)
		fmt.Printf("Register manually with: hondana book new --isbn %s --title ...\n", st.ISBN)

	case scan.Failed:
		log.Fatalf("❌ %s", st.Message)

	case scan.Preview:
		fmt.Printf("📖 %s\n", st.Data.Title)
		if st.Data.Authors != "" {
			fmt.Printf("   %s\n", st.Data.Authors)
		}
		fmt.Printf("   ISBN: %s\n", st.ISBN)

		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Register this book? (y/N): ")
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input != "y" && input != "Y" {
			fmt.Println("Canceled.")
			return
		}

		book, err := wf.Register()
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		log.Printf("✅ Registered: [%d] %s", book.ID, book.Title)
	}
}

// registerManually prompts for the fields the catalog could not provide,
// pre-filled with the scanned ISBN.
func registerManually(books *store.Books, isbn string) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("Manual registration for ISBN %s\n", isbn)

	fmt.Print("Title (required): ")
	title, _ := reader.ReadString('\n')
	title = strings.TrimSpace(title)
	if title == "" {
		log.Fatalf("❌ Title must not be empty")
	}

	fmt.Print("Authors: ")
	authors, _ := reader.ReadString('\n')

	fmt.Print("Publisher: ")
	publisher, _ := reader.ReadString('\n')

	fmt.Print("Published date: ")
	published, _ := reader.ReadString('\n')

	fmt.Print("Pages: ")
	pagesInput, _ := reader.ReadString('\n')
	pages, _ := strconv.Atoi(strings.TrimSpace(pagesInput))

	fmt.Print("Memo: ")
	memo, _ := reader.ReadString('\n')

	book := model.Book{
		ISBN:          isbn,
		Title:         title,
		Authors:       strings.TrimSpace(authors),
		Publisher:     strings.TrimSpace(publisher),
		PublishedDate: strings.TrimSpace(published),
		PageCount:     pages,
		Memo:          strings.TrimSpace(memo),
	}

	created, err := books.Insert(book)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	log.Printf("✅ Added new book: [%d] %s", created.ID, created.Title)
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVar(&scanISBN, "isbn", "", "Process a single ISBN without the interactive scanner")
}
