package scan

import (
	"context"
	"fmt"

	"github.com/araki-m/hondana/internal/model"
)

// State is the single active phase of a scan session. Transitions replace
// the value wholesale; there is no partial mutation.
type State interface {
	scanState()
}

type Scanning struct{}

type Loading struct {
	ISBN string
}

type Preview struct {
	ISBN string
	Data model.BookMetadata
}

type NotFound struct {
	ISBN string
}

type Duplicate struct {
	ISBN       string
	ExistingID int
}

type Failed struct {
	ISBN    string
	Message string
}

func (Scanning) scanState()  {}
func (Loading) scanState()   {}
func (Preview) scanState()   {}
func (NotFound) scanState()  {}
func (Duplicate) scanState() {}
func (Failed) scanState()    {}

type BookRepo interface {
	FindByISBN(isbn string) (*model.Book, error)
	Insert(book model.Book) (model.Book, error)
}

type MetadataClient interface {
	FetchByISBN(ctx context.Context, isbn string) (*model.BookMetadata, error)
}

// Workflow drives one scan session: decode → duplicate-check → lookup →
// confirmation → registration. The busy flag rejects further decodes while
// a lookup is outstanding; the generation counter lets a lookup that
// resolves after a reset be discarded instead of clobbering fresh state.
type Workflow struct {
	books  BookRepo
	client MetadataClient
	state  State
	busy   bool
	gen    int
}

func NewWorkflow(books BookRepo, client MetadataClient) *Workflow {
	return &Workflow{
		books:  books,
		client: client,
		state:  Scanning{},
	}
}

func (w *Workflow) State() State {
	return w.state
}

func (w *Workflow) Busy() bool {
	return w.busy
}

// Decode feeds one raw decoded text into the session. Invalid text is
// ignored and capture continues. A valid ISBN arms the guard and moves the
// session to loading; the returned generation must be handed back to Apply.
func (w *Workflow) Decode(raw string) (string, int, bool) {
	if w.busy {
		return "", 0, false
	}
	if _, ok := w.state.(Scanning); !ok {
		return "", 0, false
	}
	if !IsValidISBN(raw) {
		return "", 0, false
	}

	isbn := NormalizeISBN(raw)
	w.state = Loading{ISBN: isbn}
	w.busy = true
	return isbn, w.gen, true
}

// Resolve runs the duplicate-check and, only when it finds nothing, the
// remote lookup. It does not touch the session; the caller installs the
// result through Apply so that a stale resolution can be dropped.
func (w *Workflow) Resolve(ctx context.Context, isbn string) State {
	existing, err := w.books.FindByISBN(isbn)
	if err != nil {
		return Failed{ISBN: isbn, Message: "書籍情報の取得に失敗しました。"}
	}
	if existing != nil {
		return Duplicate{ISBN: isbn, ExistingID: existing.ID}
	}

	data, err := w.client.FetchByISBN(ctx, isbn)
	if err != nil {
		return Failed{ISBN: isbn, Message: "書籍情報の取得に失敗しました。"}
	}
	if data == nil || data.Title == "" {
		return NotFound{ISBN: isbn}
	}

	return Preview{ISBN: isbn, Data: *data}
}

// Apply installs a resolved state. It reports false, and changes nothing,
// when the session was reset or torn down while the lookup was in flight.
func (w *Workflow) Apply(gen int, state State) bool {
	if gen != w.gen || !w.busy {
		return false
	}
	w.state = state
	w.busy = false
	return true
}

// Handle is the synchronous decode → resolve → apply path, for callers that
// do not run an event loop. ok is false when the text was rejected.
func (w *Workflow) Handle(ctx context.Context, raw string) (State, bool) {
	isbn, gen, ok := w.Decode(raw)
	if !ok {
		return w.state, false
	}
	w.Apply(gen, w.Resolve(ctx, isbn))
	return w.state, true
}

// Register persists the previewed book. Only valid from the preview state;
// the workflow session ends on success and the caller navigates to the new
// record.
func (w *Workflow) Register() (model.Book, error) {
	preview, ok := w.state.(Preview)
	if !ok {
		return model.Book{}, fmt.Errorf("❌ Nothing to register in this state")
	}

	book := model.Book{
		ISBN:          preview.ISBN,
		Title:         preview.Data.Title,
		Authors:       preview.Data.Authors,
		Publisher:     preview.Data.Publisher,
		PublishedDate: preview.Data.PublishedDate,
		Description:   preview.Data.Description,
		Thumbnail:     preview.Data.Thumbnail,
		PageCount:     preview.Data.PageCount,
		Memo:          "",
	}

	created, err := w.books.Insert(book)
	if err != nil {
		return model.Book{}, fmt.Errorf("❌ Failed to register book: %w", err)
	}
	return created, nil
}

// Reset returns the session to scanning with the guard cleared. Safe to
// call from any state, any number of times.
func (w *Workflow) Reset() {
	w.busy = false
	w.gen++
	w.state = Scanning{}
}
