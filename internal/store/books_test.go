package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/araki-m/hondana/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBooks(t *testing.T) *Books {
	t.Helper()
	config := model.Config{DataDir: t.TempDir()}
	return NewBooks(config)
}

func TestBooks_InsertAssignsIDAndTimestamps(t *testing.T) {
	books := newTestBooks(t)

	first, err := books.Insert(model.Book{ISBN: "9784000000000", Title: "最初の本"})
	require.NoError(t, err)
	second, err := books.Insert(model.Book{ISBN: "9784000000001", Title: "次の本"})
	require.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.NotEmpty(t, first.CreatedAt)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	// ファイルにも書かれていること
	_, err = os.Stat(filepath.Join(books.config.DataDir, "books.json"))
	assert.NoError(t, err)
}

func TestBooks_GetAndFindByISBN(t *testing.T) {
	books := newTestBooks(t)
	created, err := books.Insert(model.Book{ISBN: "9784000000000", Title: "ある本"})
	require.NoError(t, err)

	got, err := books.Get(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ある本", got.Title)

	missing, err := books.Get(999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	byISBN, err := books.FindByISBN("9784000000000")
	require.NoError(t, err)
	require.NotNil(t, byISBN)
	assert.Equal(t, created.ID, byISBN.ID)

	none, err := books.FindByISBN("9790000000000")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestBooks_FindByISBNReturnsFirstMatch(t *testing.T) {
	// ISBN はストア側では一意制約なし
	books := newTestBooks(t)
	first, err := books.Insert(model.Book{ISBN: "9784000000000", Title: "一冊目"})
	require.NoError(t, err)
	_, err = books.Insert(model.Book{ISBN: "9784000000000", Title: "二冊目"})
	require.NoError(t, err)

	got, err := books.FindByISBN("9784000000000")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
}

func TestBooks_UpdatePreservesCreatedAt(t *testing.T) {
	books := newTestBooks(t)
	created, err := books.Insert(model.Book{ISBN: "9784000000000", Title: "旧題"})
	require.NoError(t, err)

	created.Title = "新題"
	created.CreatedAt = "2000-01-01 00:00:00" // 改竄は無視される
	require.NoError(t, books.Update(created))

	got, err := books.Get(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "新題", got.Title)
	assert.NotEqual(t, "2000-01-01 00:00:00", got.CreatedAt)
	assert.NotEmpty(t, got.UpdatedAt)
}

func TestBooks_UpdateMissingIDFails(t *testing.T) {
	books := newTestBooks(t)
	err := books.Update(model.Book{ID: 42, Title: "どこにもない"})
	assert.Error(t, err)
}

func TestBooks_Delete(t *testing.T) {
	books := newTestBooks(t)
	created, err := books.Insert(model.Book{ISBN: "9784000000000", Title: "消える本"})
	require.NoError(t, err)

	require.NoError(t, books.Delete(created.ID))

	got, err := books.Get(created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Error(t, books.Delete(created.ID))
}

func TestGetNextBookID_SkipsGaps(t *testing.T) {
	assert.Equal(t, 1, GetNextBookID(nil))
	assert.Equal(t, 6, GetNextBookID([]model.Book{{ID: 1}, {ID: 5}}))
}

func TestBooks_WatchSignalsOnEveryMutation(t *testing.T) {
	books := newTestBooks(t)
	sub := books.Watch()
	defer sub.Close()

	created, err := books.Insert(model.Book{ISBN: "9784000000000", Title: "監視対象"})
	require.NoError(t, err)
	assertSignal(t, sub)

	created.Memo = "読了"
	require.NoError(t, books.Update(created))
	assertSignal(t, sub)

	require.NoError(t, books.Delete(created.ID))
	assertSignal(t, sub)
}

func TestBooks_PollChangesSeesOtherHandlesMutations(t *testing.T) {
	// 別々のシェルを想定して、同じデータディレクトリに2つのハンドル
	config := model.Config{DataDir: t.TempDir()}
	watcher := NewBooks(config)
	writer := NewBooks(config)

	stop, err := watcher.PollChanges(10 * time.Millisecond)
	require.NoError(t, err)
	defer stop()

	sub := watcher.Watch()
	defer sub.Close()

	_, err = writer.Insert(model.Book{ISBN: "9784000000000", Title: "別プロセスからの本"})
	require.NoError(t, err)
	assertSignal(t, sub)

	// stop は二重に呼んでも安全
	stop()
	stop()
}

func TestBooks_PollChangesCreatesDataDir(t *testing.T) {
	books := NewBooks(model.Config{DataDir: filepath.Join(t.TempDir(), "no", "such", "dir")})

	// Load がディレクトリごと作るので失敗しないこと
	stop, err := books.PollChanges(10 * time.Millisecond)
	require.NoError(t, err)
	stop()
}

func TestSubscription_CloseStopsDelivery(t *testing.T) {
	books := newTestBooks(t)
	sub := books.Watch()
	sub.Close()
	sub.Close() // 二重クローズも安全

	_, err := books.Insert(model.Book{ISBN: "9784000000000", Title: "x"})
	require.NoError(t, err)

	_, open := <-sub.C
	assert.False(t, open)
}

func assertSignal(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case <-sub.C:
	case <-time.After(time.Second):
		t.Fatal("expected a change notification")
	}
}
