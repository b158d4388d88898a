package scan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapture_DeliversRawLines(t *testing.T) {
	device := filepath.Join(t.TempDir(), "scanner")
	require.NoError(t, os.WriteFile(device, []byte("978-4-00-000000-0\nnoise line\n"), 0644))

	lines := make(chan string, 4)
	capture := NewCapture(device, func(text string) { lines <- text })
	require.NoError(t, capture.Start())
	defer capture.Stop()

	// 生のテキストがそのまま届くこと（フィルタはワークフロー側の仕事）
	assert.Equal(t, "978-4-00-000000-0", receiveLine(t, lines))
	assert.Equal(t, "noise line", receiveLine(t, lines))
}

func TestCapture_StartOnMissingDeviceFails(t *testing.T) {
	capture := NewCapture("/nonexistent/device", func(string) {})
	assert.Error(t, capture.Start())
}

func TestCapture_StopIsIdempotent(t *testing.T) {
	device := filepath.Join(t.TempDir(), "scanner")
	require.NoError(t, os.WriteFile(device, []byte(""), 0644))

	capture := NewCapture(device, func(string) {})
	require.NoError(t, capture.Start())

	capture.Stop()
	capture.Stop()
}

func receiveLine(t *testing.T, lines chan string) string {
	t.Helper()
	select {
	case line := <-lines:
		return line
	case <-time.After(time.Second):
		t.Fatal("expected a decoded line")
		return ""
	}
}
