package googlebooks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/araki-m/hondana/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(endpoint string) *Client {
	config := model.Config{}
	config.Lookup.Endpoint = endpoint
	config.Lookup.TimeoutSec = 2
	config.Lookup.RPS = 100
	config.Lookup.MaxRetries = 0
	return NewClient(config)
}

func TestFetchByISBN_MapsFirstVolume(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, "isbn:9784000000000", r.URL.Query().Get("q"))
		w.Write([]byte(`{
			"totalItems": 2,
			"items": [
				{"volumeInfo": {
					"title": "吾輩は猫である",
					"authors": ["夏目漱石", "訳者 太郎"],
					"publisher": "岩波書店",
					"publishedDate": "1905-01-01",
					"description": "名無しの猫が語る。",
					"pageCount": 400,
					"imageLinks": {"thumbnail": "https://example.com/cover.jpg"}
				}},
				{"volumeInfo": {"title": "second match is ignored"}}
			]
		}`))
	}))
	defer server.Close()

	data, err := testClient(server.URL).FetchByISBN(context.Background(), "9784000000000")

	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, "9784000000000", data.ISBN)
	assert.Equal(t, "吾輩は猫である", data.Title)
	assert.Equal(t, "夏目漱石, 訳者 太郎", data.Authors)
	assert.Equal(t, "岩波書店", data.Publisher)
	assert.Equal(t, "1905-01-01", data.PublishedDate)
	assert.Equal(t, 400, data.PageCount)
	assert.Equal(t, "https://example.com/cover.jpg", data.Thumbnail)
}

func TestFetchByISBN_DefaultsAbsentFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalItems": 1, "items": [{"volumeInfo": {"title": "題名だけ"}}]}`))
	}))
	defer server.Close()

	data, err := testClient(server.URL).FetchByISBN(context.Background(), "9784000000000")

	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, "題名だけ", data.Title)
	assert.Equal(t, "", data.Authors)
	assert.Equal(t, "", data.Publisher)
	assert.Equal(t, 0, data.PageCount)
	assert.Equal(t, "", data.Thumbnail)
}

func TestFetchByISBN_FallsBackToSmallThumbnail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalItems": 1, "items": [{"volumeInfo": {
			"title": "x", "imageLinks": {"smallThumbnail": "https://example.com/s.jpg"}
		}}]}`))
	}))
	defer server.Close()

	data, err := testClient(server.URL).FetchByISBN(context.Background(), "9784000000000")

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/s.jpg", data.Thumbnail)
}

func TestFetchByISBN_NoItemsMeansNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalItems": 0}`))
	}))
	defer server.Close()

	data, err := testClient(server.URL).FetchByISBN(context.Background(), "9784000000000")

	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFetchByISBN_NonOKMeansNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	data, err := testClient(server.URL).FetchByISBN(context.Background(), "9784000000000")

	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFetchByISBN_ServerErrorIsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	data, err := testClient(server.URL).FetchByISBN(context.Background(), "9784000000000")

	assert.Error(t, err)
	assert.Nil(t, data)
}

func TestFetchByISBN_UnreachableServerIsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	data, err := testClient(server.URL).FetchByISBN(context.Background(), "9784000000000")

	assert.Error(t, err)
	assert.Nil(t, data)
}

func TestFetchByISBN_MalformedBodyIsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalItems": `))
	}))
	defer server.Close()

	data, err := testClient(server.URL).FetchByISBN(context.Background(), "9784000000000")

	assert.Error(t, err)
	assert.Nil(t, data)
}
