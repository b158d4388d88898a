package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/araki-m/hondana/internal/model"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1"

type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
}

func NewClient(config model.Config) *Client {
	baseURL := config.Lookup.Endpoint
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := time.Duration(config.Lookup.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	rps := config.Lookup.RPS
	if rps <= 0 {
		rps = 1
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: config.Lookup.MaxRetries,
	}
}

// volumesResponse matches volumes?q=isbn:...
type volumesResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo struct {
			Title         string   `json:"title"`
			Authors       []string `json:"authors"`
			Publisher     string   `json:"publisher"`
			PublishedDate string   `json:"publishedDate"`
			Description   string   `json:"description"`
			PageCount     int      `json:"pageCount"`
			ImageLinks    struct {
				Thumbnail      string `json:"thumbnail"`
				SmallThumbnail string `json:"smallThumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// FetchByISBN queries the volumes endpoint for one ISBN. A nil result with a
// nil error means the catalog has no matching volume; an error is returned
// only for transport-level failure.
func (c *Client) FetchByISBN(ctx context.Context, isbn string) (*model.BookMetadata, error) {
	u := fmt.Sprintf("%s/volumes?q=%s", c.baseURL, url.QueryEscape("isbn:"+isbn))

	var res volumesResponse
	ok, err := c.get(ctx, u, &res)
	if err != nil {
		return nil, err
	}
	if !ok || len(res.Items) == 0 {
		return nil, nil
	}

	info := res.Items[0].VolumeInfo

	thumbnail := info.ImageLinks.Thumbnail
	if thumbnail == "" {
		thumbnail = info.ImageLinks.SmallThumbnail
	}

	return &model.BookMetadata{
		ISBN:          isbn,
		Title:         info.Title,
		Authors:       strings.Join(info.Authors, ", "),
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		Description:   info.Description,
		Thumbnail:     thumbnail,
		PageCount:     info.PageCount,
	}, nil
}

// get reports ok=false for a non-OK response that is not worth retrying.
// 429 and 5xx are retried with backoff; exhausting the retries is a
// transport failure.
func (c *Client) get(ctx context.Context, url string, target interface{}) (bool, error) {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return false, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return false, err
		}

		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return false, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
				continue
			}
			return false, nil
		}

		err = json.NewDecoder(resp.Body).Decode(target)
		resp.Body.Close()
		if err != nil {
			return false, fmt.Errorf("failed to parse response body: %w", err)
		}
		return true, nil
	}
	return false, fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}
