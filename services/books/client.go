// Package bookssvc is the client for the book catalog API: title search and
// the curated recommendation list.
package bookssvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/schoolmate/backend/core"
)

type (
	Book struct {
		ISBN      string `json:"isbn"`
		Title     string `json:"title"`
		Author    string `json:"author"`
		Publisher string `json:"publisher"`
		CoverURL  string `json:"cover_url,omitempty"`
		Link      string `json:"link,omitempty"`
	}

	Client struct {
		baseURL string
		key     string
		http    *http.Client
	}
)

func NewClient(conf core.APIConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		key:     conf.APIKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Search looks books up by title keyword.
func (c *Client) Search(ctx context.Context, query string) ([]Book, error) {
	q := url.Values{}
	q.Set("query", query)
	return c.get(ctx, "/search?"+q.Encode())
}

// Recommended returns the curated list for the grade level.
func (c *Client) Recommended(ctx context.Context, gradeLevel int) ([]Book, error) {
	return c.get(ctx, fmt.Sprintf("/recommended?grade=%d", gradeLevel))
}

func (c *Client) get(ctx context.Context, path string) ([]Book, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	req.Header.Set("Authorization", "Bearer "+c.key)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "calling book catalog")
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("calling book catalog: status %d", res.StatusCode)
	}

	var out struct {
		Books []Book `json:"books"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "decoding book catalog response")
	}
	return out.Books, nil
}
