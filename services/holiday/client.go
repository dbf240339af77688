// Package holidaysvc is the client for the public holiday API: one call per
// year, already filtered to actual holidays.
package holidaysvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/schoolmate/backend/core"
	"github.com/schoolmate/backend/core/schedule"
)

type Client struct {
	baseURL string
	key     string
	http    *http.Client
}

var _ schedule.HolidaySource = (*Client)(nil)

func NewClient(conf core.APIConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		key:     conf.APIKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Holidays(ctx context.Context, year int) ([]schedule.Holiday, error) {
	u := fmt.Sprintf("%s/holidays?year=%d&key=%s", c.baseURL, year, c.key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching holidays for %d", year)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetching holidays for %d: status %d", year, res.StatusCode)
	}

	var rows []struct {
		Date    string `json:"date"`
		Name    string `json:"name"`
		Holiday bool   `json:"holiday"`
	}
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		return nil, errors.Wrap(err, "decoding holidays")
	}

	holidays := make([]schedule.Holiday, 0, len(rows))
	for _, row := range rows {
		if !row.Holiday {
			continue
		}
		holidays = append(holidays, schedule.Holiday{Date: schedule.DateKey(row.Date), Name: row.Name})
	}
	return holidays, nil
}
