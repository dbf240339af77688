// Package neissvc is the client for the Korean NEIS open API: school
// directory search, meal menus and the monthly academic schedule. Schools
// are identified by the (education office code, school code) pair.
package neissvc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/schoolmate/backend/core"
	"github.com/schoolmate/backend/core/schedule"
)

const ymdLayout = "20060102"

type (
	School struct {
		OfficeCode string `json:"office_code"`
		SchoolCode string `json:"school_code"`
		Name       string `json:"name"`
		Kind       string `json:"kind"`
		Region     string `json:"region"`
		Address    string `json:"address"`
	}

	Meal struct {
		Date     string   `json:"date"`
		MealType string   `json:"meal_type"`
		Dishes   []string `json:"dishes"`
		Calories string   `json:"calories"`
	}

	ScheduleEvent struct {
		Date  string `json:"date"`
		Title string `json:"title"`
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

// SearchSchools looks schools up by (partial) name.
func (c *Client) SearchSchools(ctx context.Context, name string) ([]School, error) {
	q := url.Values{}
	q.Set("SCHUL_NM", name)

	rows, err := c.get(ctx, "schoolInfo", q)
	if err != nil {
		return nil, err
	}

	schools := make([]School, 0, len(rows))
	for _, raw := range rows {
		var row struct {
			OfficeCode string `json:"ATPT_OFCDC_SC_CODE"`
			SchoolCode string `json:"SD_SCHUL_CODE"`
			Name       string `json:"SCHUL_NM"`
			Kind       string `json:"SCHUL_KND_SC_NM"`
			Region     string `json:"LCTN_SC_NM"`
			Address    string `json:"ORG_RDNMA"`
		}
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, errors.Wrap(err, "decoding school row")
		}
		schools = append(schools, School{
			OfficeCode: row.OfficeCode,
			SchoolCode: row.SchoolCode,
			Name:       row.Name,
			Kind:       row.Kind,
			Region:     row.Region,
			Address:    row.Address,
		})
	}
	return schools, nil
}

// Meals returns the school's meal menus for one day.
func (c *Client) Meals(ctx context.Context, officeCode, schoolCode string, date time.Time) ([]Meal, error) {
	q := url.Values{}
	q.Set("ATPT_OFCDC_SC_CODE", officeCode)
	q.Set("SD_SCHUL_CODE", schoolCode)
	q.Set("MLSV_YMD", date.Format(ymdLayout))

	rows, err := c.get(ctx, "mealServiceDietInfo", q)
	if err != nil {
		return nil, err
	}

	meals := make([]Meal, 0, len(rows))
	for _, raw := range rows {
		var row struct {
			Date     string `json:"MLSV_YMD"`
			MealType string `json:"MMEAL_SC_NM"`
			Dishes   string `json:"DDISH_NM"`
			Calories string `json:"CAL_INFO"`
		}
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, errors.Wrap(err, "decoding meal row")
		}
		meals = append(meals, Meal{
			Date:     row.Date,
			MealType: row.MealType,
			Dishes:   splitDishes(row.Dishes),
			Calories: row.Calories,
		})
	}
	return meals, nil
}

// Schedule returns the school's academic calendar for one month.
func (c *Client) Schedule(ctx context.Context, year, month int, officeCode, schoolCode string) ([]ScheduleEvent, error) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	q := url.Values{}
	q.Set("ATPT_OFCDC_SC_CODE", officeCode)
	q.Set("SD_SCHUL_CODE", schoolCode)
	q.Set("AA_FROM_YMD", first.Format(ymdLayout))
	q.Set("AA_TO_YMD", last.Format(ymdLayout))

	rows, err := c.get(ctx, "SchoolSchedule", q)
	if err != nil {
		return nil, err
	}

	events := make([]ScheduleEvent, 0, len(rows))
	for _, raw := range rows {
		var row struct {
			Date  string `json:"AA_YMD"`
			Title string `json:"EVENT_NM"`
		}
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, errors.Wrap(err, "decoding schedule row")
		}
		if row.Title == "" || strings.Contains(row.Title, "토요휴업일") {
			continue
		}
		events = append(events, ScheduleEvent{Date: formatYMD(row.Date), Title: row.Title})
	}
	return events, nil
}

// AcademicEvents adapts the monthly schedule to the calendar overlay
// contract.
func (c *Client) AcademicEvents(ctx context.Context, year, month int, officeCode, schoolCode string) ([]schedule.AcademicEvent, error) {
	evs, err := c.Schedule(ctx, year, month, officeCode, schoolCode)
	if err != nil {
		return nil, err
	}
	out := make([]schedule.AcademicEvent, 0, len(evs))
	for _, ev := range evs {
		out = append(out, schedule.AcademicEvent{Date: schedule.DateKey(ev.Date), Title: ev.Title})
	}
	return out, nil
}

var _ schedule.AcademicSource = (*Client)(nil)

// get performs one API call and returns the row list of the named dataset.
// NEIS wraps rows as {"<dataset>": [{"head": [...]}, {"row": [...]}]}; a
// missing dataset key means an empty result, not an error.
func (c *Client) get(ctx context.Context, dataset string, q url.Values) ([]json.RawMessage, error) {
	q.Set("KEY", c.key)
	q.Set("Type", "json")

	u := fmt.Sprintf("%s/%s?%s", c.baseURL, dataset, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "calling %s", dataset)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("calling %s: status %d", dataset, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s response", dataset)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrapf(err, "decoding %s response", dataset)
	}
	raw, ok := envelope[dataset]
	if !ok {
		// a RESULT-only envelope means no matching rows
		return nil, nil
	}

	var parts []struct {
		Row []json.RawMessage `json:"row"`
	}
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, errors.Wrapf(err, "decoding %s rows", dataset)
	}
	for _, part := range parts {
		if part.Row != nil {
			return part.Row, nil
		}
	}
	return nil, nil
}

// splitDishes splits the <br/>-joined dish string and strips the trailing
// allergen number lists.
func splitDishes(s string) []string {
	parts := strings.Split(s, "<br/>")
	dishes := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if i := strings.IndexAny(p, "("); i > 0 {
			p = strings.TrimSpace(p[:i])
		}
		if p != "" {
			dishes = append(dishes, p)
		}
	}
	return dishes
}

// formatYMD converts the API's YYYYMMDD dates to YYYY-MM-DD.
func formatYMD(s string) string {
	t, err := time.Parse(ymdLayout, s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}
