package holidaysvc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolmate/backend/core"
	"github.com/schoolmate/backend/core/schedule"
)

func TestHolidays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/holidays", r.URL.Path)
		assert.Equal(t, "2026", r.URL.Query().Get("year"))
		_, _ = w.Write([]byte(`[
			{"date":"2026-01-01","name":"신정","holiday":true},
			{"date":"2026-05-05","name":"어린이날","holiday":true},
			{"date":"2026-05-06","name":"기념일","holiday":false}
		]`))
	}))
	defer srv.Close()

	client := NewClient(core.APIConfig{BaseURL: srv.URL, APIKey: "k"})
	holidays, err := client.Holidays(context.Background(), 2026)
	require.NoError(t, err)

	// non-holiday observances are filtered out
	require.Len(t, holidays, 2)
	assert.Equal(t, schedule.Holiday{Date: "2026-01-01", Name: "신정"}, holidays[0])
	assert.Equal(t, schedule.Holiday{Date: "2026-05-05", Name: "어린이날"}, holidays[1])
}

func TestHolidaysServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(core.APIConfig{BaseURL: srv.URL, APIKey: "k"})
	_, err := client.Holidays(context.Background(), 2026)
	assert.Error(t, err)
}
