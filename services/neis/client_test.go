package neissvc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolmate/backend/core"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(core.APIConfig{BaseURL: srv.URL, APIKey: "test-key"})
}

func TestSearchSchools(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schoolInfo", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("KEY"))
		assert.Equal(t, "반포", r.URL.Query().Get("SCHUL_NM"))
		_, _ = w.Write([]byte(`{"schoolInfo":[
			{"head":[{"list_total_count":1}]},
			{"row":[{"ATPT_OFCDC_SC_CODE":"B10","SD_SCHUL_CODE":"7010084","SCHUL_NM":"반포고등학교","SCHUL_KND_SC_NM":"고등학교","LCTN_SC_NM":"서울특별시","ORG_RDNMA":"서울특별시 서초구"}]}
		]}`))
	})

	schools, err := client.SearchSchools(context.Background(), "반포")
	require.NoError(t, err)
	require.Len(t, schools, 1)
	assert.Equal(t, "B10", schools[0].OfficeCode)
	assert.Equal(t, "7010084", schools[0].SchoolCode)
	assert.Equal(t, "반포고등학교", schools[0].Name)
}

func TestSearchSchoolsEmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// NEIS answers a RESULT envelope (no dataset key) when nothing matches
		_, _ = w.Write([]byte(`{"RESULT":{"CODE":"INFO-200","MESSAGE":"해당하는 데이터가 없습니다."}}`))
	})

	schools, err := client.SearchSchools(context.Background(), "없는학교")
	require.NoError(t, err)
	assert.Empty(t, schools)
}

func TestMeals(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mealServiceDietInfo", r.URL.Path)
		assert.Equal(t, "20260302", r.URL.Query().Get("MLSV_YMD"))
		_, _ = w.Write([]byte(`{"mealServiceDietInfo":[
			{"head":[{"list_total_count":1}]},
			{"row":[{"MLSV_YMD":"20260302","MMEAL_SC_NM":"중식","DDISH_NM":"쌀밥<br/>미역국 (5.6)<br/>불고기 (5.6.10)","CAL_INFO":"850 Kcal"}]}
		]}`))
	})

	meals, err := client.Meals(context.Background(), "B10", "7010084", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "중식", meals[0].MealType)
	assert.Equal(t, []string{"쌀밥", "미역국", "불고기"}, meals[0].Dishes)
}

func TestSchedule(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/SchoolSchedule", r.URL.Path)
		assert.Equal(t, "20260301", r.URL.Query().Get("AA_FROM_YMD"))
		assert.Equal(t, "20260331", r.URL.Query().Get("AA_TO_YMD"))
		_, _ = w.Write([]byte(`{"SchoolSchedule":[
			{"head":[{"list_total_count":2}]},
			{"row":[
				{"AA_YMD":"20260302","EVENT_NM":"개학식"},
				{"AA_YMD":"20260307","EVENT_NM":"토요휴업일"}
			]}
		]}`))
	})

	events, err := client.Schedule(context.Background(), 2026, 3, "B10", "7010084")
	require.NoError(t, err)
	// 토요휴업일 filler rows are dropped
	require.Len(t, events, 1)
	assert.Equal(t, "2026-03-02", events[0].Date)
	assert.Equal(t, "개학식", events[0].Title)
}

func TestScheduleServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Schedule(context.Background(), 2026, 3, "B10", "7010084")
	assert.Error(t, err)
}
