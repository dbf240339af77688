package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/schoolmate/backend/core/timetable"
	"github.com/schoolmate/backend/core/user"
	testutil "github.com/schoolmate/backend/tests"
)

func Test_timetableApi(t *testing.T) {
	setup(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "heroic", "hero@test.kr", "", []string{user.RoleStudent}, true)
	token := getToken(t, student)

	getSlots := func(t *testing.T) []timetable.Slot {
		t.Helper()
		req, rec := newAuthRequest(http.MethodGet, "/v1/timetable", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("get failed! code = %v", rec.Code)
		}
		var tt timetable.Timetable
		if err := json.Unmarshal(rec.Body.Bytes(), &tt); err != nil {
			t.Fatalf("json.Unmarshal(): %v", err)
		}
		return tt.Slots
	}
	setSlot := func(t *testing.T, ns timetable.NewSlot) {
		t.Helper()
		req, rec := newAuthRequest(http.MethodPut, "/v1/timetable/slots", token, marchallObj(t, ns))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("set failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
	}

	t.Run("out-of-range slot rejected", func(t *testing.T) {
		body := marchallObj(t, timetable.NewSlot{Weekday: 6, Period: 1, Subject: "체육"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/timetable/slots", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; wantCode 400", rec.Code)
		}
	})

	t.Run("set and order", func(t *testing.T) {
		setSlot(t, timetable.NewSlot{Weekday: 3, Period: 2, Subject: "영어"})
		setSlot(t, timetable.NewSlot{Weekday: 1, Period: 4, Subject: "수학", Teacher: "김선생"})
		setSlot(t, timetable.NewSlot{Weekday: 1, Period: 1, Subject: "국어"})

		slots := getSlots(t)
		if len(slots) != 3 {
			t.Fatalf("failed! len(slots) = %d; want 3", len(slots))
		}
		if slots[0].Subject != "국어" || slots[1].Subject != "수학" || slots[2].Subject != "영어" {
			t.Errorf("failed! slots = %+v", slots)
		}
	})

	t.Run("overwrite cell", func(t *testing.T) {
		setSlot(t, timetable.NewSlot{Weekday: 1, Period: 1, Subject: "과학"})
		slots := getSlots(t)
		if len(slots) != 3 || slots[0].Subject != "과학" {
			t.Errorf("failed! slots = %+v", slots)
		}
	})

	t.Run("clear slot", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/timetable/slots/1/1", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v", rec.Code)
		}

		// clearing an empty cell is a 404
		req, rec = newAuthRequest(http.MethodDelete, "/v1/timetable/slots/1/1", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("failed! code = %v; wantCode 404", rec.Code)
		}
	})

	t.Run("clear all", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/timetable", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v", rec.Code)
		}
		if slots := getSlots(t); len(slots) != 0 {
			t.Errorf("failed! slots = %+v; want none", slots)
		}
	})
}
