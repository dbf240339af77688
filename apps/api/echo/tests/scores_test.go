package tests

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/schoolmate/backend/core/grade"
	"github.com/schoolmate/backend/core/user"
	testutil "github.com/schoolmate/backend/tests"
)

func Test_scoreApi_exams(t *testing.T) {
	setup(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "heroic", "hero@test.kr", "", []string{user.RoleStudent}, true)
	other := testutil.CreateUser(t, usrRepo, "Other", "otherr", "other@test.kr", "", []string{user.RoleStudent}, true)
	token := getToken(t, student)

	var exam grade.Exam

	t.Run("validation", func(t *testing.T) {
		body := marchallObj(t, grade.NewExam{Year: 2026, Month: 13, GradeLevel: 2})
		req, rec := newAuthRequest(http.MethodPost, "/v1/scores/exams", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; wantCode 400", rec.Code)
		}
	})

	t.Run("create", func(t *testing.T) {
		body := marchallObj(t, grade.NewExam{
			Year: 2026, Month: 6, GradeLevel: 2,
			Korean: "84", Math: "92", English: "88", History: "45", Explore1: "47",
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/scores/exams", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &exam); err != nil {
			t.Fatalf("json.Unmarshal(): %v", err)
		}
		if exam.ID == 0 || exam.Korean != "84" {
			t.Errorf("failed! exam = %+v", exam)
		}
	})

	t.Run("owner isolation", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/scores/exams/"+strconv.Itoa(exam.ID), getToken(t, other))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("failed! code = %v; wantCode 404", rec.Code)
		}
	})

	t.Run("report", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/scores/exams/"+strconv.Itoa(exam.ID)+"/report", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		var report grade.Report
		if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
			t.Fatalf("json.Unmarshal(): %v", err)
		}
		if report.Bands["korean"] != grade.Band("2등급") {
			t.Errorf("failed! korean band = %v; want 2등급", report.Bands["korean"])
		}
		if report.Bands["math"] != grade.Band("1등급") {
			t.Errorf("failed! math band = %v; want 1등급", report.Bands["math"])
		}
		if report.Bands["second_lang"] != grade.BandUnavailable {
			t.Errorf("failed! second_lang band = %v; want %v", report.Bands["second_lang"], grade.BandUnavailable)
		}
	})

	t.Run("update", func(t *testing.T) {
		body := marchallObj(t, grade.NewExam{Year: 2026, Month: 6, GradeLevel: 2, Korean: "95"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/scores/exams/"+strconv.Itoa(exam.ID), token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var updated grade.Exam
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatalf("json.Unmarshal(): %v", err)
		}
		if updated.Korean != "95" {
			t.Errorf("failed! korean = %q; want 95", updated.Korean)
		}
	})

	t.Run("series", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/scores/series", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var series []grade.Series
		if err := json.Unmarshal(rec.Body.Bytes(), &series); err != nil {
			t.Fatalf("json.Unmarshal(): %v", err)
		}
		if len(series) == 0 {
			t.Fatal("failed! empty series")
		}
	})

	t.Run("delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/scores/exams/"+strconv.Itoa(exam.ID), token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v", rec.Code)
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/scores/exams/"+strconv.Itoa(exam.ID), token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("failed! code = %v; wantCode 404", rec.Code)
		}
	})
}
