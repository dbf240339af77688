package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/schoolmate/backend/apps/api/echo"
	"github.com/schoolmate/backend/core"
	"github.com/schoolmate/backend/core/board"
	"github.com/schoolmate/backend/core/grade"
	"github.com/schoolmate/backend/core/schedule"
	"github.com/schoolmate/backend/core/timetable"
	"github.com/schoolmate/backend/core/user"
	emailsvc "github.com/schoolmate/backend/services/email"
	inmemdb "github.com/schoolmate/backend/storage/database/inmem"
	testutil "github.com/schoolmate/backend/tests"
)

var (
	conf    *core.Config
	app     Server
	usrRepo user.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errPermDenied   = httpErr{Error: "permission denied"}
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type stubHolidaySource struct{}

func (stubHolidaySource) Holidays(context.Context, int) ([]schedule.Holiday, error) {
	return nil, nil
}

type stubAcademicSource struct{}

func (stubAcademicSource) AcademicEvents(context.Context, int, int, string, string) ([]schedule.AcademicEvent, error) {
	return nil, nil
}

func TestMain(m *testing.M) {
	conf = testutil.NewConfig()
	os.Exit(m.Run())
}

// setup rebuilds the storage and the server so every test starts from an
// empty database.
func setup(t *testing.T) {
	t.Helper()

	// set up DB & repos
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup(): %v", err)
	}
	usrRepo = inmemdb.NewUserRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewServiceMock(conf, usrRepo, mailSvc)
	scheduleSvc := schedule.NewService(inmemdb.NewCalendarStore(db), stubHolidaySource{}, stubAcademicSource{}, nopLogger{})
	gradeSvc := grade.NewService(inmemdb.NewExamRepository(db))
	boardSvc := board.NewService(inmemdb.NewBoardRepository(db))
	timetableSvc := timetable.NewService(inmemdb.NewTimetableRepository(db))

	// set up server
	app = NewServer(
		&Options{
			DisableReqLogs: true,
			Conf:           conf,
			Logger:         nopLogger{},
			UserSvc:        usrSvc,
			ScheduleSvc:    scheduleSvc,
			GradeSvc:       gradeSvc,
			BoardSvc:       boardSvc,
			TimetableSvc:   timetableSvc,
		},
	)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
