package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// fakeHolidaySource serves canned holidays per year and can be made to
// block until released, to exercise in-flight fetches.
type fakeHolidaySource struct {
	mu      sync.Mutex
	byYear  map[int][]Holiday
	err     error
	blockOn int
	release chan struct{}
	calls   int
}

func (f *fakeHolidaySource) Holidays(ctx context.Context, year int) ([]Holiday, error) {
	f.mu.Lock()
	f.calls++
	block := f.blockOn == year
	release := f.release
	f.mu.Unlock()

	if block {
		<-release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.byYear[year], nil
}

type fakeAcademicSource struct {
	events []AcademicEvent
	err    error
}

func (f *fakeAcademicSource) AcademicEvents(ctx context.Context, year, month int, officeCode, schoolCode string) ([]AcademicEvent, error) {
	return f.events, f.err
}

func newTestService(hol *fakeHolidaySource, acad *fakeAcademicSource) Service {
	if hol == nil {
		hol = &fakeHolidaySource{}
	}
	if acad == nil {
		acad = &fakeAcademicSource{}
	}
	return NewService(newMemStore(), hol, acad, nopLogger{})
}

func TestServiceAddUpdateDeleteEntry(t *testing.T) {
	svc := newTestService(nil, nil)
	d := DateKey("2026-03-02")

	day, err := svc.AddEntry(1, d, NewEntry{Title: "개학식", StartTime: "09:00", Color: "#abcdef"})
	assert.NoError(t, err)
	assert.Equal(t, "개학식", day.Title)
	assert.Equal(t, "#abcdef", day.Color)
	assert.Len(t, day.Entries, 1)

	day, err = svc.UpdateEntry(1, d, 0, NewEntry{Title: "입학식"})
	assert.NoError(t, err)
	assert.Equal(t, "입학식", day.Title)

	_, err = svc.UpdateEntry(1, d, 9, NewEntry{Title: "x"})
	assert.Equal(t, ErrEntryNotFound, errors.Cause(err))

	day, err = svc.DeleteEntry(1, d, 0)
	assert.NoError(t, err)
	assert.Empty(t, day.Entries)
	assert.Empty(t, day.Title)
	assert.Empty(t, day.Color)
}

func TestServicePersistsAcrossInstances(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, &fakeHolidaySource{}, &fakeAcademicSource{}, nopLogger{})
	d := DateKey("2026-03-02")

	_, err := svc.AddEntry(1, d, NewEntry{Title: "개학식"})
	assert.NoError(t, err)

	// a fresh service over the same store sees the persisted state
	svc2 := NewService(store, &fakeHolidaySource{}, &fakeAcademicSource{}, nopLogger{})
	events, err := svc2.Events(1)
	assert.NoError(t, err)
	assert.Equal(t, []Event{{Date: d, Title: "개학식"}}, events)
}

func TestServiceUsersAreIsolated(t *testing.T) {
	svc := newTestService(nil, nil)

	_, err := svc.AddEntry(1, "2026-03-02", NewEntry{Title: "mine"})
	assert.NoError(t, err)

	events, err := svc.Events(2)
	assert.NoError(t, err)
	assert.Empty(t, events)
}

func TestServiceEventsFreshUserNotNil(t *testing.T) {
	svc := newTestService(nil, nil)

	// a user with no stored state still gets a JSON [] rather than null
	events, err := svc.Events(1)
	assert.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestServiceWipeTwoPhase(t *testing.T) {
	svc := newTestService(nil, nil)
	d := DateKey("2026-07-20")

	_, err := svc.AddEntry(1, d, NewEntry{Title: "보충수업"})
	assert.NoError(t, err)
	_, err = svc.AddPeriod(1, NewPeriod{Label: "여름방학", Start: "2026-07-18", End: "2026-08-16"})
	assert.NoError(t, err)

	token, err := svc.RequestWipe(1, d)
	assert.NoError(t, err)

	// nothing removed until confirmation
	events, _ := svc.Events(1)
	assert.NotEmpty(t, events)

	assert.NoError(t, svc.ConfirmWipe(1, token))
	events, _ = svc.Events(1)
	assert.Empty(t, events)
	periods, _ := svc.Periods(1)
	assert.Empty(t, periods)

	// a token is single-use
	assert.Equal(t, ErrWipeNotFound, svc.ConfirmWipe(1, token))
}

func TestServiceWipeCancel(t *testing.T) {
	svc := newTestService(nil, nil)
	d := DateKey("2026-07-20")

	_, err := svc.AddEntry(1, d, NewEntry{Title: "보충수업"})
	assert.NoError(t, err)

	token, err := svc.RequestWipe(1, d)
	assert.NoError(t, err)
	assert.NoError(t, svc.CancelWipe(1, token))

	// cancelled tokens no longer confirm; the data survives
	assert.Equal(t, ErrWipeNotFound, svc.ConfirmWipe(1, token))
	events, _ := svc.Events(1)
	assert.Len(t, events, 1)
}

func TestServiceWipeWrongUser(t *testing.T) {
	svc := newTestService(nil, nil)

	token, err := svc.RequestWipe(1, "2026-07-20")
	assert.NoError(t, err)
	assert.Equal(t, ErrWipeNotFound, svc.ConfirmWipe(2, token))
	assert.Equal(t, ErrWipeNotFound, svc.CancelWipe(2, token))
}

func TestServiceUpcomingWindow(t *testing.T) {
	svc := newTestService(nil, nil)
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	_, err := svc.AddEntry(1, NewDateKey(now), NewEntry{Title: "today"})
	assert.NoError(t, err)
	_, err = svc.AddEntry(1, NewDateKey(now.AddDate(0, 0, 7)), NewEntry{Title: "last day in window"})
	assert.NoError(t, err)
	_, err = svc.AddEntry(1, NewDateKey(now.AddDate(0, 0, 8)), NewEntry{Title: "out of window"})
	assert.NoError(t, err)
	_, err = svc.AddEntry(1, NewDateKey(now.AddDate(0, 0, -1)), NewEntry{Title: "yesterday"})
	assert.NoError(t, err)

	days, err := svc.Upcoming(1, now)
	assert.NoError(t, err)
	assert.Len(t, days, 2)
	assert.Equal(t, NewDateKey(now), days[0].Date)
	assert.Equal(t, "Monday", days[0].Weekday)
	assert.Equal(t, NewDateKey(now.AddDate(0, 0, 7)), days[1].Date)
}

func TestServiceDayMergesOverlays(t *testing.T) {
	hol := &fakeHolidaySource{byYear: map[int][]Holiday{
		2026: {{Date: "2026-05-05", Name: "어린이날"}},
	}}
	acad := &fakeAcademicSource{events: []AcademicEvent{
		{Date: "2026-05-05", Title: "재량휴업일"},
	}}
	svc := newTestService(hol, acad)

	_, err := svc.AddEntry(1, "2026-05-05", NewEntry{Title: "소풍"})
	assert.NoError(t, err)

	day, err := svc.Day(context.Background(), 1, "2026-05-05", "B10", "7010001")
	assert.NoError(t, err)
	assert.Equal(t, "소풍", day.Title)
	assert.Equal(t, "어린이날", day.Holiday)
	assert.Equal(t, []string{"재량휴업일"}, day.AcademicEvents)
}

func TestServiceOverlayFailureLeavesDayBare(t *testing.T) {
	hol := &fakeHolidaySource{err: errors.New("api down")}
	svc := newTestService(hol, &fakeAcademicSource{err: errors.New("api down")})

	_, err := svc.AddEntry(1, "2026-05-05", NewEntry{Title: "소풍"})
	assert.NoError(t, err)

	day, err := svc.Day(context.Background(), 1, "2026-05-05", "B10", "7010001")
	assert.NoError(t, err)
	assert.Equal(t, "소풍", day.Title)
	assert.Empty(t, day.Holiday)
	assert.Empty(t, day.AcademicEvents)
}

func TestServiceHolidaysCached(t *testing.T) {
	hol := &fakeHolidaySource{byYear: map[int][]Holiday{
		2026: {{Date: "2026-01-01", Name: "신정"}},
	}}
	svc := newTestService(hol, nil)

	for i := 0; i < 3; i++ {
		m, err := svc.Holidays(context.Background(), 2026)
		assert.NoError(t, err)
		assert.Equal(t, "신정", m["2026-01-01"])
	}
	assert.Equal(t, 1, hol.calls)
}

func TestServiceStaleHolidayResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	hol := &fakeHolidaySource{
		byYear: map[int][]Holiday{
			2025: {{Date: "2025-01-01", Name: "신정 2025"}},
			2026: {{Date: "2026-01-01", Name: "신정 2026"}},
		},
		blockOn: 2025,
		release: release,
	}
	svc := newTestService(hol, nil)

	done := make(chan map[DateKey]string)
	go func() {
		m, _ := svc.Holidays(context.Background(), 2025)
		done <- m
	}()

	// wait for the 2025 fetch to be in flight
	for {
		hol.mu.Lock()
		started := hol.calls > 0
		hol.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	// the year changes while 2025 is still in flight
	m, err := svc.Holidays(context.Background(), 2026)
	assert.NoError(t, err)
	assert.Equal(t, "신정 2026", m["2026-01-01"])

	// releasing the 2025 response must not overwrite the 2026 state
	close(release)
	<-done
	m, err = svc.Holidays(context.Background(), 2026)
	assert.NoError(t, err)
	assert.Equal(t, "신정 2026", m["2026-01-01"])
	assert.NotContains(t, m, DateKey("2025-01-01"))
}

func TestServiceViewState(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, &fakeHolidaySource{}, &fakeAcademicSource{}, nopLogger{})

	assert.NoError(t, svc.SetView(1, 2026, 4))
	assert.NoError(t, svc.SetSelectedDate(1, "2026-04-15"))
	assert.NoError(t, svc.SetContextDate(1, "2026-04-20"))

	snap, err := LoadSnapshot(store, 1)
	assert.NoError(t, err)
	assert.Equal(t, 2026, snap.ViewYear)
	assert.Equal(t, 4, snap.ViewMonth)
	assert.Equal(t, DateKey("2026-04-15"), snap.SelectedDate)
	assert.Equal(t, DateKey("2026-04-20"), snap.ContextDate)
}

func TestServicePeriods(t *testing.T) {
	svc := newTestService(nil, nil)

	per, err := svc.AddPeriod(1, NewPeriod{Label: "1학기", Start: "2026-03-02", End: "2026-07-17"})
	assert.NoError(t, err)
	assert.NotEmpty(t, per.ID)

	periods, err := svc.Periods(1)
	assert.NoError(t, err)
	assert.Len(t, periods, 1)

	assert.NoError(t, svc.DeletePeriod(1, per.ID))
	assert.Equal(t, ErrPeriodNotFound, errors.Cause(svc.DeletePeriod(1, per.ID)))

	periods, err = svc.Periods(1)
	assert.NoError(t, err)
	assert.Empty(t, periods)
}
