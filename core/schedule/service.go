package schedule

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/schoolmate/backend/core"
)

var (
	// errors
	ErrWipeNotFound = stderrors.New("no pending deletion for this token")
)

type (
	// HolidaySource returns the public holidays of a year, already filtered
	// to actual holidays. Opaque external collaborator.
	HolidaySource interface {
		Holidays(ctx context.Context, year int) ([]Holiday, error)
	}

	// AcademicSource returns one month of a school's academic calendar,
	// identified by the education-office code + school code pair.
	AcademicSource interface {
		AcademicEvents(ctx context.Context, year, month int, officeCode, schoolCode string) ([]AcademicEvent, error)
	}

	Service interface {
		AddEntry(userID int, date DateKey, ne NewEntry) (DayView, error)
		UpdateEntry(userID int, date DateKey, index int, ne NewEntry) (DayView, error)
		DeleteEntry(userID int, date DateKey, index int) (DayView, error)

		RequestWipe(userID int, date DateKey) (string, error)
		ConfirmWipe(userID int, token string) error
		CancelWipe(userID int, token string) error

		SetColor(userID int, date DateKey, color string) error
		AddPeriod(userID int, np NewPeriod) (Period, error)
		DeletePeriod(userID int, id string) error
		Periods(userID int) ([]Period, error)

		Day(ctx context.Context, userID int, date DateKey, officeCode, schoolCode string) (DayView, error)
		Month(ctx context.Context, userID, year, month int, officeCode, schoolCode string) ([]DayView, error)
		Events(userID int) ([]Event, error)
		Upcoming(userID int, now time.Time) ([]UpcomingDay, error)

		SetView(userID, year, month int) error
		SetSelectedDate(userID int, date DateKey) error
		SetContextDate(userID int, date DateKey) error

		Holidays(ctx context.Context, year int) (map[DateKey]string, error)
		Academic(ctx context.Context, year, month int, officeCode, schoolCode string) (map[DateKey][]string, error)
	}

	service struct {
		store       Store
		holidaySrc  HolidaySource
		academicSrc AcademicSource
		log         core.Logger

		// serializes read-modify-write cycles on the store; the source had a
		// single execution context, this restores that guarantee per process
		mu sync.Mutex

		pendingWipes map[string]pendingWipe

		// holiday overlay, keyed by year; replaced wholesale on year change.
		// holGen guards against a stale in-flight fetch applying after the
		// dependency changed.
		holMu    sync.Mutex
		holGen   uint64
		holYear  int
		holidays map[DateKey]string

		// academic overlay, keyed by (year, month, office, school)
		acadMu   sync.Mutex
		acadGen  uint64
		acadKey  academicKey
		academic map[DateKey][]string
	}

	pendingWipe struct {
		userID int
		date   DateKey
	}

	academicKey struct {
		year, month            int
		officeCode, schoolCode string
	}
)

var _ Service = (*service)(nil)

func NewService(store Store, holidaySrc HolidaySource, academicSrc AcademicSource, log core.Logger) Service {
	return &service{
		store:        store,
		holidaySrc:   holidaySrc,
		academicSrc:  academicSrc,
		log:          log,
		pendingWipes: make(map[string]pendingWipe),
	}
}

// mutate runs one read-modify-write cycle: load the user's snapshot, apply
// fn to the planner, project the planner back (recomputing the derived
// titles and events) and persist.
func (svc *service) mutate(userID int, fn func(p *Planner) error) (*Planner, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	snap, err := LoadSnapshot(svc.store, userID)
	if err != nil {
		return nil, err
	}
	p := snap.Planner()
	if err := fn(p); err != nil {
		return nil, err
	}
	snap.SetPlanner(p)
	if err := snap.Save(svc.store, userID); err != nil {
		return nil, err
	}
	return p, nil
}

func (svc *service) load(userID int) (*Planner, *Snapshot, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	snap, err := LoadSnapshot(svc.store, userID)
	if err != nil {
		return nil, nil, err
	}
	return snap.Planner(), snap, nil
}

func (svc *service) AddEntry(userID int, date DateKey, ne NewEntry) (DayView, error) {
	p, err := svc.mutate(userID, func(p *Planner) error {
		p.AddEntry(date, ne.entry())
		if ne.Color != "" {
			p.SetColor(date, ne.Color)
		}
		return nil
	})
	if err != nil {
		return DayView{}, err
	}
	return p.Day(date), nil
}

func (svc *service) UpdateEntry(userID int, date DateKey, index int, ne NewEntry) (DayView, error) {
	p, err := svc.mutate(userID, func(p *Planner) error {
		if err := p.UpdateEntry(date, index, ne.entry()); err != nil {
			return err
		}
		if ne.Color != "" {
			p.SetColor(date, ne.Color)
		}
		return nil
	})
	if err != nil {
		return DayView{}, err
	}
	return p.Day(date), nil
}

func (svc *service) DeleteEntry(userID int, date DateKey, index int) (DayView, error) {
	p, err := svc.mutate(userID, func(p *Planner) error {
		return p.DeleteEntry(date, index)
	})
	if err != nil {
		return DayView{}, err
	}
	return p.Day(date), nil
}

// RequestWipe starts the destructive full-date deletion: nothing is removed
// until the returned token is confirmed. There is no undo after confirm.
func (svc *service) RequestWipe(userID int, date DateKey) (string, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	token := uuid.New().String()
	svc.pendingWipes[token] = pendingWipe{userID: userID, date: date}
	return token, nil
}

func (svc *service) ConfirmWipe(userID int, token string) error {
	svc.mu.Lock()
	pw, ok := svc.pendingWipes[token]
	if ok && pw.userID == userID {
		delete(svc.pendingWipes, token)
	}
	svc.mu.Unlock()
	if !ok || pw.userID != userID {
		return ErrWipeNotFound
	}

	_, err := svc.mutate(userID, func(p *Planner) error {
		p.WipeDate(pw.date)
		return nil
	})
	return err
}

func (svc *service) CancelWipe(userID int, token string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	pw, ok := svc.pendingWipes[token]
	if !ok || pw.userID != userID {
		return ErrWipeNotFound
	}
	delete(svc.pendingWipes, token)
	return nil
}

func (svc *service) SetColor(userID int, date DateKey, color string) error {
	_, err := svc.mutate(userID, func(p *Planner) error {
		p.SetColor(date, color)
		return nil
	})
	return err
}

func (svc *service) AddPeriod(userID int, np NewPeriod) (Period, error) {
	per := Period{
		ID:    uuid.New().String(),
		Label: np.Label,
		Start: DateKey(np.Start),
		End:   DateKey(np.End),
		Color: np.Color,
	}
	_, err := svc.mutate(userID, func(p *Planner) error {
		p.AddPeriod(per)
		return nil
	})
	if err != nil {
		return Period{}, err
	}
	return per, nil
}

func (svc *service) DeletePeriod(userID int, id string) error {
	_, err := svc.mutate(userID, func(p *Planner) error {
		return p.RemovePeriod(id)
	})
	return err
}

func (svc *service) Periods(userID int) ([]Period, error) {
	p, _, err := svc.load(userID)
	if err != nil {
		return nil, err
	}
	return p.Periods(), nil
}

func (svc *service) Day(ctx context.Context, userID int, date DateKey, officeCode, schoolCode string) (DayView, error) {
	p, _, err := svc.load(userID)
	if err != nil {
		return DayView{}, err
	}
	day := p.Day(date)

	t, err := date.Time()
	if err != nil {
		return day, nil
	}
	svc.overlay(ctx, &day, t.Year(), int(t.Month()), officeCode, schoolCode)
	return day, nil
}

func (svc *service) Month(ctx context.Context, userID, year, month int, officeCode, schoolCode string) ([]DayView, error) {
	p, _, err := svc.load(userID)
	if err != nil {
		return nil, err
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	days := make([]DayView, 0, 31)
	for t := first; t.Month() == time.Month(month); t = t.AddDate(0, 0, 1) {
		day := p.Day(NewDateKey(t))
		svc.overlay(ctx, &day, year, month, officeCode, schoolCode)
		days = append(days, day)
	}
	return days, nil
}

// overlay merges the read-only holiday/academic maps into a day view.
// Overlay fetch failures leave the day without overlay data; they are
// logged, not surfaced.
func (svc *service) overlay(ctx context.Context, day *DayView, year, month int, officeCode, schoolCode string) {
	if holidays, err := svc.Holidays(ctx, year); err == nil {
		day.Holiday = holidays[day.Date]
	}
	if officeCode == "" || schoolCode == "" {
		return
	}
	if academic, err := svc.Academic(ctx, year, month, officeCode, schoolCode); err == nil {
		day.AcademicEvents = academic[day.Date]
	}
}

// Events returns the persisted flattened event list: the dashboard's sole
// contract with the calendar.
func (svc *service) Events(userID int) ([]Event, error) {
	svc.mu.Lock()
	snap, err := LoadSnapshot(svc.store, userID)
	svc.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if snap.Events == nil {
		return []Event{}, nil
	}
	return snap.Events, nil
}

// Upcoming filters the event list to a 0–7-day forward window from now and
// partitions it by day, oldest first, for the home dashboard preview.
func (svc *service) Upcoming(userID int, now time.Time) ([]UpcomingDay, error) {
	events, err := svc.Events(userID)
	if err != nil {
		return nil, err
	}

	byDate := make(map[DateKey][]Event)
	for _, ev := range events {
		byDate[ev.Date] = append(byDate[ev.Date], ev)
	}

	days := make([]UpcomingDay, 0, 8)
	for offset := 0; offset <= 7; offset++ {
		date := NewDateKey(now.AddDate(0, 0, offset))
		evs, ok := byDate[date]
		if !ok {
			continue
		}
		t, _ := date.Time()
		days = append(days, UpcomingDay{
			Date:    date,
			Weekday: t.Weekday().String(),
			Events:  evs,
		})
	}
	return days, nil
}

func (svc *service) SetView(userID, year, month int) error {
	return svc.updateSnapshot(userID, func(s *Snapshot) {
		s.ViewYear = year
		s.ViewMonth = month
	})
}

func (svc *service) SetSelectedDate(userID int, date DateKey) error {
	return svc.updateSnapshot(userID, func(s *Snapshot) { s.SelectedDate = date })
}

func (svc *service) SetContextDate(userID int, date DateKey) error {
	return svc.updateSnapshot(userID, func(s *Snapshot) { s.ContextDate = date })
}

func (svc *service) updateSnapshot(userID int, fn func(s *Snapshot)) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	snap, err := LoadSnapshot(svc.store, userID)
	if err != nil {
		return err
	}
	fn(snap)
	return snap.Save(svc.store, userID)
}

// Holidays returns the holiday overlay for the year, fetching it when the
// cached year differs. A response that arrives after the year has changed
// again is discarded (generation check), so stale data never overwrites
// newer state. On fetch failure the map is cleared rather than kept stale.
func (svc *service) Holidays(ctx context.Context, year int) (map[DateKey]string, error) {
	svc.holMu.Lock()
	if svc.holidays != nil && svc.holYear == year {
		cached := svc.holidays
		svc.holMu.Unlock()
		return cached, nil
	}
	svc.holGen++
	gen := svc.holGen
	svc.holYear = year
	svc.holMu.Unlock()

	hols, err := svc.holidaySrc.Holidays(ctx, year)

	svc.holMu.Lock()
	defer svc.holMu.Unlock()
	if gen != svc.holGen {
		// superseded by a newer request; drop this response
		return svc.holidays, nil
	}
	if err != nil {
		svc.log.Error("fetching holidays", errors.Wrapf(err, "year %d", year))
		svc.holidays = map[DateKey]string{}
		return svc.holidays, nil
	}

	m := make(map[DateKey]string, len(hols))
	for _, h := range hols {
		m[h.Date] = h.Name
	}
	svc.holidays = m
	return m, nil
}

// Academic returns the academic-event overlay for (year, month, school),
// with the same replace-wholesale and stale-response rules as Holidays.
func (svc *service) Academic(ctx context.Context, year, month int, officeCode, schoolCode string) (map[DateKey][]string, error) {
	key := academicKey{year, month, officeCode, schoolCode}

	svc.acadMu.Lock()
	if svc.academic != nil && svc.acadKey == key {
		cached := svc.academic
		svc.acadMu.Unlock()
		return cached, nil
	}
	svc.acadGen++
	gen := svc.acadGen
	svc.acadKey = key
	svc.acadMu.Unlock()

	evs, err := svc.academicSrc.AcademicEvents(ctx, year, month, officeCode, schoolCode)

	svc.acadMu.Lock()
	defer svc.acadMu.Unlock()
	if gen != svc.acadGen {
		return svc.academic, nil
	}
	if err != nil {
		svc.log.Error("fetching academic events", errors.Wrapf(err, "%d-%02d %s/%s", year, month, officeCode, schoolCode))
		svc.academic = map[DateKey][]string{}
		return svc.academic, nil
	}

	m := make(map[DateKey][]string, len(evs))
	for _, ev := range evs {
		m[ev.Date] = append(m[ev.Date], ev.Title)
	}
	svc.academic = m
	return m, nil
}
