package timetable_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolmate/backend/core/timetable"
	inmemdb "github.com/schoolmate/backend/storage/database/inmem"
)

func newSvc(t *testing.T) timetable.Service {
	t.Helper()
	db, err := inmemdb.Open()
	require.NoError(t, err)
	return timetable.NewService(inmemdb.NewTimetableRepository(db))
}

func TestSetAndGet(t *testing.T) {
	svc := newSvc(t)

	_, err := svc.Set(1, timetable.NewSlot{Weekday: 2, Period: 3, Subject: "수학", Teacher: "김선생", Room: "3-2"})
	require.NoError(t, err)
	_, err = svc.Set(1, timetable.NewSlot{Weekday: 1, Period: 1, Subject: "국어"})
	require.NoError(t, err)

	tt, err := svc.Get(1)
	require.NoError(t, err)
	require.Len(t, tt.Slots, 2)
	// ordered by weekday then period
	assert.Equal(t, "국어", tt.Slots[0].Subject)
	assert.Equal(t, "수학", tt.Slots[1].Subject)
}

func TestSetOverwritesCell(t *testing.T) {
	svc := newSvc(t)

	_, err := svc.Set(1, timetable.NewSlot{Weekday: 1, Period: 1, Subject: "국어"})
	require.NoError(t, err)
	_, err = svc.Set(1, timetable.NewSlot{Weekday: 1, Period: 1, Subject: "영어"})
	require.NoError(t, err)

	tt, err := svc.Get(1)
	require.NoError(t, err)
	require.Len(t, tt.Slots, 1)
	assert.Equal(t, "영어", tt.Slots[0].Subject)
}

func TestSetValidation(t *testing.T) {
	svc := newSvc(t)

	tests := []struct {
		name string
		ns   timetable.NewSlot
	}{
		{"weekday too high", timetable.NewSlot{Weekday: 6, Period: 1, Subject: "s"}},
		{"period too low", timetable.NewSlot{Weekday: 1, Period: 0, Subject: "s"}},
		{"missing subject", timetable.NewSlot{Weekday: 1, Period: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Set(1, tt.ns)
			assert.Error(t, err)
		})
	}
}

func TestClear(t *testing.T) {
	svc := newSvc(t)

	_, err := svc.Set(1, timetable.NewSlot{Weekday: 1, Period: 1, Subject: "국어"})
	require.NoError(t, err)

	assert.NoError(t, svc.Clear(1, 1, 1))
	assert.Equal(t, timetable.ErrSlotNotFound, errors.Cause(svc.Clear(1, 1, 1)))

	tt, err := svc.Get(1)
	require.NoError(t, err)
	assert.Empty(t, tt.Slots)
}

func TestClearAll(t *testing.T) {
	svc := newSvc(t)

	for p := 1; p <= 3; p++ {
		_, err := svc.Set(1, timetable.NewSlot{Weekday: 1, Period: p, Subject: "s"})
		require.NoError(t, err)
	}
	_, err := svc.Set(2, timetable.NewSlot{Weekday: 1, Period: 1, Subject: "other user"})
	require.NoError(t, err)

	require.NoError(t, svc.ClearAll(1))

	tt, err := svc.Get(1)
	require.NoError(t, err)
	assert.Empty(t, tt.Slots)

	tt, err = svc.Get(2)
	require.NoError(t, err)
	assert.Len(t, tt.Slots, 1)
}
