// Package inmemdb provides the in-memory storage backend: RWMutex-guarded
// maps standing in for the database, used by the dev server and tests.
package inmemdb

import (
	"sync"

	"github.com/schoolmate/backend/core/board"
	"github.com/schoolmate/backend/core/grade"
	"github.com/schoolmate/backend/core/timetable"
	"github.com/schoolmate/backend/core/user"
)

type (
	DB struct {
		user      *userTable
		exam      *examTable
		board     *boardTable
		timetable *timetableTable
		calendar  *calendarTable
	}

	userTable struct {
		sync.RWMutex
		table         map[int]*user.User
		verifications map[string]user.EmailVerification
	}

	examTable struct {
		sync.RWMutex
		table map[int]*grade.Exam
	}

	boardTable struct {
		sync.RWMutex
		posts    map[string]*board.Post
		comments map[string]*board.Comment
		votes    map[voteKey]struct{}
		scraps   map[voteKey]struct{}
	}

	voteKey struct {
		userID int
		postID string
	}

	timetableTable struct {
		sync.RWMutex
		slots map[int]map[slotKey]timetable.Slot
	}

	slotKey struct {
		weekday, period int
	}

	calendarTable struct {
		sync.RWMutex
		table map[int]map[string][]byte
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{
			table:         make(map[int]*user.User),
			verifications: make(map[string]user.EmailVerification),
		},
		exam: &examTable{table: make(map[int]*grade.Exam)},
		board: &boardTable{
			posts:    make(map[string]*board.Post),
			comments: make(map[string]*board.Comment),
			votes:    make(map[voteKey]struct{}),
			scraps:   make(map[voteKey]struct{}),
		},
		timetable: &timetableTable{slots: make(map[int]map[slotKey]timetable.Slot)},
		calendar:  &calendarTable{table: make(map[int]map[string][]byte)},
	}
	return db, nil
}
