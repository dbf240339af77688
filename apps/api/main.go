package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/schoolmate/backend/apps/api/echo"
	"github.com/schoolmate/backend/core"
	"github.com/schoolmate/backend/core/board"
	"github.com/schoolmate/backend/core/grade"
	"github.com/schoolmate/backend/core/schedule"
	"github.com/schoolmate/backend/core/timetable"
	"github.com/schoolmate/backend/core/user"
	bookssvc "github.com/schoolmate/backend/services/books"
	emailsvc "github.com/schoolmate/backend/services/email"
	holidaysvc "github.com/schoolmate/backend/services/holiday"
	logsvc "github.com/schoolmate/backend/services/logger"
	neissvc "github.com/schoolmate/backend/services/neis"
	"github.com/schoolmate/backend/storage/database"
	sqlxrepos "github.com/schoolmate/backend/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig(core.Getwd())
	errAndDie(std, err)

	logger := logsvc.NewRollbarLogger(std, conf)

	// set up DB
	errAndDie(std, database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(std, err)
	defer db.Close()
	errAndDie(std, database.Migrate(db))

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	neisClient := neissvc.NewClient(conf.Neis)
	holidayClient := holidaysvc.NewClient(conf.Holiday)
	booksClient := bookssvc.NewClient(conf.Books)

	usrSvc := user.NewService(conf, sqlxrepos.NewUserRepository(db), mailSvc)
	scheduleSvc := schedule.NewService(sqlxrepos.NewCalendarStore(db), holidayClient, neisClient, logger)
	gradeSvc := grade.NewService(sqlxrepos.NewExamRepository(db))
	boardSvc := board.NewService(sqlxrepos.NewBoardRepository(db))
	timetableSvc := timetable.NewService(sqlxrepos.NewTimetableRepository(db))

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:   conf.Server.Address(),
			Conf:   conf,
			Logger: logger,

			UserSvc:      usrSvc,
			ScheduleSvc:  scheduleSvc,
			GradeSvc:     gradeSvc,
			BoardSvc:     boardSvc,
			TimetableSvc: timetableSvc,

			Neis:  neisClient,
			Books: booksClient,
		},
	)
	go app.Start()

	// block until a termination signal or an unrecoverable handler error,
	// then drain in-flight requests before exiting
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutdown started", map[string]interface{}{"signal": sig.String()})
	case <-app.ShutdownSignal():
		logger.Error("integrity issue: shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		logger.Error("graceful shutdown failed", err)
	}
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
