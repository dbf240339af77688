package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/schoolmate/backend/core"
	"github.com/schoolmate/backend/core/board"
	"github.com/schoolmate/backend/core/grade"
	"github.com/schoolmate/backend/core/schedule"
	"github.com/schoolmate/backend/core/timetable"
	"github.com/schoolmate/backend/core/user"
	bookssvc "github.com/schoolmate/backend/services/books"
	neissvc "github.com/schoolmate/backend/services/neis"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool

		Conf   *core.Config
		Logger core.Logger

		UserSvc      user.Service
		ScheduleSvc  schedule.Service
		GradeSvc     grade.Service
		BoardSvc     board.Service
		TimetableSvc timetable.Service

		Neis  *neissvc.Client
		Books *bookssvc.Client
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
		ShutdownSignal() <-chan struct{}
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan struct{}),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf
	initJWTConfig(conf)
	initOAuthProviders(conf)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerCalendarAPI(v1, jwt, s.opts.ScheduleSvc, s.opts.UserSvc)
	registerScoreAPI(v1, jwt, s.opts.GradeSvc)
	registerBoardAPI(v1, jwt, s.opts.BoardSvc, s.opts.UserSvc)
	registerTimetableAPI(v1, jwt, s.opts.TimetableSvc)
	registerSchoolAPI(v1, jwt, s.opts.Neis, s.opts.UserSvc)
	registerBookAPI(v1, jwt, s.opts.Books, s.opts.UserSvc)
	registerHomeAPI(v1, jwt, s.opts.ScheduleSvc, s.opts.TimetableSvc, s.opts.UserSvc, s.opts.Neis)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Addr))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

// ShutdownSignal is closed when a handler reports an unrecoverable error.
func (s *server) ShutdownSignal() <-chan struct{} {
	return s.shutdown
}

func (s *server) signalShutdown() {
	select {
	case <-s.shutdown:
	default:
		close(s.shutdown)
	}
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to SchoolMate API!")
}
