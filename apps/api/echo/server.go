package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assignment"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/content"
	"github.com/trezcool/shule/core/dashboard"
	"github.com/trezcool/shule/core/leave"
	"github.com/trezcool/shule/core/message"
	"github.com/trezcool/shule/core/user"
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool

		UsrSvc  *user.Service
		ClsSvc  *class.Service
		AsgSvc  *assignment.Service
		AttSvc  *attendance.Service
		LveSvc  *leave.Service
		MsgSvc  *message.Service
		CntSvc  *content.Service
		DashSvc *dashboard.Service

		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps       ServerDeps
		app        *echo.Echo
		errCh      chan error
		shutdownCh chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:       deps,
		app:        echo.New(),
		errCh:      make(chan error, 1),
		shutdownCh: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(metricsMiddleware())

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s)
	s.app.HideBanner = true
	s.app.Debug = conf.Debug

	s.app.GET("/", home)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.app.Group("/v1")
	jwt := ConfigureAuth(conf)

	registerUserAPI(v1, jwt, s.deps.UsrSvc, s.deps.Validate, s.deps.Translator)
	registerClassAPI(v1, jwt, s.deps.ClsSvc, s.deps.Validate)
	registerAssignmentAPI(v1, jwt, s.deps.AsgSvc, s.deps.Validate)
	registerAttendanceAPI(v1, jwt, s.deps.AttSvc, s.deps.Validate)
	registerLeaveAPI(v1, jwt, s.deps.LveSvc, s.deps.Validate)
	registerMessageAPI(v1, jwt, s.deps.MsgSvc, s.deps.Validate)
	registerContentAPI(v1, jwt, s.deps.CntSvc, s.deps.Validate)
	registerDashboardAPI(v1, jwt, s.deps.DashSvc)
}

func (s *server) Start() {
	signal.Notify(s.shutdownCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		s.errCh <- s.app.Start(s.deps.Conf.Server.Address)
	}()
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errCh
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdownCh
}

// signalShutdown triggers a graceful shutdown from within request handling.
func (s *server) signalShutdown() {
	s.shutdownCh <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Shule API!")
}
