package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assignment"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/content"
	"github.com/trezcool/shule/core/dashboard"
	"github.com/trezcool/shule/core/leave"
	"github.com/trezcool/shule/core/message"
	"github.com/trezcool/shule/core/user"
	emailsvc "github.com/trezcool/shule/services/email"
	logsvc "github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/storage/cache"
	"github.com/trezcool/shule/storage/database"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("failed to close DB", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrRepo := database.NewUserRepository(db)
	clsRepo := database.NewClassRepository(db)
	asgRepo := database.NewAssignmentRepository(db)
	attRepo := database.NewAttendanceRepository(db)
	lveRepo := database.NewLeaveRepository(db)
	msgRepo := database.NewMessageRepository(db)
	cntRepo := database.NewContentRepository(db)

	var statsCache dashboard.Cache
	if conf.Redis.URL != "" {
		if statsCache, err = cache.NewStatsCache(conf, logger); err != nil {
			logger.Error(fmt.Sprintf("setting up stats cache: %v", err), err)
			statsCache = nil // run without the cache
		}
	}

	usrSvc := user.NewService(usrRepo)
	clsSvc := class.NewService(clsRepo, usrRepo)
	asgSvc := assignment.NewService(asgRepo, clsSvc)
	attSvc := attendance.NewService(attRepo, clsSvc)
	lveSvc := leave.NewService(lveRepo, usrRepo, mailSvc)
	msgSvc := message.NewService(msgRepo, usrRepo, clsSvc, mailSvc)
	cntSvc := content.NewService(cntRepo)
	dashSvc := dashboard.NewService(usrRepo, clsRepo, asgRepo, attRepo, lveRepo, msgRepo, statsCache)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			UsrSvc:     usrSvc,
			ClsSvc:     clsSvc,
			AsgSvc:     asgSvc,
			AttSvc:     attSvc,
			LveSvc:     lveSvc,
			MsgSvc:     msgSvc,
			CntSvc:     cntSvc,
			DashSvc:    dashSvc,
			Validate:   validate,
			Translator: translator,
		},
	)
	server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
