package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/smartgrade/smartgrade/core"
	"github.com/smartgrade/smartgrade/core/evaluation"
	"github.com/smartgrade/smartgrade/core/identity"
	"github.com/smartgrade/smartgrade/core/session"
	logsvc "github.com/smartgrade/smartgrade/services/logger"
	"github.com/smartgrade/smartgrade/services/notify"
	boltdb "github.com/smartgrade/smartgrade/storage/bolt"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stderr, "SMARTGRADE : ", 0)

	conf := core.NewConfig()
	appLogger := logsvc.NewConsoleLogger(logger, conf.Debug)

	// the session survives between invocations
	store, err := boltdb.Open(conf.Session.BoltPath)
	errAndDie(err)

	notices := notify.NewRecorder()
	mgr := session.NewManager(session.Deps{
		Store:           store,
		Directory:       identity.NewDemoDirectory(),
		Logger:          appLogger,
		Notifier:        notices,
		LoginLatency:    conf.Latency.Login,
		RegisterLatency: conf.Latency.Register,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	mgr.Restore(ctx)

	cli := commandLine{
		mgr:     mgr,
		grading: evaluation.NewService(evaluation.NewMockEvaluator(evaluation.MockConfig{Latency: conf.Latency.Grading}), appLogger),
		catalog: evaluation.MustDefaultCatalog(),
		notices: notices,
		out:     os.Stdout,
	}
	err = cli.run(ctx, os.Args)
	stop()
	_ = store.Close()

	if err != nil {
		if err != errHelp {
			logger.Printf("error: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
