package dig_container

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/smartgrade/smartgrade/apps/api/echo"
	"github.com/smartgrade/smartgrade/core"
	"github.com/smartgrade/smartgrade/core/evaluation"
	"github.com/smartgrade/smartgrade/core/identity"
	"github.com/smartgrade/smartgrade/core/presentation"
	"github.com/smartgrade/smartgrade/core/session"
	"github.com/smartgrade/smartgrade/services/gemini"
	logsvc "github.com/smartgrade/smartgrade/services/logger"
	"github.com/smartgrade/smartgrade/services/notify"
	boltdb "github.com/smartgrade/smartgrade/storage/bolt"
	"github.com/smartgrade/smartgrade/storage/database"
	inmemdb "github.com/smartgrade/smartgrade/storage/inmem"
)

type StoreLoggerParam struct {
	dig.In
	Logger core.Logger `name:"storeLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStoreLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "STORE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

// NewStore opens the session store selected by conf.Session.Storage.
func NewStore(conf *core.Config, loggerParam StoreLoggerParam) (core.Store, error) {
	logger := loggerParam.Logger

	switch conf.Session.Storage {
	case core.StorageMemory:
		logger.Warn("session storage is in memory: sessions will not survive restarts")
		return inmemdb.Open(), nil
	case core.StorageBolt:
		return boltdb.Open(conf.Session.BoltPath)
	case core.StoragePostgres:
		ctx := context.Background()
		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			return nil, err
		}
		db, err := database.Open(ctx, conf)
		if err != nil {
			return nil, err
		}
		if err = database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return database.NewStore(db), nil
	default:
		return nil, errors.Errorf("unknown session storage %q", conf.Session.Storage)
	}
}

func newSession(conf *core.Config, store core.Store, dir identity.Directory, logger core.Logger) *session.Manager {
	return session.NewManager(session.Deps{
		Store:           store,
		Directory:       dir,
		Logger:          logger,
		Notifier:        notify.NewLogNotifier(logger),
		LoginLatency:    conf.Latency.Login,
		RegisterLatency: conf.Latency.Register,
	})
}

// NewEvaluator returns the essay evaluator selected by conf.Evaluator.
func NewEvaluator(conf *core.Config, logger core.Logger) (evaluation.Evaluator, error) {
	switch conf.Evaluator {
	case core.EvaluatorMock:
		return evaluation.NewMockEvaluator(evaluation.MockConfig{Latency: conf.Latency.Grading}), nil
	case core.EvaluatorGemini:
		return gemini.NewEvaluator(context.Background(), conf.Gemini, logger)
	default:
		return nil, errors.Errorf("unknown evaluator %q", conf.Evaluator)
	}
}

func newGenerator(conf *core.Config) *presentation.Generator {
	return presentation.NewGenerator(presentation.Config{Latency: conf.Latency.Presentation})
}

func newServerDeps(
	conf *core.Config,
	logger core.Logger,
	mgr *session.Manager,
	grading *evaluation.Service,
	catalog *evaluation.Catalog,
	gen *presentation.Generator,
	validate *validator.Validate,
) echoapi.ServerDeps {
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	identity.InitValidators(validate, translator)

	return echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		Session:       mgr,
		Grading:       grading,
		Catalog:       catalog,
		Presentations: gen,
		Validate:      validate,
		Translator:    translator,
	}
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newStoreLogger, dig.Name("storeLogger")))
	must(c.Provide(NewStore))
	must(c.Provide(identity.NewDemoDirectory, dig.As(new(identity.Directory))))
	must(c.Provide(newSession))
	must(c.Provide(NewEvaluator))
	must(c.Provide(evaluation.NewService))
	must(c.Provide(evaluation.DefaultCatalog))
	must(c.Provide(newGenerator))
	must(c.Provide(validator.New))
	must(c.Provide(newServerDeps))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
