package testutil

import (
	"context"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/smartgrade/smartgrade/core"
	"github.com/smartgrade/smartgrade/core/identity"
	"github.com/smartgrade/smartgrade/core/session"
	logsvc "github.com/smartgrade/smartgrade/services/logger"
	"github.com/smartgrade/smartgrade/services/notify"
	inmemdb "github.com/smartgrade/smartgrade/storage/inmem"
)

// NewValidator returns a validator with every custom tag registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	identity.InitValidators(validate, translator)
	return validate, translator
}

// NewSession returns a restored session Manager on an in-memory store, with no latency.
func NewSession(t *testing.T, store ...core.Store) (*session.Manager, *notify.Recorder) {
	t.Helper()

	var s core.Store = inmemdb.Open()
	if len(store) > 0 {
		s = store[0]
	}
	rec := notify.NewRecorder()
	mgr := session.NewManager(session.Deps{
		Store:     s,
		Directory: identity.NewDemoDirectory(),
		Logger:    logsvc.NewNopLogger(),
		Notifier:  rec,
		Sleep:     core.NoSleep,
	})
	mgr.Restore(context.Background())
	return mgr, rec
}

// Login logs a demo account in, failing the test otherwise.
func Login(t *testing.T, mgr *session.Manager, email string) identity.Identity {
	t.Helper()
	ident, err := mgr.Login(context.Background(), email, identity.DemoPassword)
	if err != nil {
		t.Fatalf("Login(%s) failed: %v", email, err)
	}
	return ident
}
