// Package session owns the current authenticated identity and its lifecycle:
// restore from storage, then login, register and logout, each written through to storage.
package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/smartgrade/smartgrade/core"
	"github.com/smartgrade/smartgrade/core/identity"
)

// StorageKey is the key the active identity is persisted under.
const StorageKey = "user"

var (
	ErrLoading              = errors.New("session is loading")
	ErrUnauthenticated      = errors.New("user not authenticated")
	ErrForbidden            = errors.New("permission denied")
	ErrAlreadyAuthenticated = errors.New("already authenticated")
)

type (
	Deps struct {
		Store     core.Store
		Directory identity.Directory
		Logger    core.Logger
		Notifier  core.Notifier // optional

		LoginLatency    time.Duration
		RegisterLatency time.Duration
		Sleep           core.SleepFunc   // optional, defaults to core.Sleep
		Now             func() time.Time // optional, defaults to time.Now
	}

	// State is a read-only snapshot of the session.
	State struct {
		Identity        *identity.Identity `json:"user"`
		Loading         bool               `json:"loading"`
		IsAuthenticated bool               `json:"is_authenticated"`
	}

	// Manager is the single writer of the active identity and its persisted copy.
	Manager struct {
		store    core.Store
		dir      identity.Directory
		logger   core.Logger
		notifier core.Notifier

		loginLatency    time.Duration
		registerLatency time.Duration
		sleep           core.SleepFunc
		now             func() time.Time

		mu       sync.RWMutex
		current  *identity.Identity
		restored bool
		inflight int
	}
)

// NewManager returns a Manager in the loading state; call Restore to finish initialization.
func NewManager(deps Deps) *Manager {
	m := &Manager{
		store:           deps.Store,
		dir:             deps.Directory,
		logger:          deps.Logger,
		notifier:        deps.Notifier,
		loginLatency:    deps.LoginLatency,
		registerLatency: deps.RegisterLatency,
		sleep:           deps.Sleep,
		now:             deps.Now,
	}
	if m.notifier == nil {
		m.notifier = core.NopNotifier
	}
	if m.sleep == nil {
		m.sleep = core.Sleep
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Restore rehydrates the active identity from storage. Absent or malformed data means no session.
// It never fails; the stored blob is left as is.
func (m *Manager) Restore(ctx context.Context) {
	ident, err := m.load(ctx)
	if err != nil && errors.Cause(err) != core.ErrKeyNotFound {
		m.logger.Warn("session not restored", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		m.current = &ident
	}
	m.restored = true
}

func (m *Manager) load(ctx context.Context) (identity.Identity, error) {
	data, err := m.store.Get(ctx, StorageKey)
	if err != nil {
		return identity.Identity{}, errors.Wrap(err, "reading stored session")
	}
	ident, err := identity.Unmarshal(data)
	if err != nil {
		return identity.Identity{}, errors.Wrap(err, "decoding stored session")
	}
	return ident, nil
}

// Login authenticates against the account directory and activates the matching identity.
// Wrong credentials return identity.ErrInvalidCredentials and leave the session unchanged.
func (m *Manager) Login(ctx context.Context, email, password string) (identity.Identity, error) {
	m.begin()
	defer m.end()

	if err := m.sleep(ctx, m.loginLatency); err != nil {
		return identity.Identity{}, err
	}

	ident, err := m.dir.Authenticate(email, password)
	if err != nil {
		if err == identity.ErrInvalidCredentials {
			m.notifier.Notify(core.NoticeError, "Invalid credentials")
			return identity.Identity{}, err
		}
		m.fail("Login failed. Please try again.", err)
		return identity.Identity{}, errors.Wrap(err, "authenticating")
	}

	if err := m.activate(ctx, ident); err != nil {
		m.fail("Login failed. Please try again.", err)
		return identity.Identity{}, err
	}
	m.notifier.Notify(core.NoticeSuccess, "Welcome back, "+string(ident.Role)+"!")
	return ident, nil
}

// Register activates a new identity built from ni. There is no uniqueness check and the password is not kept.
func (m *Manager) Register(ctx context.Context, ni identity.NewIdentity) (identity.Identity, error) {
	m.begin()
	defer m.end()

	if err := m.sleep(ctx, m.registerLatency); err != nil {
		return identity.Identity{}, err
	}

	// ms timestamp: two registrations within the same millisecond share an ID
	ident := identity.Identity{
		ID:    strconv.FormatInt(m.now().UnixNano()/int64(time.Millisecond), 10),
		Name:  ni.Name,
		Email: ni.Email,
		Role:  ni.Role,
	}
	if err := m.activate(ctx, ident); err != nil {
		m.fail("Registration failed. Please try again.", err)
		return identity.Identity{}, err
	}
	m.notifier.Notify(core.NoticeSuccess, "Registration successful!")
	return ident, nil
}

// Logout clears the active identity and its stored copy. The in-memory identity is cleared even if storage fails.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := m.store.Delete(ctx, StorageKey); err != nil {
		m.logger.Error("clearing stored session", err)
		return errors.Wrap(err, "clearing stored session")
	}
	m.notifier.Notify(core.NoticeInfo, "Logged out successfully")
	return nil
}

// activate persists ident first so a storage failure leaves the session untouched.
func (m *Manager) activate(ctx context.Context, ident identity.Identity) error {
	data, err := identity.Marshal(ident)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	if err = m.store.Set(ctx, StorageKey, data); err != nil {
		return errors.Wrap(err, "persisting session")
	}

	m.mu.Lock()
	m.current = &ident
	m.mu.Unlock()
	return nil
}

func (m *Manager) fail(notice string, err error) {
	m.logger.Error(notice, err)
	m.notifier.Notify(core.NoticeError, notice)
}

func (m *Manager) begin() {
	m.mu.Lock()
	m.inflight++
	m.mu.Unlock()
}

func (m *Manager) end() {
	m.mu.Lock()
	m.inflight--
	m.mu.Unlock()
}

// Current returns a copy of the active identity.
func (m *Manager) Current() (identity.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return identity.Identity{}, false
	}
	return *m.current, true
}

// IsAuthenticated is only meaningful once Loading returns false.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading()
}

func (m *Manager) loading() bool {
	return !m.restored || m.inflight > 0
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st := State{Loading: m.loading(), IsAuthenticated: m.current != nil}
	if m.current != nil {
		ident := *m.current
		st.Identity = &ident
	}
	return st
}
