package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vulnbank/bankshell/internal/api"
	"github.com/vulnbank/bankshell/internal/navigation"
	"github.com/vulnbank/bankshell/internal/tokenstore"
)

// Notifier delivers one-shot user-facing messages (the Alert of the
// mobile client). Implemented by the shell.
type Notifier interface {
	Notify(title, message string)
}

// bankAPI is the slice of the API client the session manager needs.
type bankAPI interface {
	Login(ctx context.Context, username, password string) (*api.LoginResult, error)
	Register(ctx context.Context, username, password string) (string, error)
}

// Manager owns the in-memory session and drives the login, register,
// logout and resume transitions. Every write replaces or clears the whole
// Session under one lock hold, so concurrent observers never see a torn
// session.
type Manager struct {
	mu       sync.Mutex
	session  Session
	store    tokenstore.Store
	api      bankAPI
	nav      *navigation.Navigator
	notifier Notifier
}

var _ navigation.Authorizer = (*Manager)(nil)

func NewManager(store tokenstore.Store, bankAPI bankAPI, notifier Notifier) *Manager {
	return &Manager{
		store:    store,
		api:      bankAPI,
		notifier: notifier,
	}
}

// AttachNavigator wires the navigator in after construction; the manager
// authorizes the navigator's transitions and the navigator executes the
// manager's, so neither can be built first with the other in hand.
func (m *Manager) AttachNavigator(nav *navigation.Navigator) {
	m.nav = nav
}

// Current returns a copy of the session.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

func (m *Manager) Authenticated() bool {
	return m.Current().Authenticated()
}

func (m *Manager) IsAdmin() bool {
	return m.Current().IsAdmin
}

// Resume restores a previously persisted session: a single store read, no
// retries. A found token lands on the dashboard; anything else leaves the
// empty session on the welcome screen.
func (m *Manager) Resume(ctx context.Context) {
	token, err := m.store.Get(ctx)
	if err != nil {
		if !errors.Is(err, tokenstore.ErrNoToken) {
			log.Errorf("resume session: %s", err)
		}
		return
	}
	if token == "" {
		return
	}

	// username is not persisted, so a resumed session is never admin
	m.mu.Lock()
	m.session = Session{
		Token:         token,
		AccountNumber: FallbackAccountNumber,
	}
	m.mu.Unlock()

	log.Debugf("session resumed from stored token")
	m.nav.EnterDashboard()
}

// Login authenticates against the banking API. On success the whole
// session is replaced, the token is persisted and the navigator lands on
// the dashboard. On any failure the prior session is left untouched and
// the user gets a one-shot notification.
func (m *Manager) Login(ctx context.Context, username, password string) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		m.notifier.Notify("Login Failed", "username and password must not be empty")
		return
	}

	result, err := m.api.Login(ctx, username, password)
	if err != nil {
		m.notifier.Notify("Login Failed", api.UserMessage(err, "No token returned"))
		return
	}
	if result.Token == "" {
		m.notifier.Notify("Login Failed", "No token returned")
		return
	}

	accountNumber := result.AccountNumber
	if accountNumber == "" {
		accountNumber = FallbackAccountNumber
	}

	m.mu.Lock()
	m.session = Session{
		Token:         result.Token,
		Username:      username,
		IsAdmin:       isAdminUsername(username),
		AccountNumber: accountNumber,
	}
	m.mu.Unlock()

	// the in-memory login stands even when persisting the token fails;
	// the session then simply does not survive a restart
	if err := m.store.Set(ctx, result.Token); err != nil {
		log.Errorf("persist session token: %s", err)
		m.notifier.Notify("Login Failed", "failed to save the session")
	}

	log.Debugf("user %s logged in", username)
	m.nav.EnterDashboard()
}

// Register creates an account. Registration never authenticates: success
// sends the user to the login screen, and the session is never touched.
func (m *Manager) Register(ctx context.Context, username, password string) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		m.notifier.Notify("Registration Failed", "username and password must not be empty")
		return
	}

	message, err := m.api.Register(ctx, username, password)
	if err != nil {
		m.notifier.Notify("Registration Failed", api.UserMessage(err, "Registration failed"))
		return
	}

	if message == "" {
		message = "Registration successful, please log in"
	}
	m.notifier.Notify("Registered", message)
	m.nav.ShowLogin()
}

// Logout always succeeds from the user's perspective: the persisted token
// removal is best-effort, the session is cleared as a whole, and the
// navigator returns to login with the menu closed.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.store.Remove(ctx); err != nil {
		log.Errorf("remove persisted session token: %s", err)
	}

	m.mu.Lock()
	m.session = Session{}
	m.mu.Unlock()

	log.Debugf("user logged out")
	m.nav.Reset()
}
