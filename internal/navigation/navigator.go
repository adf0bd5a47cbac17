package navigation

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Authorizer tells the navigator whether the current session may reach
// guarded screens. Implemented by the session manager.
type Authorizer interface {
	Authenticated() bool
	IsAdmin() bool
}

// Listener gets invoked after the navigator lands on a new screen, so
// screens can fetch their own data lazily. Called outside the navigator
// lock, on the goroutine that triggered the transition.
type Listener func(screen Screen)

// Navigator owns the currently visible screen and the menu overlay flag.
// All mutations go through its methods and are serialized behind a mutex.
type Navigator struct {
	mu          sync.Mutex
	screen      Screen
	menuVisible bool
	auth        Authorizer
	listener    Listener
}

func NewNavigator(auth Authorizer) *Navigator {
	return &Navigator{
		screen: ScreenWelcome,
		auth:   auth,
	}
}

func (n *Navigator) SetListener(l Listener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listener = l
}

// Current returns the visible screen and whether the menu overlay is open.
func (n *Navigator) Current() (Screen, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.screen, n.menuVisible
}

// ShowLogin moves to the login screen from welcome or register.
func (n *Navigator) ShowLogin() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.screen != ScreenWelcome && n.screen != ScreenRegister {
		return
	}
	n.screen = ScreenLogin
}

// ShowRegister moves to the register screen from welcome or login.
func (n *Navigator) ShowRegister() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.screen != ScreenWelcome && n.screen != ScreenLogin {
		return
	}
	n.screen = ScreenRegister
}

// EnterDashboard lands on the dashboard with the menu closed. Invoked by
// the session manager on successful login and on session resume.
func (n *Navigator) EnterDashboard() {
	n.transitionTo(ScreenDashboard)
}

// NavigateTo moves to an authenticated screen, via the dashboard grid or
// the menu. Transitions to unknown tags, to unauthenticated-only screens,
// from an unauthenticated state, or to the admin panel without admin
// rights are silent no-ops. Navigating to the current screen only closes
// the menu.
func (n *Navigator) NavigateTo(s Screen) {
	spec, ok := Spec(s)
	if !ok {
		log.Warnf("navigate to unknown screen %q rejected", s)
		return
	}
	if !spec.RequiresAuth {
		// welcome/login/register are reachable only through
		// ShowLogin, ShowRegister and Reset
		return
	}
	if !n.auth.Authenticated() {
		log.Debugf("navigate to %s rejected, no active session", s)
		return
	}
	if spec.AdminOnly && !n.auth.IsAdmin() {
		log.Debugf("navigate to %s rejected, not an admin", s)
		return
	}
	n.transitionTo(s)
}

// Back returns to the dashboard from any authenticated screen.
func (n *Navigator) Back() {
	n.mu.Lock()
	spec, ok := Spec(n.screen)
	n.mu.Unlock()
	if !ok || !spec.RequiresAuth {
		return
	}
	n.transitionTo(ScreenDashboard)
}

// OpenMenu shows the menu overlay. Permitted only on authenticated screens.
func (n *Navigator) OpenMenu() {
	n.mu.Lock()
	defer n.mu.Unlock()
	spec, ok := Spec(n.screen)
	if !ok || !spec.RequiresAuth {
		return
	}
	n.menuVisible = true
}

func (n *Navigator) CloseMenu() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.menuVisible = false
}

// SelectFromMenu performs the menu item's transition and closes the menu
// in one step. Both fields change under the same lock hold, so observers
// never see the menu open over the new screen.
func (n *Navigator) SelectFromMenu(s Screen) {
	n.NavigateTo(s)
}

// Reset puts the navigator back on the login screen with the menu closed.
// Invoked by the session manager on logout.
func (n *Navigator) Reset() {
	n.mu.Lock()
	n.screen = ScreenLogin
	n.menuVisible = false
	n.mu.Unlock()
}

func (n *Navigator) transitionTo(s Screen) {
	n.mu.Lock()
	sameScreen := n.screen == s
	n.screen = s
	n.menuVisible = false
	listener := n.listener
	n.mu.Unlock()

	if sameScreen {
		return
	}
	if listener != nil {
		listener(s)
	}
}
