package navigation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulnbank/bankshell/internal/navigation"
)

type fakeAuth struct {
	authenticated bool
	admin         bool
}

func (a *fakeAuth) Authenticated() bool { return a.authenticated }
func (a *fakeAuth) IsAdmin() bool       { return a.admin }

func TestNavigator_InitialState(t *testing.T) {
	nav := navigation.NewNavigator(&fakeAuth{})
	screen, menuVisible := nav.Current()
	assert.Equal(t, navigation.ScreenWelcome, screen)
	assert.False(t, menuVisible)
}

func TestNavigator_WelcomeToLoginAndRegister(t *testing.T) {
	nav := navigation.NewNavigator(&fakeAuth{})

	nav.ShowLogin()
	screen, _ := nav.Current()
	assert.Equal(t, navigation.ScreenLogin, screen)

	// login <-> register, both directions
	nav.ShowRegister()
	screen, _ = nav.Current()
	assert.Equal(t, navigation.ScreenRegister, screen)
	nav.ShowLogin()
	screen, _ = nav.Current()
	assert.Equal(t, navigation.ScreenLogin, screen)
}

func TestNavigator_AuthGuard(t *testing.T) {
	auth := &fakeAuth{}
	nav := navigation.NewNavigator(auth)
	nav.ShowLogin()

	// no session: every authenticated screen is unreachable
	for _, target := range []navigation.Screen{
		navigation.ScreenDashboard,
		navigation.ScreenBalance,
		navigation.ScreenTransfer,
		navigation.ScreenProfile,
		navigation.ScreenTransactions,
		navigation.ScreenLoans,
		navigation.ScreenCards,
		navigation.ScreenBills,
		navigation.ScreenAdmin,
	} {
		nav.NavigateTo(target)
		screen, _ := nav.Current()
		assert.Equal(t, navigation.ScreenLogin, screen, "navigating to %s without a session", target)
	}

	// and the menu cannot be opened
	nav.OpenMenu()
	_, menuVisible := nav.Current()
	assert.False(t, menuVisible)
}

func TestNavigator_AdminGate(t *testing.T) {
	auth := &fakeAuth{authenticated: true}
	nav := navigation.NewNavigator(auth)
	nav.EnterDashboard()

	// not an admin: silent no-op, no error surfaced
	nav.NavigateTo(navigation.ScreenAdmin)
	screen, _ := nav.Current()
	assert.Equal(t, navigation.ScreenDashboard, screen)

	auth.admin = true
	nav.NavigateTo(navigation.ScreenAdmin)
	screen, _ = nav.Current()
	assert.Equal(t, navigation.ScreenAdmin, screen)
}

func TestNavigator_MenuSelection_Atomic(t *testing.T) {
	nav := navigation.NewNavigator(&fakeAuth{authenticated: true})
	nav.EnterDashboard()

	nav.OpenMenu()
	_, menuVisible := nav.Current()
	require.True(t, menuVisible)

	nav.SelectFromMenu(navigation.ScreenTransfer)
	screen, menuVisible := nav.Current()
	assert.Equal(t, navigation.ScreenTransfer, screen)
	assert.False(t, menuVisible)
}

func TestNavigator_SameScreenIdempotent(t *testing.T) {
	nav := navigation.NewNavigator(&fakeAuth{authenticated: true})

	var entered []navigation.Screen
	nav.SetListener(func(s navigation.Screen) {
		entered = append(entered, s)
	})

	nav.EnterDashboard()
	nav.NavigateTo(navigation.ScreenBalance)
	require.Equal(t, []navigation.Screen{navigation.ScreenDashboard, navigation.ScreenBalance}, entered)

	// navigating to the current screen: no new entry, but an open menu closes
	nav.OpenMenu()
	nav.NavigateTo(navigation.ScreenBalance)
	screen, menuVisible := nav.Current()
	assert.Equal(t, navigation.ScreenBalance, screen)
	assert.False(t, menuVisible)
	assert.Len(t, entered, 2)
}

func TestNavigator_Back(t *testing.T) {
	nav := navigation.NewNavigator(&fakeAuth{authenticated: true})

	// back before login does nothing
	nav.ShowLogin()
	nav.Back()
	screen, _ := nav.Current()
	assert.Equal(t, navigation.ScreenLogin, screen)

	nav.EnterDashboard()
	nav.NavigateTo(navigation.ScreenCards)
	nav.Back()
	screen, _ = nav.Current()
	assert.Equal(t, navigation.ScreenDashboard, screen)
}

func TestNavigator_Reset(t *testing.T) {
	nav := navigation.NewNavigator(&fakeAuth{authenticated: true})
	nav.EnterDashboard()
	nav.NavigateTo(navigation.ScreenBills)
	nav.OpenMenu()

	nav.Reset()
	screen, menuVisible := nav.Current()
	assert.Equal(t, navigation.ScreenLogin, screen)
	assert.False(t, menuVisible)
}

// menuVisible must never be observed on an unauthenticated screen, no
// matter the event order.
func TestNavigator_MenuNeverOnUnauthenticatedScreens(t *testing.T) {
	auth := &fakeAuth{authenticated: true, admin: true}
	nav := navigation.NewNavigator(auth)

	events := []func(){
		func() { nav.ShowLogin() },
		func() { nav.OpenMenu() },
		func() { nav.ShowRegister() },
		func() { nav.OpenMenu() },
		func() { nav.EnterDashboard() },
		func() { nav.OpenMenu() },
		func() { nav.SelectFromMenu(navigation.ScreenTransactions) },
		func() { nav.OpenMenu() },
		func() { nav.Reset() },
		func() { nav.OpenMenu() },
	}

	unauthenticated := map[navigation.Screen]bool{
		navigation.ScreenWelcome:  true,
		navigation.ScreenLogin:    true,
		navigation.ScreenRegister: true,
	}
	for i, event := range events {
		event()
		screen, menuVisible := nav.Current()
		if unauthenticated[screen] {
			assert.False(t, menuVisible, "after event %d on screen %s", i, screen)
		}
	}
}
