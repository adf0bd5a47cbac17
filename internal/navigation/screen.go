package navigation

import "fmt"

// Screen is one of the fixed set of views the client can show. Values
// outside the set are rejected by ParseScreen and by the Navigator.
type Screen string

const (
	ScreenWelcome      Screen = "welcome"
	ScreenLogin        Screen = "login"
	ScreenRegister     Screen = "register"
	ScreenDashboard    Screen = "dashboard"
	ScreenBalance      Screen = "balance"
	ScreenTransfer     Screen = "transfer"
	ScreenProfile      Screen = "profile"
	ScreenTransactions Screen = "transactions"
	ScreenLoans        Screen = "loans"
	ScreenCards        Screen = "cards"
	ScreenBills        Screen = "bills"
	ScreenAdmin        Screen = "admin"
)

// ScreenSpec says what a screen requires from the session before it can
// be shown, and which session fields its data fetch consumes.
type ScreenSpec struct {
	RequiresAuth       bool
	AdminOnly          bool
	NeedsToken         bool
	NeedsAccountNumber bool
}

var screenRegistry = map[Screen]ScreenSpec{
	ScreenWelcome:  {},
	ScreenLogin:    {},
	ScreenRegister: {},
	ScreenDashboard: {
		RequiresAuth: true,
		NeedsToken:   true,
	},
	ScreenBalance: {
		RequiresAuth:       true,
		NeedsToken:         true,
		NeedsAccountNumber: true,
	},
	ScreenTransfer: {
		RequiresAuth:       true,
		NeedsToken:         true,
		NeedsAccountNumber: true,
	},
	ScreenProfile: {
		RequiresAuth: true,
		NeedsToken:   true,
	},
	ScreenTransactions: {
		RequiresAuth:       true,
		NeedsToken:         true,
		NeedsAccountNumber: true,
	},
	ScreenLoans: {
		RequiresAuth: true,
		NeedsToken:   true,
	},
	ScreenCards: {
		RequiresAuth: true,
		NeedsToken:   true,
	},
	ScreenBills: {
		RequiresAuth: true,
		NeedsToken:   true,
	},
	ScreenAdmin: {
		RequiresAuth: true,
		AdminOnly:    true,
		NeedsToken:   true,
	},
}

// menuScreens are the entries of the side menu, in display order. Admin
// panel is appended only for admin sessions.
var menuScreens = []Screen{
	ScreenProfile,
	ScreenTransfer,
	ScreenLoans,
	ScreenTransactions,
	ScreenCards,
	ScreenBills,
	ScreenBalance,
}

// Spec returns the registry entry for the given screen.
func Spec(s Screen) (ScreenSpec, bool) {
	spec, ok := screenRegistry[s]
	return spec, ok
}

// MenuScreens returns the side menu entries for a regular or admin session.
func MenuScreens(isAdmin bool) []Screen {
	entries := make([]Screen, len(menuScreens))
	copy(entries, menuScreens)
	if isAdmin {
		entries = append(entries, ScreenAdmin)
	}
	return entries
}

// ParseScreen converts a raw string to a Screen, rejecting unknown tags.
func ParseScreen(raw string) (Screen, error) {
	s := Screen(raw)
	if _, ok := screenRegistry[s]; !ok {
		return "", fmt.Errorf("unknown screen: %s", raw)
	}
	return s, nil
}
