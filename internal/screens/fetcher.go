package screens

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vulnbank/bankshell/internal/api"
	"github.com/vulnbank/bankshell/internal/navigation"
	"github.com/vulnbank/bankshell/internal/session"
)

// Renderer receives the data a screen fetched for itself. Implemented by
// the shell.
type Renderer interface {
	ShowTransactions(transactions []api.Transaction)
	ShowBalance(accountNumber string, balance float64)
	ShowCards(cards []api.VirtualCard)
	ShowBillCategories(categories []api.BillCategory)
	ShowProfile(s session.Session)
	ShowFetchError(screen navigation.Screen, message string)
}

// sessionSource hands out the current session snapshot.
type sessionSource interface {
	Current() session.Session
}

// screenAPI is the slice of the API client the screen fetches need.
type screenAPI interface {
	Transactions(ctx context.Context, token, accountNumber string) ([]api.Transaction, error)
	Balance(ctx context.Context, token, accountNumber string) (float64, error)
	VirtualCards(ctx context.Context, token string) ([]api.VirtualCard, error)
	BillCategories(ctx context.Context, token string) ([]api.BillCategory, error)
}

// Fetcher runs each screen's data fetch when the navigator enters it.
// Every fetch is a function of the current (token, accountNumber) only.
// Entering a new screen cancels the previous screen's in-flight fetch, so
// a slow stale response can never overwrite the screen the user actually
// looks at.
type Fetcher struct {
	api      screenAPI
	sessions sessionSource
	renderer Renderer

	mu         sync.Mutex
	cancelPrev context.CancelFunc
	wg         sync.WaitGroup
}

func NewFetcher(screenAPI screenAPI, sessions sessionSource, renderer Renderer) *Fetcher {
	return &Fetcher{
		api:      screenAPI,
		sessions: sessions,
		renderer: renderer,
	}
}

// ScreenEntered is the navigation.Listener hook.
func (f *Fetcher) ScreenEntered(screen navigation.Screen) {
	spec, ok := navigation.Spec(screen)
	if !ok || !spec.NeedsToken {
		return
	}

	sess := f.sessions.Current()
	if !sess.Authenticated() {
		return
	}

	f.mu.Lock()
	if f.cancelPrev != nil {
		f.cancelPrev()
	}
	ctx, cancel := context.WithCancel(context.Background())
	f.cancelPrev = cancel
	f.wg.Add(1)
	f.mu.Unlock()

	go func() {
		defer f.wg.Done()
		f.fetch(ctx, screen, sess)
	}()
}

// Wait blocks until the in-flight fetch (if any) finished. Used by the
// shell before rendering the prompt, and by tests.
func (f *Fetcher) Wait() {
	f.wg.Wait()
}

func (f *Fetcher) fetch(ctx context.Context, screen navigation.Screen, sess session.Session) {
	switch screen {
	case navigation.ScreenTransactions:
		transactions, err := f.api.Transactions(ctx, sess.Token, sess.AccountNumber)
		if f.failed(ctx, screen, err) {
			return
		}
		f.renderer.ShowTransactions(transactions)
	case navigation.ScreenBalance:
		balance, err := f.api.Balance(ctx, sess.Token, sess.AccountNumber)
		if f.failed(ctx, screen, err) {
			return
		}
		f.renderer.ShowBalance(sess.AccountNumber, balance)
	case navigation.ScreenCards:
		cards, err := f.api.VirtualCards(ctx, sess.Token)
		if f.failed(ctx, screen, err) {
			return
		}
		f.renderer.ShowCards(cards)
	case navigation.ScreenBills:
		categories, err := f.api.BillCategories(ctx, sess.Token)
		if f.failed(ctx, screen, err) {
			return
		}
		f.renderer.ShowBillCategories(categories)
	case navigation.ScreenProfile:
		f.renderer.ShowProfile(sess)
	default:
		// dashboard, transfer, loans and admin are form screens,
		// nothing to fetch on entry
	}
}

// failed handles a fetch error, swallowing results of cancelled fetches.
func (f *Fetcher) failed(ctx context.Context, screen navigation.Screen, err error) bool {
	if err == nil {
		return ctx.Err() != nil
	}
	if ctx.Err() != nil {
		log.Tracef("fetch for %s screen cancelled", screen)
		return true
	}
	log.Errorf("fetch data for %s screen: %s", screen, err)
	f.renderer.ShowFetchError(screen, api.UserMessage(err, "failed to load data"))
	return true
}
