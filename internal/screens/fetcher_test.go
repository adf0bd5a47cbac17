package screens

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulnbank/bankshell/internal/api"
	"github.com/vulnbank/bankshell/internal/navigation"
	"github.com/vulnbank/bankshell/internal/session"
)

type fakeSessions struct {
	session session.Session
}

func (f *fakeSessions) Current() session.Session { return f.session }

type rendererRecorder struct {
	mu           sync.Mutex
	transactions [][]api.Transaction
	balances     []float64
	cards        [][]api.VirtualCard
	categories   [][]api.BillCategory
	profiles     []session.Session
	fetchErrors  []string
}

func (r *rendererRecorder) ShowTransactions(transactions []api.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = append(r.transactions, transactions)
}

func (r *rendererRecorder) ShowBalance(_ string, balance float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances = append(r.balances, balance)
}

func (r *rendererRecorder) ShowCards(cards []api.VirtualCard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards = append(r.cards, cards)
}

func (r *rendererRecorder) ShowBillCategories(categories []api.BillCategory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories = append(r.categories, categories)
}

func (r *rendererRecorder) ShowProfile(s session.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles = append(r.profiles, s)
}

func (r *rendererRecorder) ShowFetchError(_ navigation.Screen, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchErrors = append(r.fetchErrors, message)
}

type fakeScreenAPI struct {
	transactions    []api.Transaction
	transactionsErr error
	// when set, Transactions blocks until the context is done
	transactionsBlock bool
	balance           float64
}

func (f *fakeScreenAPI) Transactions(ctx context.Context, token, accountNumber string) ([]api.Transaction, error) {
	if f.transactionsBlock {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.transactions, f.transactionsErr
}

func (f *fakeScreenAPI) Balance(ctx context.Context, token, accountNumber string) (float64, error) {
	return f.balance, nil
}

func (f *fakeScreenAPI) VirtualCards(ctx context.Context, token string) ([]api.VirtualCard, error) {
	return []api.VirtualCard{{CardNumber: "4000-1"}}, nil
}

func (f *fakeScreenAPI) BillCategories(ctx context.Context, token string) ([]api.BillCategory, error) {
	return []api.BillCategory{{ID: 1, Name: "Electricity"}}, nil
}

func authenticatedSessions() *fakeSessions {
	return &fakeSessions{session: session.Session{
		Token:         "test-token",
		Username:      "demo",
		AccountNumber: "ACC0001",
	}}
}

func TestFetcher_FetchOnScreenEntered(t *testing.T) {
	renderer := &rendererRecorder{}
	fakeAPI := &fakeScreenAPI{
		transactions: []api.Transaction{{FromAccount: "ACC0001", Amount: 10}},
		balance:      250,
	}
	fetcher := NewFetcher(fakeAPI, authenticatedSessions(), renderer)

	fetcher.ScreenEntered(navigation.ScreenTransactions)
	fetcher.Wait()
	require.Len(t, renderer.transactions, 1)
	assert.Equal(t, fakeAPI.transactions, renderer.transactions[0])

	fetcher.ScreenEntered(navigation.ScreenBalance)
	fetcher.Wait()
	require.Len(t, renderer.balances, 1)
	assert.Equal(t, float64(250), renderer.balances[0])

	fetcher.ScreenEntered(navigation.ScreenCards)
	fetcher.ScreenEntered(navigation.ScreenBills)
	fetcher.Wait()
	assert.Len(t, renderer.cards, 1)
	assert.Len(t, renderer.categories, 1)
}

func TestFetcher_ProfileComesFromSession(t *testing.T) {
	renderer := &rendererRecorder{}
	sessions := authenticatedSessions()
	fetcher := NewFetcher(&fakeScreenAPI{}, sessions, renderer)

	fetcher.ScreenEntered(navigation.ScreenProfile)
	fetcher.Wait()
	require.Len(t, renderer.profiles, 1)
	assert.Equal(t, sessions.session, renderer.profiles[0])
}

func TestFetcher_NoFetchWithoutSession(t *testing.T) {
	renderer := &rendererRecorder{}
	fetcher := NewFetcher(&fakeScreenAPI{}, &fakeSessions{}, renderer)

	fetcher.ScreenEntered(navigation.ScreenTransactions)
	fetcher.Wait()
	assert.Empty(t, renderer.transactions)
	assert.Empty(t, renderer.fetchErrors)
}

func TestFetcher_NoFetchForFormScreens(t *testing.T) {
	renderer := &rendererRecorder{}
	fetcher := NewFetcher(&fakeScreenAPI{}, authenticatedSessions(), renderer)

	fetcher.ScreenEntered(navigation.ScreenTransfer)
	fetcher.ScreenEntered(navigation.ScreenLoans)
	fetcher.ScreenEntered(navigation.ScreenAdmin)
	fetcher.Wait()
	assert.Empty(t, renderer.transactions)
	assert.Empty(t, renderer.fetchErrors)
}

func TestFetcher_FetchErrorRendered(t *testing.T) {
	renderer := &rendererRecorder{}
	fakeAPI := &fakeScreenAPI{
		transactionsErr: &api.ServerError{StatusCode: 500, Message: "boom"},
	}
	fetcher := NewFetcher(fakeAPI, authenticatedSessions(), renderer)

	fetcher.ScreenEntered(navigation.ScreenTransactions)
	fetcher.Wait()
	assert.Empty(t, renderer.transactions)
	require.Len(t, renderer.fetchErrors, 1)
	assert.Equal(t, "boom", renderer.fetchErrors[0])
}

// navigating away must cancel the previous screen's fetch, so a slow
// stale response never reaches the renderer
func TestFetcher_NavigatingAwayCancelsFetch(t *testing.T) {
	renderer := &rendererRecorder{}
	fakeAPI := &fakeScreenAPI{
		transactionsBlock: true,
		balance:           99,
	}
	fetcher := NewFetcher(fakeAPI, authenticatedSessions(), renderer)

	fetcher.ScreenEntered(navigation.ScreenTransactions) // hangs
	fetcher.ScreenEntered(navigation.ScreenBalance)      // cancels it
	fetcher.Wait()

	assert.Empty(t, renderer.transactions)
	assert.Empty(t, renderer.fetchErrors)
	require.Len(t, renderer.balances, 1)
	assert.Equal(t, float64(99), renderer.balances[0])
}
