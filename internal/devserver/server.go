package devserver

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/vulnbank/bankshell/internal/api"
	"github.com/vulnbank/bankshell/pkg"
)

// Seed credentials of the demo backend. The admin pair is the one the
// original mobile client prints on its login screen.
const (
	SeedAdminUsername = "admin"
	SeedAdminPassword = "admin123"
	SeedAdminAccount  = "ADMIN001"

	SeedUserUsername = "demo"
	SeedUserPassword = "demo123"
	SeedUserAccount  = "ACC1000001"
)

type account struct {
	ID            int
	Username      string
	PasswordHash  string
	AccountNumber string
	IsAdmin       bool
	Balance       float64
}

// Server is an in-memory stand-in for the Vuln Bank backend, used for
// local development and in tests. It intentionally keeps the backend's
// quirks: the admin role is a seeded flag and /debug/users needs no auth.
type Server struct {
	router *mux.Router

	mu           sync.Mutex
	accounts     map[string]*account // username -> account
	tokens       map[string]string   // token -> username
	transactions map[string][]api.Transaction
	cards        map[string][]api.VirtualCard
	categories   []api.BillCategory
	billers      []api.Biller
	nextID       int
}

func New() (*Server, error) {
	s := &Server{
		router:       mux.NewRouter(),
		accounts:     map[string]*account{},
		tokens:       map[string]string{},
		transactions: map[string][]api.Transaction{},
		cards:        map[string][]api.VirtualCard{},
		nextID:       1,
	}

	if err := s.seed(); err != nil {
		return nil, fmt.Errorf("seed dev server: %w", err)
	}
	s.routes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.HandleFunc("/login", s.handleLogin).Methods("POST").Name("login")
	s.router.HandleFunc("/register", s.handleRegister).Methods("POST").Name("register")
	s.router.HandleFunc("/api/transactions", s.handleTransactions).Methods("GET")
	s.router.HandleFunc("/transactions/{account}", s.handleTransactionsByPath).Methods("GET")
	s.router.HandleFunc("/check_balance/{account}", s.handleBalance).Methods("GET")
	s.router.HandleFunc("/transfer", s.handleTransfer).Methods("POST")
	s.router.HandleFunc("/request_loan", s.handleRequestLoan).Methods("POST")
	s.router.HandleFunc("/api/virtual-cards", s.handleVirtualCards).Methods("GET")
	s.router.HandleFunc("/api/virtual-cards/create", s.handleCreateVirtualCard).Methods("POST")
	s.router.HandleFunc("/api/bill-categories", s.handleBillCategories).Methods("GET")
	s.router.HandleFunc("/api/billers/by-category/{id}", s.handleBillersByCategory).Methods("GET")
	s.router.HandleFunc("/api/bill-payments/create", s.handleCreateBillPayment).Methods("POST")
	s.router.HandleFunc("/admin/create_admin", s.handleCreateAdmin).Methods("POST")
	s.router.HandleFunc("/admin/delete_account/{id}", s.handleDeleteAccount).Methods("POST")
	// the "hidden" debug endpoint of the demo backend, no auth on purpose
	s.router.HandleFunc("/debug/users", s.handleDebugUsers).Methods("GET")
}

func (s *Server) seed() error {
	faker := gofakeit.New(42)

	adminHash, err := pkg.HashPassword(SeedAdminPassword)
	if err != nil {
		return err
	}
	userHash, err := pkg.HashPassword(SeedUserPassword)
	if err != nil {
		return err
	}

	s.addAccount(&account{
		Username:      SeedAdminUsername,
		PasswordHash:  adminHash,
		AccountNumber: SeedAdminAccount,
		IsAdmin:       true,
		Balance:       100_000,
	})
	s.addAccount(&account{
		Username:      SeedUserUsername,
		PasswordHash:  userHash,
		AccountNumber: SeedUserAccount,
		Balance:       2_500,
	})

	// a bit of account history so the transactions screen shows something
	for i := 0; i < 10; i++ {
		amount := float64(faker.Number(5, 500))
		s.transactions[SeedUserAccount] = append(s.transactions[SeedUserAccount], api.Transaction{
			ID:              i + 1,
			FromAccount:     SeedUserAccount,
			ToAccount:       fmt.Sprintf("ACC%07d", faker.Number(1000000, 9999999)),
			Amount:          amount,
			TransactionType: "transfer",
			Timestamp:       time.Now().Add(-time.Duration(i*7) * time.Hour).Format(time.RFC3339),
		})
	}

	s.categories = []api.BillCategory{
		{ID: 1, Name: "Electricity"},
		{ID: 2, Name: "Water"},
		{ID: 3, Name: "Internet"},
		{ID: 4, Name: "TV"},
	}
	for i, category := range s.categories {
		s.billers = append(s.billers,
			api.Biller{ID: i*2 + 1, Name: faker.Company(), CategoryID: category.ID},
			api.Biller{ID: i*2 + 2, Name: faker.Company(), CategoryID: category.ID},
		)
	}

	return nil
}

func (s *Server) addAccount(a *account) {
	a.ID = s.nextID
	s.nextID++
	s.accounts[a.Username] = a
}

// authenticate resolves the bearer token to an account, or nil.
func (s *Server) authenticate(r *http.Request) *account {
	authHeader := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) || authHeader[:len(prefix)] != prefix {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.tokens[authHeader[len(prefix):]]
	if !ok {
		return nil
	}
	return s.accounts[username]
}

func (s *Server) accountByNumber(number string) *account {
	for _, a := range s.accounts {
		if a.AccountNumber == number {
			return a
		}
	}
	return nil
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	pkg.WriteJSON(w, status, map[string]string{"message": message})
}

func unauthorized(w http.ResponseWriter) {
	writeMessage(w, http.StatusUnauthorized, "unauthorized")
}

func logRequest(r *http.Request) {
	log.Tracef("dev server: %s %s", r.Method, r.URL.Path)
}
