package devserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/vulnbank/bankshell/internal/api"
	"github.com/vulnbank/bankshell/pkg"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	logRequest(r)

	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	a, ok := s.accounts[creds.Username]
	s.mu.Unlock()
	if !ok || !pkg.CheckPasswordHash(creds.Password, a.PasswordHash) {
		log.Tracef("dev server: failed login attempt for user: %s", creds.Username)
		writeMessage(w, http.StatusUnauthorized, "wrong credentials")
		return
	}

	token, err := pkg.GenerateRandomString(35)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "generate token error")
		return
	}

	s.mu.Lock()
	s.tokens[token] = a.Username
	s.mu.Unlock()

	pkg.WriteJSON(w, http.StatusOK, map[string]string{
		"token":          token,
		"account_number": a.AccountNumber,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	logRequest(r)

	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if creds.Username == "" || creds.Password == "" {
		writeMessage(w, http.StatusBadRequest, "username and password required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[creds.Username]; exists {
		writeMessage(w, http.StatusConflict, "username taken")
		return
	}

	hash, err := pkg.HashPassword(creds.Password)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "hash password error")
		return
	}

	s.addAccount(&account{
		Username:      creds.Username,
		PasswordHash:  hash,
		AccountNumber: fmt.Sprintf("ACC%07d", 1000000+s.nextID),
		Balance:       1_000,
	})

	writeMessage(w, http.StatusCreated, "registration successful")
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	logRequest(r)
	if s.authenticate(r) == nil {
		unauthorized(w)
		return
	}
	s.writeTransactions(w, r.URL.Query().Get("account_number"))
}

func (s *Server) handleTransactionsByPath(w http.ResponseWriter, r *http.Request) {
	logRequest(r)
	if s.authenticate(r) == nil {
		unauthorized(w)
		return
	}
	s.writeTransactions(w, mux.Vars(r)["account"])
}

// writeTransactions leaks any account's history to any authenticated
// user, faithfully to the demo backend it fakes.
func (s *Server) writeTransactions(w http.ResponseWriter, accountNumber string) {
	s.mu.Lock()
	transactions := append([]api.Transaction{}, s.transactions[accountNumber]...)
	s.mu.Unlock()

	pkg.WriteJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	logRequest(r)
	if s.authenticate(r) == nil {
		unauthorized(w)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accountByNumber(mux.Vars(r)["account"])
	if a == nil {
		writeMessage(w, http.StatusNotFound, "account not found")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, map[string]float64{"balance": a.Balance})
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	logRequest(r)
	if s.authenticate(r) == nil {
		unauthorized(w)
		return
	}

	var req api.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		writeMessage(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	from := s.accountByNumber(req.FromAccount)
	to := s.accountByNumber(req.ToAccount)
	if from == nil || to == nil {
		writeMessage(w, http.StatusNotFound, "account not found")
		return
	}
	if from.Balance < req.Amount {
		writeMessage(w, http.StatusBadRequest, "insufficient funds")
		return
	}

	from.Balance -= req.Amount
	to.Balance += req.Amount
	transaction := api.Transaction{
		ID:              len(s.transactions[from.AccountNumber]) + 1,
		FromAccount:     from.AccountNumber,
		ToAccount:       to.AccountNumber,
		Amount:          req.Amount,
		TransactionType: "transfer",
		Timestamp:       time.Now().Format(time.RFC3339),
	}
	s.transactions[from.AccountNumber] = append(s.transactions[from.AccountNumber], transaction)
	s.transactions[to.AccountNumber] = append(s.transactions[to.AccountNumber], transaction)

	writeMessage(w, http.StatusOK, "transfer successful")
}

func (s *Server) handleRequestLoan(w http.ResponseWriter, r *http.Request) {
	logRequest(r)
	a := s.authenticate(r)
	if a == nil {
		unauthorized(w)
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		writeMessage(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	s.mu.Lock()
	a.Balance += req.Amount
	s.transactions[a.AccountNumber] = append(s.transactions[a.AccountNumber], api.Transaction{
		ID:              len(s.transactions[a.AccountNumber]) + 1,
		FromAccount:     "LOAN",
		ToAccount:       a.AccountNumber,
		Amount:          req.Amount,
		TransactionType: "loan",
		Timestamp:       time.Now().Format(time.RFC3339),
	})
	s.mu.Unlock()

	writeMessage(w, http.StatusOK, "loan approved")
}

func (s *Server) handleVirtualCards(w http.ResponseWriter, r *http.Request) {
	logRequest(r)
	a := s.authenticate(r)
	if a == nil {
		unauthorized(w)
		return
	}

	s.mu.Lock()
	cards := append([]api.VirtualCard{}, s.cards[a.Username]...)
	s.mu.Unlock()

	pkg.WriteJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

func (s *Server) handleCreateVirtualCard(w http.ResponseWriter, r *http.Request) {
	logRequest(r)
	a := s.authenticate(r)
	if a == nil {
		unauthorized(w)
		return
	}

	var req api.CreateVirtualCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CardType == "" {
		req.CardType = "debit"
	}

	s.mu.Lock()
	card := api.VirtualCard{
		ID:         len(s.cards[a.Username]) + 1,
		CardNumber: fmt.Sprintf("4000%012d", s.nextID*7919+len(s.cards[a.Username])),
		CardType:   req.CardType,
		CardLimit:  req.CardLimit,
		ExpiryDate: time.Now().AddDate(3, 0, 0).Format("01/06"),
	}
	s.cards[a.Username] = append(s.cards[a.Username], card)
	s.mu.Unlock()

	pkg.WriteJSON(w, http.StatusCreated, map[string]any{"card_details": card})
}

func (s *Server) handleBillCategories(w http.ResponseWriter, r *http.Request) {
	logRequest(r)
	if s.authenticate(r) == nil {
		unauthorized(w)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, map[string]any{"categories": s.categories})
}

func (s *Server) handleBillersByCategory(w http.ResponseWriter, r *http.Request) {
	logRequest(r)
	if s.authenticate(r) == nil {
		unauthorized(w)
		return
	}

	categoryID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var billers []api.Biller
	for _, b := range s.billers {
		if b.CategoryID == categoryID {
			billers = append(billers, b)
		}
	}
	pkg.WriteJSON(w, http.StatusOK, map[string]any{"billers": billers})
}

func (s *Server) handleCreateBillPayment(w http.ResponseWriter, r *http.Request) {
	logRequest(r)
	a := s.authenticate(r)
	if a == nil {
		unauthorized(w)
		return
	}

	var req api.BillPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		writeMessage(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if a.Balance < req.Amount {
		writeMessage(w, http.StatusBadRequest, "insufficient funds")
		return
	}
	a.Balance -= req.Amount
	s.transactions[a.AccountNumber] = append(s.transactions[a.AccountNumber], api.Transaction{
		ID:              len(s.transactions[a.AccountNumber]) + 1,
		FromAccount:     a.AccountNumber,
		ToAccount:       fmt.Sprintf("BILLER-%d", req.BillerID),
		Amount:          req.Amount,
		TransactionType: "bill-payment",
		Timestamp:       time.Now().Format(time.RFC3339),
	})

	writeMessage(w, http.StatusOK, "bill payment successful")
}

func (s *Server) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	logRequest(r)
	a := s.authenticate(r)
	if a == nil || !a.IsAdmin {
		unauthorized(w)
		return
	}

	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if creds.Username == "" || creds.Password == "" {
		writeMessage(w, http.StatusBadRequest, "username and password required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[creds.Username]; exists {
		writeMessage(w, http.StatusConflict, "username taken")
		return
	}

	hash, err := pkg.HashPassword(creds.Password)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "hash password error")
		return
	}
	s.addAccount(&account{
		Username:      creds.Username,
		PasswordHash:  hash,
		AccountNumber: fmt.Sprintf("ADMIN%03d", s.nextID),
		IsAdmin:       true,
	})

	writeMessage(w, http.StatusCreated, "admin created")
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	logRequest(r)
	a := s.authenticate(r)
	if a == nil || !a.IsAdmin {
		unauthorized(w)
		return
	}

	accountID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid account id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for username, acc := range s.accounts {
		if acc.ID == accountID {
			delete(s.accounts, username)
			writeMessage(w, http.StatusOK, "account deleted")
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "account not found")
}

func (s *Server) handleDebugUsers(w http.ResponseWriter, r *http.Request) {
	logRequest(r)

	s.mu.Lock()
	users := make([]api.DebugUser, 0, len(s.accounts))
	for _, a := range s.accounts {
		users = append(users, api.DebugUser{
			ID:            a.ID,
			Username:      a.Username,
			AccountNumber: a.AccountNumber,
			IsAdmin:       a.IsAdmin,
		})
	}
	s.mu.Unlock()

	pkg.WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}
