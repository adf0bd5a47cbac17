package api

// LoginResult is the normalized outcome of a successful login call.
type LoginResult struct {
	Token         string
	AccountNumber string
}

// loginResponse accepts both account number spellings seen across the
// banking API revisions.
type loginResponse struct {
	Token              string `json:"token"`
	Message            string `json:"message"`
	AccountNumber      string `json:"account_number"`
	AccountNumberCamel string `json:"accountNumber"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type Transaction struct {
	ID              int     `json:"id,omitempty"`
	FromAccount     string  `json:"from_account"`
	ToAccount       string  `json:"to_account"`
	Amount          float64 `json:"amount"`
	TransactionType string  `json:"transaction_type"`
	Timestamp       string  `json:"timestamp"`
}

type transactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

type balanceResponse struct {
	Balance float64 `json:"balance"`
}

type TransferRequest struct {
	FromAccount string  `json:"from_account"`
	ToAccount   string  `json:"to_account"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type loanRequest struct {
	Amount float64 `json:"amount"`
}

type VirtualCard struct {
	ID         int     `json:"id"`
	CardNumber string  `json:"card_number"`
	CardType   string  `json:"card_type"`
	CardLimit  float64 `json:"card_limit"`
	ExpiryDate string  `json:"expiry_date,omitempty"`
}

type virtualCardsResponse struct {
	Cards []VirtualCard `json:"cards"`
}

type CreateVirtualCardRequest struct {
	CardLimit float64 `json:"card_limit"`
	CardType  string  `json:"card_type"`
}

type createVirtualCardResponse struct {
	CardDetails VirtualCard `json:"card_details"`
}

type BillCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type billCategoriesResponse struct {
	Categories []BillCategory `json:"categories"`
}

type Biller struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	CategoryID int    `json:"category_id"`
}

type billersResponse struct {
	Billers []Biller `json:"billers"`
}

type BillPaymentRequest struct {
	BillerID      int     `json:"biller_id"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// DebugUser comes from the hidden /debug/users endpoint the demo backend
// leaves open.
type DebugUser struct {
	ID            int    `json:"id"`
	Username      string `json:"username"`
	AccountNumber string `json:"account_number"`
	IsAdmin       bool   `json:"is_admin"`
}

type debugUsersResponse struct {
	Users []DebugUser `json:"users"`
}
