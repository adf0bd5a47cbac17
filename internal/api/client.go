package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	oneHour = 60 * 60
	// bill categories and billers barely ever change on the backend,
	// cache them for an hour to spare the API
	billDataCacheExpire = oneHour * 1
)

// Client talks to the banking API over HTTP+JSON. Authenticated calls
// carry the session token as a bearer header; every response is
// normalized to a payload or an error (ServerError / ErrUnableToConnect).
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *freecache.Cache
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	megabyte := 1024 * 1024
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		cache:      freecache.NewCache(1 * megabyte),
	}
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/login", "", credentialsRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	accountNumber := resp.AccountNumber
	if accountNumber == "" {
		accountNumber = resp.AccountNumberCamel
	}
	return &LoginResult{
		Token:         resp.Token,
		AccountNumber: accountNumber,
	}, nil
}

func (c *Client) Register(ctx context.Context, username, password string) (string, error) {
	var resp messageResponse
	err := c.do(ctx, http.MethodPost, "/register", "", credentialsRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) Transactions(ctx context.Context, token, accountNumber string) ([]Transaction, error) {
	var resp transactionsResponse
	path := fmt.Sprintf("/api/transactions?account_number=%s", accountNumber)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

func (c *Client) Balance(ctx context.Context, token, accountNumber string) (float64, error) {
	var resp balanceResponse
	path := fmt.Sprintf("/check_balance/%s", accountNumber)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

func (c *Client) Transfer(ctx context.Context, token string, req TransferRequest) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/transfer", token, req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) RequestLoan(ctx context.Context, token string, amount float64) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/request_loan", token, loanRequest{Amount: amount}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) VirtualCards(ctx context.Context, token string) ([]VirtualCard, error) {
	var resp virtualCardsResponse
	if err := c.do(ctx, http.MethodGet, "/api/virtual-cards", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Cards, nil
}

func (c *Client) CreateVirtualCard(ctx context.Context, token string, req CreateVirtualCardRequest) (*VirtualCard, error) {
	var resp createVirtualCardResponse
	if err := c.do(ctx, http.MethodPost, "/api/virtual-cards/create", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp.CardDetails, nil
}

func (c *Client) BillCategories(ctx context.Context, token string) ([]BillCategory, error) {
	cacheKey := []byte("bill-categories")
	if cached, err := c.cache.Get(cacheKey); err == nil {
		var categories []BillCategory
		if err := json.Unmarshal(cached, &categories); err == nil {
			log.Tracef("bill categories served from cache")
			return categories, nil
		}
		log.Errorf("unmarshal cached bill categories: %s", err)
	}

	var resp billCategoriesResponse
	if err := c.do(ctx, http.MethodGet, "/api/bill-categories", token, nil, &resp); err != nil {
		return nil, err
	}

	if respBytes, err := json.Marshal(resp.Categories); err == nil {
		if err := c.cache.Set(cacheKey, respBytes, billDataCacheExpire); err != nil {
			log.Errorf("cache bill categories: %s", err)
		}
	}
	return resp.Categories, nil
}

func (c *Client) BillersByCategory(ctx context.Context, token string, categoryID int) ([]Biller, error) {
	cacheKey := []byte(fmt.Sprintf("billers::%d", categoryID))
	if cached, err := c.cache.Get(cacheKey); err == nil {
		var billers []Biller
		if err := json.Unmarshal(cached, &billers); err == nil {
			log.Tracef("billers for category %d served from cache", categoryID)
			return billers, nil
		}
		log.Errorf("unmarshal cached billers: %s", err)
	}

	var resp billersResponse
	path := fmt.Sprintf("/api/billers/by-category/%d", categoryID)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, err
	}

	if respBytes, err := json.Marshal(resp.Billers); err == nil {
		if err := c.cache.Set(cacheKey, respBytes, billDataCacheExpire); err != nil {
			log.Errorf("cache billers for category %d: %s", categoryID, err)
		}
	}
	return resp.Billers, nil
}

func (c *Client) CreateBillPayment(ctx context.Context, token string, req BillPaymentRequest) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/api/bill-payments/create", token, req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// CreateAdmin and DeleteAccount hit endpoints the server restricts to
// admins; the client only gates them in the UI and passes the token along.
func (c *Client) CreateAdmin(ctx context.Context, token, username, password string) (string, error) {
	var resp messageResponse
	err := c.do(ctx, http.MethodPost, "/admin/create_admin", token, credentialsRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) DeleteAccount(ctx context.Context, token string, accountID int) (string, error) {
	var resp messageResponse
	path := fmt.Sprintf("/admin/delete_account/%d", accountID)
	if err := c.do(ctx, http.MethodPost, path, token, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// DebugUsers calls the hidden debug endpoint of the demo backend.
func (c *Client) DebugUsers(ctx context.Context) ([]DebugUser, error) {
	var resp debugUsersResponse
	if err := c.do(ctx, http.MethodGet, "/debug/users", "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(bodyBytes)
	}

	reqURL := c.baseURL + path
	log.Debugf("calling banking api: %s %s", method, reqURL)

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnableToConnect, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %s", ErrUnableToConnect, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serverErr := &ServerError{StatusCode: resp.StatusCode}
		var msgResp messageResponse
		if err := json.Unmarshal(respBytes, &msgResp); err == nil {
			serverErr.Message = msgResp.Message
		}
		log.Debugf("banking api %s %s failed: %s", method, path, serverErr)
		return serverErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("%w: unmarshal response: %s", ErrUnableToConnect, err)
	}
	return nil
}
