package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/vulnbank/bankshell/internal/api"
	"github.com/vulnbank/bankshell/internal/navigation"
	"github.com/vulnbank/bankshell/internal/session"
)

// Shell is the line-oriented front-end: it renders the current screen,
// turns commands into session/navigation calls, and prints the one-shot
// notifications and fetched screen data. All session and navigation
// mutations happen on the single Run goroutine; only fetch results arrive
// from elsewhere, which is why output goes through a mutex.
type Shell struct {
	in  io.Reader
	out io.Writer

	outMu sync.Mutex

	api      *api.Client
	sessions *session.Manager
	nav      *navigation.Navigator
	fetcher  interface{ Wait() }
}

func New(in io.Reader, out io.Writer, apiClient *api.Client) *Shell {
	return &Shell{
		in:  in,
		out: out,
		api: apiClient,
	}
}

// Bind attaches the controller parts. The shell is created first because
// the session manager needs it as its notifier.
func (s *Shell) Bind(sessions *session.Manager, nav *navigation.Navigator, fetcher interface{ Wait() }) {
	s.sessions = sessions
	s.nav = nav
	s.fetcher = fetcher
}

// Notify implements session.Notifier.
func (s *Shell) Notify(title, message string) {
	s.printf("[%s] %s\n", title, message)
}

func (s *Shell) printf(format string, args ...any) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

// Run processes commands until quit or the input closes.
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	s.renderScreen()

	for {
		screen, _ := s.nav.Current()
		s.printf("%s> ", screen)

		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		command, args := fields[0], fields[1:]
		if command == "quit" || command == "exit" {
			return nil
		}

		before, _ := s.nav.Current()
		s.dispatch(ctx, before, command, args)

		// let a triggered fetch print its data before the next prompt
		if s.fetcher != nil {
			s.fetcher.Wait()
		}

		if after, _ := s.nav.Current(); after != before {
			s.renderScreen()
		}
	}
}

func (s *Shell) dispatch(ctx context.Context, screen navigation.Screen, command string, args []string) {
	switch command {
	case "login":
		if len(args) == 2 {
			s.sessions.Login(ctx, args[0], args[1])
			return
		}
		s.nav.ShowLogin()
	case "register":
		if len(args) == 2 {
			s.sessions.Register(ctx, args[0], args[1])
			return
		}
		s.nav.ShowRegister()
	case "logout":
		s.sessions.Logout(ctx)
	case "menu":
		s.nav.OpenMenu()
		if _, menuVisible := s.nav.Current(); menuVisible {
			s.renderMenu()
		}
	case "close":
		s.nav.CloseMenu()
	case "select":
		if len(args) != 1 {
			s.printf("usage: select <screen>\n")
			return
		}
		target, err := navigation.ParseScreen(args[0])
		if err != nil {
			s.printf("%s\n", err)
			return
		}
		s.nav.SelectFromMenu(target)
	case "go":
		if len(args) != 1 {
			s.printf("usage: go <screen>\n")
			return
		}
		target, err := navigation.ParseScreen(args[0])
		if err != nil {
			s.printf("%s\n", err)
			return
		}
		s.nav.NavigateTo(target)
	case "back":
		s.nav.Back()
	case "transfer":
		s.submitTransfer(ctx, args)
	case "loan":
		s.submitLoan(ctx, args)
	case "newcard":
		s.submitNewCard(ctx, args)
	case "billers":
		s.listBillers(ctx, args)
	case "paybill":
		s.submitBillPayment(ctx, args)
	case "mkadmin":
		s.submitCreateAdmin(ctx, screen, args)
	case "rmaccount":
		s.submitDeleteAccount(ctx, screen, args)
	case "help":
		s.printf("commands: login register logout menu close select go back transfer loan newcard billers paybill mkadmin rmaccount quit\n")
	default:
		s.printf("unknown command: %s (try help)\n", command)
	}
}

func (s *Shell) submitTransfer(ctx context.Context, args []string) {
	if len(args) < 2 {
		s.printf("usage: transfer <to_account> <amount> [description]\n")
		return
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		s.printf("invalid amount: %s\n", args[1])
		return
	}

	sess := s.sessions.Current()
	message, err := s.api.Transfer(ctx, sess.Token, api.TransferRequest{
		FromAccount: sess.AccountNumber,
		ToAccount:   args[0],
		Amount:      amount,
		Description: strings.Join(args[2:], " "),
	})
	if err != nil {
		s.Notify("Transfer Failed", api.UserMessage(err, "Transfer failed"))
		return
	}
	s.Notify("Transfer", message)
}

func (s *Shell) submitLoan(ctx context.Context, args []string) {
	if len(args) != 1 {
		s.printf("usage: loan <amount>\n")
		return
	}
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		s.printf("invalid amount: %s\n", args[0])
		return
	}

	message, err := s.api.RequestLoan(ctx, s.sessions.Current().Token, amount)
	if err != nil {
		s.Notify("Loan Failed", api.UserMessage(err, "Loan request failed"))
		return
	}
	s.Notify("Loan", message)
}

func (s *Shell) submitNewCard(ctx context.Context, args []string) {
	if len(args) != 2 {
		s.printf("usage: newcard <type> <limit>\n")
		return
	}
	limit, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		s.printf("invalid limit: %s\n", args[1])
		return
	}

	card, err := s.api.CreateVirtualCard(ctx, s.sessions.Current().Token, api.CreateVirtualCardRequest{
		CardType:  args[0],
		CardLimit: limit,
	})
	if err != nil {
		s.Notify("Card Failed", api.UserMessage(err, "Card creation failed"))
		return
	}
	s.printf("new card: %s (%s, limit %.2f)\n", card.CardNumber, card.CardType, card.CardLimit)
}

func (s *Shell) listBillers(ctx context.Context, args []string) {
	if len(args) != 1 {
		s.printf("usage: billers <category_id>\n")
		return
	}
	categoryID, err := strconv.Atoi(args[0])
	if err != nil {
		s.printf("invalid category id: %s\n", args[0])
		return
	}

	billers, err := s.api.BillersByCategory(ctx, s.sessions.Current().Token, categoryID)
	if err != nil {
		s.Notify("Bills", api.UserMessage(err, "failed to load billers"))
		return
	}
	for _, b := range billers {
		s.printf("  [%d] %s\n", b.ID, b.Name)
	}
}

func (s *Shell) submitBillPayment(ctx context.Context, args []string) {
	if len(args) < 2 {
		s.printf("usage: paybill <biller_id> <amount> [payment_method]\n")
		return
	}
	billerID, err := strconv.Atoi(args[0])
	if err != nil {
		s.printf("invalid biller id: %s\n", args[0])
		return
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		s.printf("invalid amount: %s\n", args[1])
		return
	}
	paymentMethod := "balance"
	if len(args) > 2 {
		paymentMethod = args[2]
	}

	message, err := s.api.CreateBillPayment(ctx, s.sessions.Current().Token, api.BillPaymentRequest{
		BillerID:      billerID,
		Amount:        amount,
		PaymentMethod: paymentMethod,
	})
	if err != nil {
		s.Notify("Bill Payment Failed", api.UserMessage(err, "Bill payment failed"))
		return
	}
	s.Notify("Bill Payment", message)
}

func (s *Shell) submitCreateAdmin(ctx context.Context, screen navigation.Screen, args []string) {
	// the admin panel gate, same as the mobile client: UI only
	if screen != navigation.ScreenAdmin {
		s.printf("open the admin panel first\n")
		return
	}
	if len(args) != 2 {
		s.printf("usage: mkadmin <username> <password>\n")
		return
	}

	message, err := s.api.CreateAdmin(ctx, s.sessions.Current().Token, args[0], args[1])
	if err != nil {
		s.Notify("Admin", api.UserMessage(err, "failed to create admin"))
		return
	}
	s.Notify("Admin", message)
}

func (s *Shell) submitDeleteAccount(ctx context.Context, screen navigation.Screen, args []string) {
	if screen != navigation.ScreenAdmin {
		s.printf("open the admin panel first\n")
		return
	}
	if len(args) != 1 {
		s.printf("usage: rmaccount <account_id>\n")
		return
	}
	accountID, err := strconv.Atoi(args[0])
	if err != nil {
		s.printf("invalid account id: %s\n", args[0])
		return
	}

	message, err := s.api.DeleteAccount(ctx, s.sessions.Current().Token, accountID)
	if err != nil {
		s.Notify("Admin", api.UserMessage(err, "failed to delete account"))
		return
	}
	s.Notify("Admin", message)
}

func (s *Shell) renderScreen() {
	screen, _ := s.nav.Current()
	switch screen {
	case navigation.ScreenWelcome:
		s.printf("🏦 Vuln Bank — type 'login' or 'register'\n")
	case navigation.ScreenLogin:
		s.printf("🔐 Login — 'login <username> <password>' (or 'register' to switch)\n")
	case navigation.ScreenRegister:
		s.printf("📝 Register — 'register <username> <password>' (or 'login' to switch)\n")
	case navigation.ScreenDashboard:
		s.printf("🏦 Dashboard — 'go <screen>', 'menu', 'logout'\n")
	case navigation.ScreenTransfer:
		s.printf("💸 Transfer — 'transfer <to_account> <amount> [description]'\n")
	case navigation.ScreenLoans:
		s.printf("🏗 Loans — 'loan <amount>'\n")
	case navigation.ScreenAdmin:
		s.printf("🛠 Admin Panel — 'mkadmin <user> <pass>', 'rmaccount <id>'\n")
	}
}

func (s *Shell) renderMenu() {
	s.printf("menu:\n")
	for _, entry := range navigation.MenuScreens(s.sessions.IsAdmin()) {
		s.printf("  select %s\n", entry)
	}
	s.printf("  logout\n")
}

// Renderer implementation — fetched screen data arrives here.

func (s *Shell) ShowTransactions(transactions []api.Transaction) {
	s.printf("📄 Transactions (%d)\n", len(transactions))
	for _, tx := range transactions {
		s.printf("  %s  %s -> %s  %.2f (%s)\n",
			tx.Timestamp, tx.FromAccount, tx.ToAccount, tx.Amount, tx.TransactionType)
	}
}

func (s *Shell) ShowBalance(accountNumber string, balance float64) {
	s.printf("💰 Balance for %s: %.2f\n", accountNumber, balance)
}

func (s *Shell) ShowCards(cards []api.VirtualCard) {
	s.printf("💳 Virtual Cards (%d) — 'newcard <type> <limit>'\n", len(cards))
	for _, card := range cards {
		s.printf("  %s  %s, limit %.2f\n", card.CardNumber, card.CardType, card.CardLimit)
	}
}

func (s *Shell) ShowBillCategories(categories []api.BillCategory) {
	s.printf("🧾 Bill Categories — 'billers <id>', 'paybill <biller_id> <amount>'\n")
	for _, category := range categories {
		s.printf("  [%d] %s\n", category.ID, category.Name)
	}
}

func (s *Shell) ShowProfile(sess session.Session) {
	s.printf("👤 Profile: %s, account %s, admin: %t\n",
		sess.Username, sess.AccountNumber, sess.IsAdmin)
}

func (s *Shell) ShowFetchError(screen navigation.Screen, message string) {
	s.printf("[Error] %s: %s\n", screen, message)
}
