package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"ccbankdash/internal/bankapi"
	"ccbankdash/internal/config"
	"ccbankdash/internal/dashboard"
	"ccbankdash/internal/session"

	"golang.org/x/term"
)

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "balance":
		balanceCmd(os.Args[2:])
	case "transactions":
		transactionsCmd(os.Args[2:])
	case "count":
		countCmd(os.Args[2:])
	case "send":
		sendCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println(`ccb - CC Bank command line client

Usage:
  ccb balance                          [-config config.yaml] [-api http://...] [-token T] [-user U]
  ccb transactions [-page 1] [-per-page 15] [-config config.yaml] [-api http://...] [-token T] [-user U]
  ccb count                            [-config config.yaml] [-api http://...] [-token T] [-user U]
  ccb send <username> <amount>         [-config config.yaml] [-api http://...] [-token T] [-user U]

The session token is read from -token, then CCB_SESSION_TOKEN, then prompted for.
The username is read from -user, then CCB_USERNAME.

Examples:
  ccb balance -user alice
  ccb transactions -page 2 -per-page 10
  ccb send bob 12.50`)
}

// common holds the flags every subcommand accepts.
type common struct {
	cfgPath *string
	api     *string
	token   *string
	user    *string
}

func commonFlags(fs *flag.FlagSet) common {
	return common{
		cfgPath: fs.String("config", "config.yaml", "path to config file"),
		api:     fs.String("api", "", "override API base URL"),
		token:   fs.String("token", "", "session token"),
		user:    fs.String("user", "", "username of the session"),
	}
}

// connect builds the API client and the session from flags, config and env.
func (c common) connect() (*bankapi.Client, *session.Static, time.Duration) {
	cfg, err := config.Load(*c.cfgPath)
	if err != nil && cfg == nil {
		log.Fatalf("config: %v", err)
	}
	base := cfg.API.BaseURL
	if strings.TrimSpace(*c.api) != "" {
		base = strings.TrimSpace(*c.api)
	}

	token := strings.TrimSpace(*c.token)
	if token == "" {
		token = strings.TrimSpace(os.Getenv("CCB_SESSION_TOKEN"))
	}
	if token == "" {
		token = promptToken("Session token: ")
	}
	user := strings.TrimSpace(*c.user)
	if user == "" {
		user = strings.TrimSpace(os.Getenv("CCB_USERNAME"))
	}

	return bankapi.New(base, cfg.API.Timeout, &http.Client{}), &session.Static{TokenValue: token, UsernameValue: user}, cfg.API.Timeout
}

func promptToken(prompt string) string {
	if !term.IsTerminal(int(syscall.Stdin)) {
		log.Fatal("no session token: pass -token or set CCB_SESSION_TOKEN")
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		log.Fatalf("read token: %v", err)
	}
	return strings.TrimSpace(string(b))
}

func commandContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	// list and count run side by side, give them a little slack
	return context.WithTimeout(context.Background(), timeout+5*time.Second)
}

func balanceCmd(args []string) {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	c := commonFlags(fs)
	parseInterspersed(fs, args)

	client, sess, timeout := c.connect()
	ctx, cancel := commandContext(timeout)
	defer cancel()

	bal, err := client.Balance(ctx, sess)
	if err != nil {
		fail(err)
	}
	fmt.Println(bal.String())
}

func countCmd(args []string) {
	fs := flag.NewFlagSet("count", flag.ExitOnError)
	c := commonFlags(fs)
	parseInterspersed(fs, args)

	client, sess, timeout := c.connect()
	ctx, cancel := commandContext(timeout)
	defer cancel()

	cnt, err := client.TransactionCount(ctx, sess)
	if err != nil {
		fail(err)
	}
	if !cnt.Known {
		fmt.Printf("unknown count response: %v\n", cnt.Raw)
		os.Exit(1)
	}
	fmt.Println(cnt.Total)
}

func transactionsCmd(args []string) {
	fs := flag.NewFlagSet("transactions", flag.ExitOnError)
	c := commonFlags(fs)
	var (
		page    = fs.Int("page", 1, "page to show")
		perPage = fs.Int("per-page", 15, "transactions per page")
	)
	parseInterspersed(fs, args)

	route, err := dashboard.ParseRoute(fmt.Sprint(*perPage), fmt.Sprint(*page))
	if err != nil {
		fmt.Printf("-page must be in 1..%d and -per-page in 1..%d\n", dashboard.MaxPage, dashboard.MaxPerPage)
		os.Exit(2)
	}

	client, sess, timeout := c.connect()
	ctx, cancel := commandContext(timeout)
	defer cancel()

	snap, err := dashboard.Load(ctx, client, sess, dashboard.Fetch{Transactions: true, Count: true})
	if err != nil {
		fail(err)
	}
	if !snap.TransactionsLoaded {
		log.Fatal("could not load transactions")
	}
	total := int64(len(snap.Transactions))
	if snap.CountLoaded && snap.Count.Known {
		total = snap.Count.Total
	}
	p, err := dashboard.Paginate(route.Page, route.PerPage, total)
	if err != nil {
		log.Fatalf("paginate: %v", err)
	}
	rows := dashboard.PageWindow(snap.Transactions, route.Page, route.PerPage)
	if err := printTransactions(os.Stdout, rows, p); err != nil {
		log.Fatal(err)
	}
}

func sendCmd(args []string) {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	c := commonFlags(fs)
	rest := parseInterspersed(fs, args)
	if len(rest) < 2 {
		fmt.Println("usage: ccb send <username> <amount>")
		os.Exit(2)
	}
	tx := bankapi.NewTransaction{Username: strings.TrimSpace(rest[0]), Amount: strings.TrimSpace(rest[1])}
	if tx.Username == "" || tx.Amount == "" {
		fmt.Println("username and amount cannot be empty")
		os.Exit(2)
	}

	client, sess, timeout := c.connect()
	ctx, cancel := commandContext(timeout)
	defer cancel()

	resp, err := client.CreateTransaction(ctx, sess, tx)
	if err != nil {
		fail(err)
	}
	fmt.Printf("OK: sent %s to %s\n", tx.Amount, tx.Username)
	if s := strings.TrimSpace(resp); s != "" {
		fmt.Println(s)
	}
}

// fail reports an API error the way the dashboard would and exits.
func fail(err error) {
	var se *bankapi.StatusError
	switch {
	case errors.Is(err, bankapi.ErrNoSession):
		fmt.Println("You are not logged in.")
	case errors.Is(err, bankapi.ErrUnauthorized):
		fmt.Println("Invalid session token. Please log in again.")
	case errors.As(err, &se):
		fmt.Printf("API error: %d %s\n", se.Code, se.Body)
	default:
		fmt.Printf("error: %v\n", err)
	}
	os.Exit(1)
}

func printTransactions(w io.Writer, rows []bankapi.Transaction, p dashboard.Pagination) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tFROM\tTO\tAMOUNT")
	for _, t := range rows {
		date := "-"
		if !t.Date.IsZero() {
			date = t.Date.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", date, orDash(t.From), orDash(t.To), t.Amount.String())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d of %d (%d transactions)\n", p.Current, p.TotalPages, p.TotalItems)
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// parseInterspersed lets flags follow positionals ("send bob 10 -user alice").
// It re-enters fs.Parse after each positional, so the FlagSet itself decides
// whether a flag takes a value. Everything after "--" is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) []string {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return positional
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional
		}
		if n := len(args) - len(rest); n > 0 && args[n-1] == "--" {
			return append(positional, rest...)
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}
