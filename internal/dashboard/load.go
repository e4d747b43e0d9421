package dashboard

import (
	"context"
	"errors"

	"ccbankdash/internal/bankapi"
	"ccbankdash/internal/logging"
	"ccbankdash/internal/session"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// API is the subset of the banking client the dashboard reads from.
type API interface {
	Balance(ctx context.Context, s bankapi.Session) (decimal.Decimal, error)
	Transactions(ctx context.Context, s bankapi.Session) ([]bankapi.Transaction, error)
	TransactionCount(ctx context.Context, s bankapi.Session) (bankapi.Count, error)
}

type Fetch struct {
	Balance      bool
	Transactions bool
	Count        bool
	// StrictSession treats any failed balance read as a rejected session.
	StrictSession bool
}

// Snapshot is what one page view got back from the API. Fields whose fetch
// failed keep their zero value and a false Loaded flag.
type Snapshot struct {
	Balance            decimal.Decimal
	BalanceLoaded      bool
	Transactions       []bankapi.Transaction
	TransactionsLoaded bool
	Count              bankapi.Count
	CountLoaded        bool
}

// Load runs the requested reads concurrently. Read failures are logged and
// leave the snapshot at its defaults; the only error returned is a *Redirect
// for a rejected session, which also cancels the reads still in flight.
func Load(ctx context.Context, api API, s session.Session, f Fetch) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	log := logging.From(ctx)

	if f.Balance {
		g.Go(func() error {
			bal, err := api.Balance(gctx, s)
			if err != nil {
				if rejected(err, f.StrictSession) {
					log.Warn("dashboard.session_rejected", "err", err)
					return invalidSession()
				}
				log.Error("dashboard.balance", "err", err)
				return nil
			}
			snap.Balance, snap.BalanceLoaded = bal, true
			return nil
		})
	}
	if f.Transactions {
		g.Go(func() error {
			txs, err := api.Transactions(gctx, s)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					log.Error("dashboard.transactions", "err", err)
				}
				return nil
			}
			snap.Transactions, snap.TransactionsLoaded = txs, true
			return nil
		})
	}
	if f.Count {
		g.Go(func() error {
			cnt, err := api.TransactionCount(gctx, s)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					log.Error("dashboard.count", "err", err)
				}
				return nil
			}
			snap.Count, snap.CountLoaded = cnt, true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func rejected(err error, strict bool) bool {
	return strict && bankapi.IsStatus(err)
}
