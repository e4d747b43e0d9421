package dashboard

import (
	"context"
	"errors"
	"strings"

	"ccbankdash/internal/bankapi"
	"ccbankdash/internal/logging"
	"ccbankdash/internal/session"
)

type Submitter interface {
	CreateTransaction(ctx context.Context, s bankapi.Session, tx bankapi.NewTransaction) (string, error)
}

// Submit creates a transaction and decides where the browser goes next. The
// answer is always a redirect back to returnTo, so the list is fetched again
// and shows the API's view of the new transaction.
func Submit(ctx context.Context, api Submitter, s session.Session, tx bankapi.NewTransaction, returnTo string) *Redirect {
	back := &Redirect{To: SafeReturn(returnTo), Reason: ReasonSubmitted}
	log := logging.From(ctx)

	tx.Username = strings.TrimSpace(tx.Username)
	tx.Amount = strings.TrimSpace(tx.Amount)
	if tx.Username == "" || tx.Amount == "" {
		back.Toast, back.ToastKind = "Target username and amount are required.", ToastError
		return back
	}

	resp, err := api.CreateTransaction(ctx, s, tx)
	switch {
	case err == nil:
		log.Info("dashboard.transaction_created", "to", tx.Username, "amount", tx.Amount, "response", resp)
		back.Toast, back.ToastKind = "Transaction to "+tx.Username+" created.", ToastSuccess
	case errors.Is(err, bankapi.ErrUnauthorized):
		log.Warn("dashboard.session_rejected", "err", err)
		return invalidSession()
	default:
		log.Error("dashboard.transaction_create", "err", err)
		back.Toast, back.ToastKind = "Could not create the transaction.", ToastError
	}
	return back
}
