package workers

import (
	"context"
	"log"
	"time"

	"starzup-platform/services"

	"gorm.io/gorm"
)

// LedgerAuditor replays the transaction ledger and checks it against
// stored balances and rosters. The registration path commits its three
// writes atomically, so under normal operation this finds nothing; a
// discrepancy means someone wrote around the service and an operator
// must reconcile.
type LedgerAuditor struct {
	DB *gorm.DB
}

func NewLedgerAuditor(db *gorm.DB) *LedgerAuditor {
	return &LedgerAuditor{DB: db}
}

// BalanceDrift is a user whose stored balance disagrees with the sum of
// their ledger entries.
type BalanceDrift struct {
	UserID        string  `json:"user_id"`
	Balance       float64 `json:"balance"`
	LedgerBalance float64 `json:"ledger_balance"`
}

// OrphanCharge is a tournament fee with no matching roster entry: the
// user was charged without being rostered (or the roster row was
// removed without a refund).
type OrphanCharge struct {
	UserID        string `json:"user_id"`
	TournamentID  string `json:"tournament_id"`
	TransactionID string `json:"transaction_id"`
}

// CheckBalances compares every user's stored balance with the replayed
// ledger total. Sub-cent differences are float accumulation noise, not
// drift, so the comparison carries an epsilon.
func (a *LedgerAuditor) CheckBalances() ([]BalanceDrift, error) {
	var drifts []BalanceDrift
	query := `
        SELECT
            u.id AS user_id,
            u.balance,
            COALESCE(SUM(t.amount), 0) AS ledger_balance
        FROM users u
        LEFT JOIN transactions t ON t.user_id = u.id
        GROUP BY u.id
        HAVING ABS(u.balance - COALESCE(SUM(t.amount), 0)) > 0.005
    `
	if err := a.DB.Raw(query).Scan(&drifts).Error; err != nil {
		return nil, err
	}
	return drifts, nil
}

// CheckOrphanCharges finds tournament_fee entries whose roster entry is
// missing. Deleted tournaments are excluded: deleting a tournament
// removes its roster rows while the fee stays on the ledger.
func (a *LedgerAuditor) CheckOrphanCharges() ([]OrphanCharge, error) {
	var orphans []OrphanCharge
	query := `
        SELECT
            t.user_id,
            t.tournament_id,
            t.id AS transaction_id
        FROM transactions t
        LEFT JOIN registrations r
            ON r.tournament_id = t.tournament_id AND r.user_id = t.user_id
        WHERE t.kind = 'tournament_fee'
          AND r.id IS NULL
          AND EXISTS (SELECT 1 FROM tournaments tr WHERE tr.id = t.tournament_id)
    `
	if err := a.DB.Raw(query).Scan(&orphans).Error; err != nil {
		return nil, err
	}
	return orphans, nil
}

// PollLedgerAudit runs the audit on a fixed interval until ctx is done.
func PollLedgerAudit(ctx context.Context, auditor *LedgerAuditor, pollInterval time.Duration) {
	log.Println("Starting ledger audit polling...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Ledger audit polling stopped.")
			return
		case <-ticker.C:
			drifts, err := auditor.CheckBalances()
			if err != nil {
				log.Printf("❌ Ledger audit failed: %v", err)
				continue
			}
			for _, d := range drifts {
				log.Printf("🚨 [AUDIT] %v: user %s stored balance %.2f, ledger says %.2f",
					services.ErrPartialRegistration, d.UserID, d.Balance, d.LedgerBalance)
			}

			orphans, err := auditor.CheckOrphanCharges()
			if err != nil {
				log.Printf("❌ Roster audit failed: %v", err)
				continue
			}
			for _, o := range orphans {
				log.Printf("🚨 [AUDIT] %v: user %s charged for tournament %s (tx %s) but not rostered",
					services.ErrPartialRegistration, o.UserID, o.TournamentID, o.TransactionID)
			}

			if len(drifts) == 0 && len(orphans) == 0 {
				log.Println("➡️ Ledger audit clean.")
			}
		}
	}
}
