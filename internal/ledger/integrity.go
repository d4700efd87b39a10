package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hubworks/ledger/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Drift is an account whose stored balance differs from the balance
// replayed from its posted transactions.
type Drift struct {
	AccountID uuid.UUID `json:"accountId" example:"4d3b7f4e-79a1-4a0e-9c9c-7ef1c59c2fd1"`
	Code      string    `json:"code" example:"1000"`
	Stored    int64     `json:"stored" example:"50000"`
	Replayed  int64     `json:"replayed" example:"45000"`
}

// IntegrityReport is the result of verifying the ledger of a company.
type IntegrityReport struct {
	CompanyID uuid.UUID `json:"companyId"`
	Sum       int64     `json:"sum" example:"0"` // Sum of all balances in debit terms, must be zero
	Accounts  int       `json:"accounts" example:"17"`
	Drifts    []Drift   `json:"drifts"`
}

// Ok reports if the ledger passed all checks.
func (r IntegrityReport) Ok() bool {
	return r.Sum == 0 && len(r.Drifts) == 0
}

// Verify checks that the balances of a company sum to zero and that every
// stored balance matches its posted transactions.
//
// The report is always returned. The error wraps ErrLedgerUnbalanced or
// ErrBalanceDrift if a check fails.
func (l *Ledger) Verify(ctx context.Context, companyID uuid.UUID) (IntegrityReport, error) {
	report := IntegrityReport{
		CompanyID: companyID,
		Drifts:    []Drift{},
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findCompany(tx, companyID); err != nil {
			return err
		}

		accounts, err := companyAccounts(tx, companyID)
		if err != nil {
			return err
		}
		report.Accounts = len(accounts)

		moved, err := movements(tx, companyID, nil, nil)
		if err != nil {
			return err
		}

		for _, account := range accounts {
			report.Sum += account.DebitEffect(account.CurrentBalance)

			replayed := account.DebitEffect(moved[account.ID].net())
			if replayed != account.CurrentBalance {
				report.Drifts = append(report.Drifts, Drift{
					AccountID: account.ID,
					Code:      account.Code,
					Stored:    account.CurrentBalance,
					Replayed:  replayed,
				})
			}
		}

		return nil
	})
	if err != nil {
		return IntegrityReport{}, err
	}

	if report.Sum != 0 {
		integrityFailures.WithLabelValues("zero_sum").Inc()
		log.Error().Str("company", companyID.String()).Int64("sum", report.Sum).Msg("ledger does not sum to zero")
		return report, fmt.Errorf("%w: signed balances sum to %d", models.ErrLedgerUnbalanced, report.Sum)
	}

	if len(report.Drifts) > 0 {
		integrityFailures.WithLabelValues("drift").Inc()
		log.Error().Str("company", companyID.String()).Int("accounts", len(report.Drifts)).Msg("stored balances drifted")
		return report, fmt.Errorf("%w: %d accounts affected", models.ErrBalanceDrift, len(report.Drifts))
	}

	return report, nil
}
