package ledger

import (
	"github.com/google/uuid"
	"github.com/hubworks/ledger/internal/models"
	"github.com/hubworks/ledger/internal/types"
	"gorm.io/gorm"
)

// movement is the sum of posted amounts debited and credited to an account.
type movement struct {
	Debits  int64
	Credits int64
}

// net returns the movement in debit terms.
func (m movement) net() int64 {
	return m.Debits - m.Credits
}

type accountSum struct {
	AccountID uuid.UUID
	Total     int64
}

// movements sums the posted transactions of a company per account.
// from and to are inclusive, nil means unbounded.
func movements(db *gorm.DB, companyID uuid.UUID, from, to *types.Date) (map[uuid.UUID]movement, error) {
	base := db.Model(&models.Transaction{}).Where("company_id = ? AND status = ?", companyID, models.TransactionStatusPosted)
	if from != nil {
		base = base.Where("date >= ?", *from)
	}
	if to != nil {
		base = base.Where("date <= ?", *to)
	}

	var debits, credits []accountSum
	err := base.Session(&gorm.Session{}).
		Select("debit_account_id AS account_id, COALESCE(CAST(SUM(amount) AS BIGINT), 0) AS total").
		Group("debit_account_id").
		Scan(&debits).Error
	if err != nil {
		return nil, err
	}

	err = base.Session(&gorm.Session{}).
		Select("credit_account_id AS account_id, COALESCE(CAST(SUM(amount) AS BIGINT), 0) AS total").
		Group("credit_account_id").
		Scan(&credits).Error
	if err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID]movement, len(debits)+len(credits))
	for _, d := range debits {
		m := result[d.AccountID]
		m.Debits += d.Total
		result[d.AccountID] = m
	}
	for _, c := range credits {
		m := result[c.AccountID]
		m.Credits += c.Total
		result[c.AccountID] = m
	}

	return result, nil
}
