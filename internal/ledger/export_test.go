package ledger

import (
	"github.com/google/uuid"
	"github.com/hubworks/ledger/internal/models"
)

// BalanceDeltas exposes the posting order of balance changes as
// (account ID, debit delta) pairs.
func BalanceDeltas(transaction models.Transaction, debit, credit models.Account) ([]uuid.UUID, []int64) {
	var ids []uuid.UUID
	var deltas []int64
	for _, d := range balanceDeltas(transaction, debit, credit) {
		ids = append(ids, d.account.ID)
		deltas = append(deltas, d.debitDelta)
	}

	return ids, deltas
}
