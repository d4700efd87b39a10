// Package ledger implements the double-entry ledger, the budget tracker
// and the financial reports on top of the models.
//
// Every operation is scoped to a company passed in explicitly.
package ledger

import (
	"gorm.io/gorm"
)

// Engine bundles the ledger components sharing one database.
type Engine struct {
	Companies    *Companies
	Accounts     *Registry
	Transactions *Ledger
	Budgets      *Tracker
	Reports      *Reports
}

// New returns an Engine working on db.
func New(db *gorm.DB) *Engine {
	return &Engine{
		Companies:    &Companies{db: db},
		Accounts:     &Registry{db: db},
		Transactions: &Ledger{db: db},
		Budgets:      &Tracker{db: db},
		Reports:      &Reports{db: db},
	}
}
