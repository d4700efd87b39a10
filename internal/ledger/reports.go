package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hubworks/ledger/internal/models"
	"github.com/hubworks/ledger/internal/types"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Reports builds financial statements from the posted transactions.
type Reports struct {
	db *gorm.DB
}

// ReportLine is the amount of one account in a report. Amounts are in the
// normal balance terms of the account.
type ReportLine struct {
	AccountID uuid.UUID             `json:"accountId"`
	Code      string                `json:"code" example:"4000"`
	Name      string                `json:"name" example:"Sales Revenue"`
	Subtype   models.AccountSubtype `json:"subtype" example:"operating"`
	Amount    int64                 `json:"amount" example:"50000"`
}

type ProfitAndLoss struct {
	From          types.Date   `json:"from"`
	To            types.Date   `json:"to"`
	Revenue       []ReportLine `json:"revenue"`
	Expenses      []ReportLine `json:"expenses"`
	TotalRevenue  int64        `json:"totalRevenue" example:"50000"`
	TotalExpenses int64        `json:"totalExpenses" example:"20000"`
	NetIncome     int64        `json:"netIncome" example:"30000"`
}

type BalanceSheet struct {
	AsOf             types.Date   `json:"asOf"`
	Assets           []ReportLine `json:"assets"`
	Liabilities      []ReportLine `json:"liabilities"`
	Equity           []ReportLine `json:"equity"`
	CurrentEarnings  int64        `json:"currentEarnings" example:"30000"` // Revenue minus expenses up to AsOf, part of TotalEquity
	TotalAssets      int64        `json:"totalAssets" example:"80000"`
	TotalLiabilities int64        `json:"totalLiabilities" example:"20000"`
	TotalEquity      int64        `json:"totalEquity" example:"60000"`
	Balanced         bool         `json:"balanced" example:"true"`
	Diagnostics      []string     `json:"diagnostics"`
}

type CashFlowLine struct {
	AccountID uuid.UUID `json:"accountId"`
	Code      string    `json:"code" example:"1000"`
	Name      string    `json:"name" example:"Cash at Bank"`
	Opening   int64     `json:"opening" example:"10000"`
	Inflows   int64     `json:"inflows" example:"50000"`
	Outflows  int64     `json:"outflows" example:"20000"`
	Net       int64     `json:"net" example:"30000"`
	Closing   int64     `json:"closing" example:"40000"`
}

type CashFlow struct {
	From          types.Date     `json:"from"`
	To            types.Date     `json:"to"`
	Accounts      []CashFlowLine `json:"accounts"`
	TotalOpening  int64          `json:"totalOpening" example:"10000"`
	TotalInflows  int64          `json:"totalInflows" example:"50000"`
	TotalOutflows int64          `json:"totalOutflows" example:"20000"`
	TotalNet      int64          `json:"totalNet" example:"30000"`
	TotalClosing  int64          `json:"totalClosing" example:"40000"`
}

// ProfitAndLoss sums revenue and expenses of the transactions posted
// between from and to, both inclusive.
func (r *Reports) ProfitAndLoss(ctx context.Context, companyID uuid.UUID, from, to types.Date) (ProfitAndLoss, error) {
	if err := validatePeriod(from, to); err != nil {
		return ProfitAndLoss{}, err
	}

	db := r.db.WithContext(ctx)
	accounts, moved, err := r.load(db, companyID, &from, &to)
	if err != nil {
		return ProfitAndLoss{}, err
	}

	report := ProfitAndLoss{
		From:     from,
		To:       to,
		Revenue:  []ReportLine{},
		Expenses: []ReportLine{},
	}

	for _, account := range accounts {
		amount := account.DebitEffect(moved[account.ID].net())

		switch account.Type {
		case models.AccountTypeRevenue:
			report.Revenue = append(report.Revenue, line(account, amount))
			report.TotalRevenue += amount
		case models.AccountTypeExpense:
			report.Expenses = append(report.Expenses, line(account, amount))
			report.TotalExpenses += amount
		}
	}

	report.NetIncome = report.TotalRevenue - report.TotalExpenses
	return report, nil
}

// BalanceSheet returns the balances of all balance sheet accounts at the
// end of asOf.
//
// Revenue and expenses not yet closed into retained earnings are shown as
// current earnings within equity. If assets do not equal liabilities plus
// equity, the report is returned together with an error wrapping
// ErrBalanceSheetUnbalanced.
func (r *Reports) BalanceSheet(ctx context.Context, companyID uuid.UUID, asOf types.Date) (BalanceSheet, error) {
	if asOf.IsZero() {
		return BalanceSheet{}, models.ErrReportDateRequired
	}

	db := r.db.WithContext(ctx)
	accounts, moved, err := r.load(db, companyID, nil, &asOf)
	if err != nil {
		return BalanceSheet{}, err
	}

	report := BalanceSheet{
		AsOf:        asOf,
		Assets:      []ReportLine{},
		Liabilities: []ReportLine{},
		Equity:      []ReportLine{},
		Diagnostics: []string{},
	}

	for _, account := range accounts {
		amount := account.DebitEffect(moved[account.ID].net())

		switch account.Type {
		case models.AccountTypeAsset:
			report.Assets = append(report.Assets, line(account, amount))
			report.TotalAssets += amount
		case models.AccountTypeLiability:
			report.Liabilities = append(report.Liabilities, line(account, amount))
			report.TotalLiabilities += amount
		case models.AccountTypeEquity:
			report.Equity = append(report.Equity, line(account, amount))
			report.TotalEquity += amount
		case models.AccountTypeRevenue:
			report.CurrentEarnings += amount
		case models.AccountTypeExpense:
			report.CurrentEarnings -= amount
		}
	}

	report.TotalEquity += report.CurrentEarnings

	difference := report.TotalAssets - report.TotalLiabilities - report.TotalEquity
	report.Balanced = difference == 0
	if report.Balanced {
		return report, nil
	}

	report.Diagnostics = append(report.Diagnostics, fmt.Sprintf("assets exceed liabilities plus equity by %d", difference))
	integrityFailures.WithLabelValues("accounting_identity").Inc()
	log.Error().
		Str("company", companyID.String()).
		Str("asOf", asOf.String()).
		Int64("difference", difference).
		Msg("balance sheet does not balance")

	return report, fmt.Errorf("%w: difference of %d", models.ErrBalanceSheetUnbalanced, difference)
}

// CashFlow returns the movements of all bank accounts between from and to,
// both inclusive.
func (r *Reports) CashFlow(ctx context.Context, companyID uuid.UUID, from, to types.Date) (CashFlow, error) {
	if err := validatePeriod(from, to); err != nil {
		return CashFlow{}, err
	}

	db := r.db.WithContext(ctx)
	if _, err := findCompany(db, companyID); err != nil {
		return CashFlow{}, err
	}

	var banks []models.Account
	err := db.Where("company_id = ? AND is_bank_account = ?", companyID, true).Order("code").Find(&banks).Error
	if err != nil {
		return CashFlow{}, err
	}

	dayBefore := from.AddDate(0, 0, -1)
	opening, err := movements(db, companyID, nil, &dayBefore)
	if err != nil {
		return CashFlow{}, err
	}

	period, err := movements(db, companyID, &from, &to)
	if err != nil {
		return CashFlow{}, err
	}

	report := CashFlow{
		From:     from,
		To:       to,
		Accounts: []CashFlowLine{},
	}

	// Bank accounts are assets, debits are inflows
	for _, bank := range banks {
		m := period[bank.ID]
		l := CashFlowLine{
			AccountID: bank.ID,
			Code:      bank.Code,
			Name:      bank.Name,
			Opening:   opening[bank.ID].net(),
			Inflows:   m.Debits,
			Outflows:  m.Credits,
			Net:       m.net(),
		}
		l.Closing = l.Opening + l.Net

		report.Accounts = append(report.Accounts, l)
		report.TotalOpening += l.Opening
		report.TotalInflows += l.Inflows
		report.TotalOutflows += l.Outflows
		report.TotalNet += l.Net
		report.TotalClosing += l.Closing
	}

	return report, nil
}

// load returns the accounts of a company and their movements in the period.
func (r *Reports) load(db *gorm.DB, companyID uuid.UUID, from, to *types.Date) ([]models.Account, map[uuid.UUID]movement, error) {
	if _, err := findCompany(db, companyID); err != nil {
		return nil, nil, err
	}

	accounts, err := companyAccounts(db, companyID)
	if err != nil {
		return nil, nil, err
	}

	moved, err := movements(db, companyID, from, to)
	if err != nil {
		return nil, nil, err
	}

	return accounts, moved, nil
}

func line(account models.Account, amount int64) ReportLine {
	return ReportLine{
		AccountID: account.ID,
		Code:      account.Code,
		Name:      account.Name,
		Subtype:   account.Subtype,
		Amount:    amount,
	}
}

func validatePeriod(from, to types.Date) error {
	if from.IsZero() || to.IsZero() {
		return models.ErrReportDateRequired
	}

	if to.Before(from) {
		return models.ErrReportPeriodInvalid
	}

	return nil
}
