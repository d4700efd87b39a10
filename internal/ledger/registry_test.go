package ledger_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hubworks/ledger/internal/ledger"
	"github.com/hubworks/ledger/internal/models"
	"github.com/hubworks/ledger/internal/types"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestCreateAccountNormalBalance() {
	tests := []struct {
		accountType models.AccountType
		normal      models.NormalBalance
	}{
		{models.AccountTypeAsset, models.NormalBalanceDebit},
		{models.AccountTypeExpense, models.NormalBalanceDebit},
		{models.AccountTypeLiability, models.NormalBalanceCredit},
		{models.AccountTypeEquity, models.NormalBalanceCredit},
		{models.AccountTypeRevenue, models.NormalBalanceCredit},
	}

	for _, tt := range tests {
		suite.T().Run(string(tt.accountType), func(t *testing.T) {
			account := suite.createTestAccount(ledger.AccountInput{Type: tt.accountType})

			assert.Equal(t, tt.normal, account.NormalBalance)
			assert.Equal(t, int64(0), account.CurrentBalance)
			assert.True(t, account.IsActive, "Accounts must be active by default")
		})
	}
}

func (suite *TestSuiteStandard) TestCreateAccountValidation() {
	inactive := false
	tests := []struct {
		name string
		in   ledger.AccountInput
		err  error
	}{
		{"No code", ledger.AccountInput{Name: "Cash", Type: models.AccountTypeAsset}, models.ErrAccountCodeRequired},
		{"Whitespace code", ledger.AccountInput{Code: "  ", Name: "Cash", Type: models.AccountTypeAsset}, models.ErrAccountCodeRequired},
		{"No name", ledger.AccountInput{Code: "1000", Type: models.AccountTypeAsset}, models.ErrAccountNameRequired},
		{"Invalid type", ledger.AccountInput{Code: "1000", Name: "Cash", Type: "cash"}, models.ErrAccountTypeInvalid},
		{"Invalid subtype", ledger.AccountInput{Code: "1000", Name: "Cash", Type: models.AccountTypeAsset, Subtype: "payroll"}, models.ErrAccountSubtypeInvalid},
		{"Bank on expense", ledger.AccountInput{Code: "6000", Name: "Fees", Type: models.AccountTypeExpense, IsBankAccount: true}, models.ErrAccountBankNotAsset},
		{"Unknown parent", ledger.AccountInput{Code: "1000", Name: "Cash", Type: models.AccountTypeAsset, ParentAccountID: &uuid.UUID{1}, IsActive: &inactive}, models.ErrResourceNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			_, err := suite.engine.Accounts.CreateAccount(suite.ctx, suite.company.ID, tt.in)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	accounts, err := suite.engine.Accounts.Accounts(suite.ctx, suite.company.ID)
	suite.Require().Nil(err)
	suite.Assert().Len(accounts, 0, "No account must have been created")
}

func (suite *TestSuiteStandard) TestCreateAccountCodeNotUnique() {
	suite.createTestAccount(ledger.AccountInput{Code: "1000", Type: models.AccountTypeAsset})

	_, err := suite.engine.Accounts.CreateAccount(suite.ctx, suite.company.ID, ledger.AccountInput{
		Code: "1000",
		Name: "Petty Cash",
		Type: models.AccountTypeAsset,
	})
	suite.Assert().ErrorIs(err, models.ErrAccountCodeNotUnique)
	suite.Assert().ErrorIs(err, models.ErrConflict)

	// Codes are unique per company only
	other := suite.createTestCompany("Other Ltd")
	_, err = suite.engine.Accounts.CreateAccount(suite.ctx, other.ID, ledger.AccountInput{
		Code: "1000",
		Name: "Cash",
		Type: models.AccountTypeAsset,
	})
	suite.Assert().Nil(err)
}

func (suite *TestSuiteStandard) TestAccountOfOtherCompany() {
	other := suite.createTestCompany("Other Ltd")
	account, err := suite.engine.Accounts.CreateAccount(suite.ctx, other.ID, ledger.AccountInput{
		Code: "1000",
		Name: "Cash",
		Type: models.AccountTypeAsset,
	})
	suite.Require().Nil(err)

	_, err = suite.engine.Accounts.Account(suite.ctx, suite.company.ID, account.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
	suite.Assert().Equal("not_found", models.Kind(err))
}

func (suite *TestSuiteStandard) TestAccountParent() {
	expenses := suite.createTestAccount(ledger.AccountInput{Code: "6000", Type: models.AccountTypeExpense})
	revenue := suite.createTestAccount(ledger.AccountInput{Code: "4000", Type: models.AccountTypeRevenue})

	_, err := suite.engine.Accounts.CreateAccount(suite.ctx, suite.company.ID, ledger.AccountInput{
		Code:            "4100",
		Name:            "Services",
		Type:            models.AccountTypeRevenue,
		ParentAccountID: &expenses.ID,
	})
	suite.Assert().ErrorIs(err, models.ErrAccountParentTypeMismatch)

	_, err = suite.engine.Accounts.UpdateAccount(suite.ctx, suite.company.ID, revenue.ID, ledger.AccountPatch{
		SetParent:       true,
		ParentAccountID: &revenue.ID,
	})
	suite.Assert().ErrorIs(err, models.ErrAccountParentSelf)
}

func (suite *TestSuiteStandard) TestAccountParentCycle() {
	a := suite.createTestAccount(ledger.AccountInput{Code: "6000", Type: models.AccountTypeExpense})
	b := suite.createTestAccount(ledger.AccountInput{Code: "6100", Type: models.AccountTypeExpense, ParentAccountID: &a.ID})
	c := suite.createTestAccount(ledger.AccountInput{Code: "6110", Type: models.AccountTypeExpense, ParentAccountID: &b.ID})

	_, err := suite.engine.Accounts.UpdateAccount(suite.ctx, suite.company.ID, a.ID, ledger.AccountPatch{
		SetParent:       true,
		ParentAccountID: &c.ID,
	})
	suite.Assert().ErrorIs(err, models.ErrAccountParentCycle)
	suite.Assert().ErrorIs(err, models.ErrValidation)

	// Moving a leaf is fine
	c, err = suite.engine.Accounts.UpdateAccount(suite.ctx, suite.company.ID, c.ID, ledger.AccountPatch{
		SetParent:       true,
		ParentAccountID: &a.ID,
	})
	suite.Require().Nil(err)
	suite.Assert().Equal(a.ID, *c.ParentAccountID)

	// Removing the parent
	c, err = suite.engine.Accounts.UpdateAccount(suite.ctx, suite.company.ID, c.ID, ledger.AccountPatch{SetParent: true})
	suite.Require().Nil(err)
	suite.Assert().Nil(c.ParentAccountID)
}

func (suite *TestSuiteStandard) TestAccountDeepHierarchy() {
	root := suite.createTestAccount(ledger.AccountInput{Type: models.AccountTypeAsset})

	deepest := root
	for i := 0; i < 80; i++ {
		deepest = suite.createTestAccount(ledger.AccountInput{Type: models.AccountTypeAsset, ParentAccountID: &deepest.ID})
	}

	leaf := suite.createTestAccount(ledger.AccountInput{Type: models.AccountTypeAsset})
	leaf, err := suite.engine.Accounts.UpdateAccount(suite.ctx, suite.company.ID, leaf.ID, ledger.AccountPatch{
		SetParent:       true,
		ParentAccountID: &deepest.ID,
	})
	suite.Require().Nil(err)
	suite.Assert().Equal(deepest.ID, *leaf.ParentAccountID)

	_, err = suite.engine.Accounts.UpdateAccount(suite.ctx, suite.company.ID, root.ID, ledger.AccountPatch{
		SetParent:       true,
		ParentAccountID: &leaf.ID,
	})
	suite.Assert().ErrorIs(err, models.ErrAccountParentCycle)
}

func (suite *TestSuiteStandard) TestUpdateAccount() {
	account := suite.createTestAccount(ledger.AccountInput{Code: "1000", Name: "Cash", Type: models.AccountTypeAsset})

	name := "Cash at Bank"
	bank := true
	account, err := suite.engine.Accounts.UpdateAccount(suite.ctx, suite.company.ID, account.ID, ledger.AccountPatch{
		Name:          &name,
		IsBankAccount: &bank,
	})
	suite.Require().Nil(err)

	stored, err := suite.engine.Accounts.Account(suite.ctx, suite.company.ID, account.ID)
	suite.Require().Nil(err)
	suite.Assert().Equal("Cash at Bank", stored.Name)
	suite.Assert().True(stored.IsBankAccount)
	suite.Assert().Equal("1000", stored.Code)
}

func (suite *TestSuiteStandard) TestUpdateAccountType() {
	account := suite.createTestAccount(ledger.AccountInput{Code: "1000", Type: models.AccountTypeAsset, Subtype: "fixed"})

	expense := models.AccountTypeExpense
	account, err := suite.engine.Accounts.UpdateAccount(suite.ctx, suite.company.ID, account.ID, ledger.AccountPatch{Type: &expense})
	suite.Require().Nil(err)
	suite.Assert().Equal(models.NormalBalanceDebit, account.NormalBalance)
	suite.Assert().Equal(models.AccountSubtype(""), account.Subtype, "Subtype must be reset when it is invalid for the new type")

	revenue := models.AccountTypeRevenue
	account, err = suite.engine.Accounts.UpdateAccount(suite.ctx, suite.company.ID, account.ID, ledger.AccountPatch{Type: &revenue})
	suite.Require().Nil(err)
	suite.Assert().Equal(models.NormalBalanceCredit, account.NormalBalance)
}

func (suite *TestSuiteStandard) TestUpdateAccountTypeLocked() {
	cash := suite.createTestAccount(ledger.AccountInput{Code: "1000", Type: models.AccountTypeAsset})
	sales := suite.createTestAccount(ledger.AccountInput{Code: "4000", Type: models.AccountTypeRevenue})
	suite.createTestTransaction(cash, sales, 100, types.Today())

	liability := models.AccountTypeLiability
	_, err := suite.engine.Accounts.UpdateAccount(suite.ctx, suite.company.ID, cash.ID, ledger.AccountPatch{Type: &liability})
	suite.Assert().ErrorIs(err, models.ErrAccountTypeLocked)

	parent := suite.createTestAccount(ledger.AccountInput{Code: "6000", Type: models.AccountTypeExpense})
	suite.createTestAccount(ledger.AccountInput{Code: "6100", Type: models.AccountTypeExpense, ParentAccountID: &parent.ID})

	_, err = suite.engine.Accounts.UpdateAccount(suite.ctx, suite.company.ID, parent.ID, ledger.AccountPatch{Type: &liability})
	suite.Assert().ErrorIs(err, models.ErrAccountHasChildren)
}

func (suite *TestSuiteStandard) TestDeleteAccountWithBalance() {
	cash := suite.createTestAccount(ledger.AccountInput{Code: "1000", Type: models.AccountTypeAsset})
	capital := suite.createTestAccount(ledger.AccountInput{Code: "3000", Type: models.AccountTypeEquity})
	suite.postTestTransaction(cash, capital, 250, types.Today())

	err := suite.engine.Accounts.DeleteAccount(suite.ctx, suite.company.ID, cash.ID)
	suite.Assert().ErrorIs(err, models.ErrAccountBalanceNotZero)
	suite.Assert().ErrorIs(err, models.ErrConflict)

	account, err := suite.engine.Accounts.Account(suite.ctx, suite.company.ID, cash.ID)
	suite.Require().Nil(err, "The account must still exist")
	suite.Assert().Equal(int64(250), account.CurrentBalance)
}

func (suite *TestSuiteStandard) TestDeleteAccountReferenced() {
	cash := suite.createTestAccount(ledger.AccountInput{Code: "1000", Type: models.AccountTypeAsset})
	capital := suite.createTestAccount(ledger.AccountInput{Code: "3000", Type: models.AccountTypeEquity})
	transaction := suite.postTestTransaction(cash, capital, 250, types.Today())

	_, err := suite.engine.Transactions.ReverseTransaction(suite.ctx, suite.company.ID, transaction.ID, ledger.ReversalInput{})
	suite.Require().Nil(err)
	suite.Require().Equal(int64(0), suite.balance(cash))

	err = suite.engine.Accounts.DeleteAccount(suite.ctx, suite.company.ID, cash.ID)
	suite.Assert().ErrorIs(err, models.ErrAccountReferenced)
}

func (suite *TestSuiteStandard) TestDeleteAccount() {
	tests := []struct {
		name  string
		setup func() models.Account
		err   error
	}{
		{
			"Unused",
			func() models.Account {
				return suite.createTestAccount(ledger.AccountInput{Type: models.AccountTypeAsset})
			},
			nil,
		},
		{
			"System",
			func() models.Account {
				return suite.createTestAccount(ledger.AccountInput{Type: models.AccountTypeEquity, IsSystem: true})
			},
			models.ErrAccountSystem,
		},
		{
			"Parent",
			func() models.Account {
				parent := suite.createTestAccount(ledger.AccountInput{Type: models.AccountTypeExpense})
				suite.createTestAccount(ledger.AccountInput{Type: models.AccountTypeExpense, ParentAccountID: &parent.ID})
				return parent
			},
			models.ErrAccountHasChildren,
		},
		{
			"Budget scope",
			func() models.Account {
				account := suite.createTestAccount(ledger.AccountInput{Type: models.AccountTypeExpense})
				_, err := suite.engine.Budgets.CreateBudget(suite.ctx, suite.company.ID, ledger.BudgetInput{
					Name:        "Travel",
					Type:        models.BudgetTypeAnnual,
					PeriodStart: types.NewDate(2024, 1, 1),
					AccountID:   &account.ID,
				})
				suite.Require().Nil(err)
				return account
			},
			models.ErrAccountBudgetScope,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			account := tt.setup()
			err := suite.engine.Accounts.DeleteAccount(suite.ctx, suite.company.ID, account.ID)

			if tt.err == nil {
				assert.Nil(t, err)

				_, err = suite.engine.Accounts.Account(suite.ctx, suite.company.ID, account.ID)
				assert.ErrorIs(t, err, models.ErrResourceNotFound)
				return
			}

			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestDescendants() {
	root := suite.createTestAccount(ledger.AccountInput{Code: "6000", Type: models.AccountTypeExpense})
	salaries := suite.createTestAccount(ledger.AccountInput{Code: "6100", Type: models.AccountTypeExpense, ParentAccountID: &root.ID})
	suite.createTestAccount(ledger.AccountInput{Code: "6110", Type: models.AccountTypeExpense, ParentAccountID: &salaries.ID})
	suite.createTestAccount(ledger.AccountInput{Code: "6200", Type: models.AccountTypeExpense, ParentAccountID: &root.ID})
	suite.createTestAccount(ledger.AccountInput{Code: "5000", Type: models.AccountTypeExpense})

	accounts, err := suite.engine.Accounts.Descendants(suite.ctx, suite.company.ID, root.ID)
	suite.Require().Nil(err)

	codes := make([]string, 0, len(accounts))
	for _, a := range accounts {
		codes = append(codes, a.Code)
	}
	suite.Assert().Equal([]string{"6000", "6100", "6110", "6200"}, codes)

	accounts, err = suite.engine.Accounts.Descendants(suite.ctx, suite.company.ID, salaries.ID)
	suite.Require().Nil(err)
	suite.Assert().Len(accounts, 2)
}

func (suite *TestSuiteStandard) TestBalanceAsOf() {
	cash := suite.createTestAccount(ledger.AccountInput{Code: "1000", Type: models.AccountTypeAsset})
	sales := suite.createTestAccount(ledger.AccountInput{Code: "4000", Type: models.AccountTypeRevenue})

	suite.postTestTransaction(cash, sales, 500, types.NewDate(2024, 1, 10))
	suite.postTestTransaction(cash, sales, 300, types.NewDate(2024, 2, 10))
	suite.postTestTransaction(sales, cash, 100, types.NewDate(2024, 3, 10))

	// Pending transactions never count
	suite.createTestTransaction(cash, sales, 9999, types.NewDate(2024, 1, 5))

	tests := []struct {
		asOf  types.Date
		cash  int64
		sales int64
	}{
		{types.NewDate(2024, 1, 9), 0, 0},
		{types.NewDate(2024, 1, 10), 500, 500},
		{types.NewDate(2024, 2, 28), 800, 800},
		{types.NewDate(2024, 3, 10), 700, 700},
	}

	for _, tt := range tests {
		suite.T().Run(tt.asOf.String(), func(t *testing.T) {
			asOf := tt.asOf

			balance, err := suite.engine.Accounts.Balance(suite.ctx, suite.company.ID, cash.ID, &asOf)
			assert.Nil(t, err)
			assert.Equal(t, tt.cash, balance)

			balance, err = suite.engine.Accounts.Balance(suite.ctx, suite.company.ID, sales.ID, &asOf)
			assert.Nil(t, err)
			assert.Equal(t, tt.sales, balance)
		})
	}

	suite.Assert().Equal(int64(700), suite.balance(cash))
	suite.Assert().Equal(int64(700), suite.balance(sales))
}

func (suite *TestSuiteStandard) TestSeedDefaultChart() {
	company, err := suite.engine.Companies.CreateCompany(suite.ctx, ledger.CompanyInput{Name: "Seeded"}, ledger.DefaultChart())
	suite.Require().Nil(err)

	accounts, err := suite.engine.Accounts.Accounts(suite.ctx, company.ID)
	suite.Require().Nil(err)
	suite.Assert().Len(accounts, len(ledger.DefaultChart()))

	byCode := make(map[string]models.Account)
	for _, a := range accounts {
		byCode[a.Code] = a
	}

	suite.Assert().True(byCode["1000"].IsBankAccount)
	suite.Assert().True(byCode["3100"].IsSystem)
	suite.Assert().Equal(models.NormalBalanceCredit, byCode["4000"].NormalBalance)
	suite.Require().NotNil(byCode["6100"].ParentAccountID)
	suite.Assert().Equal(byCode["6000"].ID, *byCode["6100"].ParentAccountID)
}

func (suite *TestSuiteStandard) TestSeedChartUnknownParent() {
	_, err := suite.engine.Accounts.SeedChart(suite.ctx, suite.company.ID, []ledger.ChartEntry{
		{Code: "6000", Name: "Expenses", Type: models.AccountTypeExpense},
		{Code: "6100", Name: "Salaries", Type: models.AccountTypeExpense, Parent: "6900"},
	})
	suite.Assert().ErrorIs(err, models.ErrValidation)

	accounts, err := suite.engine.Accounts.Accounts(suite.ctx, suite.company.ID)
	suite.Require().Nil(err)
	suite.Assert().Len(accounts, 0, "Seeding must be all or nothing")
}
