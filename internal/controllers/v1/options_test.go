package v1_test

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	v1 "github.com/hubworks/ledger/internal/controllers/v1"
	"github.com/hubworks/ledger/internal/types"
	"github.com/hubworks/ledger/test"
)

func (suite *TestSuiteStandard) TestOptions() {
	company, accounts := suite.seededCompany()

	transaction := suite.createTestTransaction(company.ID, v1.TransactionCreate{TransactionEditable: v1.TransactionEditable{
		DebitAccountID:  accounts["6200"].ID,
		CreditAccountID: accounts["1000"].ID,
		Amount:          1000,
	}}).Data

	budget := suite.createTestBudget(company.ID, v1.BudgetCreate{
		BudgetEditable: v1.BudgetEditable{PeriodStart: types.NewDate(2024, 1, 1)},
		Items:          []v1.BudgetItemEditable{{Name: "Rent", UnitPrice: 100000, Quantity: 12}},
	}).Data

	r := test.Request(suite.T(), http.MethodGet, budget.Links.Items, "")
	var items v1.BudgetItemListResponse
	test.DecodeResponse(suite.T(), &r, &items)
	suite.Require().Len(items.Data, 1)

	account := accounts["1000"]

	tests := []struct {
		url   string
		allow string
	}{
		{"http://example.com/v1", "OPTIONS, GET"},
		{"http://example.com/v1/companies", "OPTIONS, GET, POST"},
		{company.Links.Self, "OPTIONS, GET, PATCH, DELETE"},
		{company.Links.Accounts, "OPTIONS, GET, POST"},
		{account.Links.Self, "OPTIONS, GET, PATCH, DELETE"},
		{account.Links.Balance, "OPTIONS, GET"},
		{company.Links.Transactions, "OPTIONS, GET, POST"},
		{transaction.Links.Self, "OPTIONS, GET, PATCH"},
		{transaction.Links.Approve, "OPTIONS, POST"},
		{transaction.Links.Reject, "OPTIONS, POST"},
		{transaction.Links.Post, "OPTIONS, POST"},
		{transaction.Links.Reverse, "OPTIONS, POST"},
		{company.Links.Budgets, "OPTIONS, GET, POST"},
		{budget.Links.Self, "OPTIONS, GET, PATCH, DELETE"},
		{budget.Links.Items, "OPTIONS, GET, POST"},
		{items.Data[0].Links.Self, "OPTIONS, PATCH, DELETE"},
		{budget.Links.Progress, "OPTIONS, GET"},
		{company.Links.ProfitLoss, "OPTIONS, GET"},
		{company.Links.BalanceSheet, "OPTIONS, GET"},
		{company.Links.CashFlow, "OPTIONS, GET"},
		{company.Links.Integrity, "OPTIONS, GET"},
	}

	for _, tt := range tests {
		suite.Run(tt.url, func() {
			r := test.Request(suite.T(), http.MethodOptions, tt.url, "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
			suite.Assert().Equal(tt.allow, r.Header().Get("allow"))
		})
	}
}

func (suite *TestSuiteStandard) TestOptionsNotFound() {
	company := suite.createTestCompany(v1.CompanyCreate{}).Data
	unknownCompany := fmt.Sprintf("http://example.com/v1/companies/%s", uuid.New())

	tests := []string{
		unknownCompany,
		unknownCompany + "/accounts",
		unknownCompany + "/transactions",
		unknownCompany + "/budgets",
		unknownCompany + "/reports/balance-sheet",
		unknownCompany + "/integrity",
		fmt.Sprintf("%s/%s", company.Links.Accounts, uuid.New()),
		fmt.Sprintf("%s/%s/balance", company.Links.Accounts, uuid.New()),
		fmt.Sprintf("%s/%s", company.Links.Transactions, uuid.New()),
		fmt.Sprintf("%s/%s/approve", company.Links.Transactions, uuid.New()),
		fmt.Sprintf("%s/%s", company.Links.Budgets, uuid.New()),
		fmt.Sprintf("%s/%s/items", company.Links.Budgets, uuid.New()),
		fmt.Sprintf("%s/%s/items/%s", company.Links.Budgets, uuid.New(), uuid.New()),
		fmt.Sprintf("%s/%s/progress", company.Links.Budgets, uuid.New()),
	}

	for _, url := range tests {
		suite.Run(url, func() {
			r := test.Request(suite.T(), http.MethodOptions, url, "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
		})
	}

	r := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/companies/not-a-uuid", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
