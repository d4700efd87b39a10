package v1_test

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	v1 "github.com/hubworks/ledger/internal/controllers/v1"
	"github.com/hubworks/ledger/internal/ledger"
	"github.com/hubworks/ledger/internal/models"
	"github.com/hubworks/ledger/internal/types"
	"github.com/hubworks/ledger/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestBudgetsCreate() {
	company, accounts := suite.seededCompany()
	software := accounts["6300"].ID

	budget := suite.createTestBudget(company.ID, v1.BudgetCreate{
		BudgetEditable: v1.BudgetEditable{
			Name:           "Tooling 2024",
			Type:           models.BudgetTypeAnnual,
			PeriodStart:    types.NewDate(2024, 1, 1),
			AccountID:      &software,
			BudgetedAmount: 500000,
		},
		Items: []v1.BudgetItemEditable{
			{Name: "Design licenses", Category: "Software", Quantity: 3, UnitPrice: 60000},
			{Name: "Hosting", Category: "Infrastructure", UnitPrice: 240000},
		},
	})

	suite.Assert().Equal(types.NewDate(2024, 12, 31), budget.Data.PeriodEnd, "Annual budgets end after one year")
	suite.Assert().Equal(fmt.Sprintf("%s/budgets/%s/items", company.Links.Self, budget.Data.ID), budget.Data.Links.Items)

	r := test.Request(suite.T(), http.MethodGet, budget.Data.Links.Items, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var items v1.BudgetItemListResponse
	test.DecodeResponse(suite.T(), &r, &items)
	suite.Require().Len(items.Data, 2)
	suite.Assert().Equal("Design licenses", items.Data[0].Name)
	suite.Assert().Equal(int64(180000), items.Data[0].LineTotal)
	suite.Assert().Equal(int64(1), items.Data[1].Quantity, "Quantity defaults to 1")
	suite.Assert().Equal(1, items.Data[1].Position)
}

func (suite *TestSuiteStandard) TestBudgetsCreateFails() {
	company := suite.createTestCompany(v1.CompanyCreate{}).Data
	nonExisting := uuid.New()

	tests := []struct {
		name   string
		budget v1.BudgetCreate
		status int
		err    error
	}{
		{"No period", v1.BudgetCreate{BudgetEditable: v1.BudgetEditable{Name: "Marketing"}}, http.StatusBadRequest, models.ErrBudgetPeriodRequired},
		{"Invalid type", v1.BudgetCreate{BudgetEditable: v1.BudgetEditable{Name: "Marketing", Type: "weekly", PeriodStart: types.NewDate(2024, 1, 1)}}, http.StatusBadRequest, models.ErrBudgetTypeInvalid},
		{"Project without end", v1.BudgetCreate{BudgetEditable: v1.BudgetEditable{Name: "Relaunch", Type: models.BudgetTypeProject, PeriodStart: types.NewDate(2024, 1, 1)}}, http.StatusBadRequest, models.ErrBudgetPeriodRequired},
		{"End before start", v1.BudgetCreate{BudgetEditable: v1.BudgetEditable{Name: "Relaunch", Type: models.BudgetTypeProject, PeriodStart: types.NewDate(2024, 6, 1), PeriodEnd: types.NewDate(2024, 5, 1)}}, http.StatusBadRequest, models.ErrBudgetPeriodInvalid},
		{"Negative amount", v1.BudgetCreate{BudgetEditable: v1.BudgetEditable{Name: "Marketing", PeriodStart: types.NewDate(2024, 1, 1), BudgetedAmount: -1}}, http.StatusBadRequest, models.ErrBudgetAmountNegative},
		{"Item without name", v1.BudgetCreate{BudgetEditable: v1.BudgetEditable{Name: "Marketing", PeriodStart: types.NewDate(2024, 1, 1)}, Items: []v1.BudgetItemEditable{{UnitPrice: 100}}}, http.StatusBadRequest, models.ErrBudgetItemNameRequired},
		{"Item with negative price", v1.BudgetCreate{BudgetEditable: v1.BudgetEditable{Name: "Marketing", PeriodStart: types.NewDate(2024, 1, 1)}, Items: []v1.BudgetItemEditable{{Name: "Flyers", UnitPrice: -100}}}, http.StatusBadRequest, models.ErrBudgetItemUnitPrice},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			budget := suite.createTestBudget(company.ID, tt.budget, tt.status)
			suite.Require().NotNil(budget.Error)
			suite.Assert().Equal(tt.err.Error(), budget.Error.Message)
		})
	}

	budget := suite.createTestBudget(company.ID, v1.BudgetCreate{BudgetEditable: v1.BudgetEditable{
		Name:        "Marketing",
		PeriodStart: types.NewDate(2024, 1, 1),
		AccountID:   &nonExisting,
	}}, http.StatusNotFound)
	suite.Assert().Equal("not_found", budget.Error.Kind)
}

func (suite *TestSuiteStandard) TestBudgetsGetFilter() {
	company, accounts := suite.seededCompany()
	travel := accounts["6400"].ID

	suite.createTestBudget(company.ID, v1.BudgetCreate{BudgetEditable: v1.BudgetEditable{
		Name:        "Company 2023",
		PeriodStart: types.NewDate(2023, 1, 1),
	}})
	suite.createTestBudget(company.ID, v1.BudgetCreate{BudgetEditable: v1.BudgetEditable{
		Name:        "Company 2024",
		PeriodStart: types.NewDate(2024, 1, 1),
	}})
	suite.createTestBudget(company.ID, v1.BudgetCreate{BudgetEditable: v1.BudgetEditable{
		Name:         "Sales travel Q1",
		Type:         models.BudgetTypeQuarterly,
		PeriodStart:  types.NewDate(2024, 1, 1),
		DepartmentID: "sales",
		AccountID:    &travel,
	}})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 3},
		{"Type", "type=annual", 2},
		{"Department", "departmentId=sales", 1},
		{"Account", fmt.Sprintf("account=%s", travel), 1},
		{"Without account", "account=", 2},
		{"Name", "name=company", 2},
		{"Active on", "activeOn=2024-02-15", 2},
		{"Active after quarter", "activeOn=2024-05-01", 1},
		{"Active on last day", "activeOn=2023-12-31", 1},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?%s", company.Links.Budgets, tt.query), "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

			var response v1.BudgetListResponse
			test.DecodeResponse(suite.T(), &r, &response)
			suite.Assert().Len(response.Data, tt.len)
		})
	}
}

func (suite *TestSuiteStandard) TestBudgetsUpdate() {
	company, accounts := suite.seededCompany()
	rent := accounts["6200"].ID

	budget := suite.createTestBudget(company.ID, v1.BudgetCreate{BudgetEditable: v1.BudgetEditable{
		Name:           "Rent",
		PeriodStart:    types.NewDate(2024, 1, 1),
		AccountID:      &rent,
		BudgetedAmount: 1800000,
	}})

	r := test.Request(suite.T(), http.MethodPatch, budget.Data.Links.Self, map[string]any{
		"budgetedAmount": 2000000,
		"accountId":      nil,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().Equal(int64(2000000), updated.Data.BudgetedAmount)
	suite.Assert().Nil(updated.Data.AccountID)
	suite.Assert().Equal("Rent", updated.Data.Name)

	r = test.Request(suite.T(), http.MethodPatch, budget.Data.Links.Self, map[string]any{"periodEnd": "2023-12-01"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal(models.ErrBudgetPeriodInvalid.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))
}

func (suite *TestSuiteStandard) TestBudgetsDelete() {
	company, accounts := suite.seededCompany()
	rent := accounts["6200"]

	budget := suite.createTestBudget(company.ID, v1.BudgetCreate{
		BudgetEditable: v1.BudgetEditable{
			Name:        "Rent",
			PeriodStart: types.NewDate(2024, 1, 1),
			AccountID:   &rent.ID,
		},
		Items: []v1.BudgetItemEditable{{Name: "Office", UnitPrice: 150000, Quantity: 12}},
	})

	// The budget scope account cannot be deleted
	r := test.Request(suite.T(), http.MethodDelete, rent.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)

	r = test.Request(suite.T(), http.MethodDelete, budget.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, budget.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.T(), http.MethodGet, budget.Data.Links.Items, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.T(), http.MethodDelete, rent.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
}

func (suite *TestSuiteStandard) TestBudgetItems() {
	company := suite.createTestCompany(v1.CompanyCreate{}).Data

	budget := suite.createTestBudget(company.ID, v1.BudgetCreate{
		BudgetEditable: v1.BudgetEditable{
			Name:           "Hardware",
			PeriodStart:    types.NewDate(2024, 1, 1),
			BudgetedAmount: 1000000,
		},
		Items: []v1.BudgetItemEditable{
			{Name: "Laptop", Category: "Computers", Quantity: 2, UnitPrice: 150000},
			{Name: "Monitor", Category: "Peripherals", Quantity: 2, UnitPrice: 40000},
		},
	}).Data

	r := test.Request(suite.T(), http.MethodPost, budget.Links.Items, v1.BudgetItemEditable{Name: "Docking station", Category: "Peripherals", Quantity: 2, UnitPrice: 20000})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var item v1.BudgetItemResponse
	test.DecodeResponse(suite.T(), &r, &item)
	suite.Assert().Equal(2, item.Data.Position, "New items are appended")
	suite.Assert().Equal(int64(40000), item.Data.LineTotal)
	suite.Assert().Equal(budget.Links.Self, item.Data.Links.Budget)

	r = test.Request(suite.T(), http.MethodPost, budget.Links.Items, v1.BudgetItemEditable{Name: "Keyboard", Quantity: -1})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal(models.ErrBudgetItemQuantity.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))

	r = test.Request(suite.T(), http.MethodPatch, item.Data.Links.Self, map[string]any{"unitPrice": 25000})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &item)
	suite.Assert().Equal(int64(50000), item.Data.LineTotal)
	suite.Assert().Equal(2, item.Data.Position)

	r = test.Request(suite.T(), http.MethodGet, budget.Links.Items, "")
	var items v1.BudgetItemListResponse
	test.DecodeResponse(suite.T(), &r, &items)
	suite.Require().Len(items.Data, 3)

	// Moving the laptop to the end
	r = test.Request(suite.T(), http.MethodPatch, items.Data[0].Links.Self, map[string]any{"position": 5})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodGet, budget.Links.Items, "")
	test.DecodeResponse(suite.T(), &r, &items)
	suite.Require().Len(items.Data, 3)
	suite.Assert().Equal("Monitor", items.Data[0].Name)
	suite.Assert().Equal("Docking station", items.Data[1].Name)
	suite.Assert().Equal("Laptop", items.Data[2].Name)

	r = test.Request(suite.T(), http.MethodGet, budget.Links.Progress, "")
	var progress v1.BudgetProgressResponse
	test.DecodeResponse(suite.T(), &r, &progress)
	suite.Assert().Equal(int64(430000), progress.Data.Allocated)
	suite.Assert().Equal(int64(570000), progress.Data.AllocationVariance)
	suite.Assert().Equal([]ledger.CategoryAllocation{
		{Category: "Computers", Allocated: 300000, Items: 1},
		{Category: "Peripherals", Allocated: 130000, Items: 2},
	}, progress.Data.Categories)

	r = test.Request(suite.T(), http.MethodDelete, items.Data[2].Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodDelete, items.Data[2].Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	// Items are only reachable through their budget
	other := suite.createTestBudget(company.ID, v1.BudgetCreate{BudgetEditable: v1.BudgetEditable{
		Name:        "Other",
		PeriodStart: types.NewDate(2024, 1, 1),
	}}).Data

	r = test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("%s/%s", other.Links.Items, items.Data[0].ID), map[string]any{"name": "Moved"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestBudgetsProgress() {
	company, accounts := suite.seededCompany()
	operating := accounts["6000"].ID

	budget := suite.createTestBudget(company.ID, v1.BudgetCreate{BudgetEditable: v1.BudgetEditable{
		Name:           "Operations Q1",
		Type:           models.BudgetTypeQuarterly,
		PeriodStart:    types.NewDate(2024, 1, 1),
		AccountID:      &operating,
		BudgetedAmount: 100000,
	}}).Data

	spend := func(code string, date types.Date, amount int64) v1.Transaction {
		return suite.postTestTransaction(company.ID, v1.TransactionCreate{TransactionEditable: v1.TransactionEditable{
			Date:            date,
			DebitAccountID:  accounts[code].ID,
			CreditAccountID: accounts["1000"].ID,
			Amount:          amount,
		}})
	}

	spend("6100", types.NewDate(2024, 1, 31), 60000)
	spend("6200", types.NewDate(2024, 3, 31), 35000)
	reversed := spend("6300", types.NewDate(2024, 2, 10), 20000)

	// Outside of the period or the account scope
	spend("6200", types.NewDate(2024, 4, 1), 50000)
	spend("5000", types.NewDate(2024, 2, 1), 50000)

	suite.transactionAction(reversed.Links.Reverse, v1.TransactionReverse{Date: types.NewDate(2024, 2, 11)}, http.StatusCreated)

	r := test.Request(suite.T(), http.MethodGet, budget.Links.Progress, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var progress v1.BudgetProgressResponse
	test.DecodeResponse(suite.T(), &r, &progress)

	suite.Assert().Equal(types.NewDate(2024, 3, 31), progress.Data.PeriodEnd)
	suite.Assert().Equal(int64(95000), progress.Data.Actual)
	suite.Assert().Equal(int64(5000), progress.Data.Remaining)
	suite.Assert().True(decimal.NewFromInt(95).Equal(progress.Data.Utilization), "Utilization is %s", progress.Data.Utilization)
	suite.Assert().Equal(ledger.UtilizationWarning, progress.Data.Status)
	suite.Assert().Equal(int64(4), progress.Data.Transactions)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s/budgets/%s/progress", company.Links.Self, uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
