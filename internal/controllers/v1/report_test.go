package v1_test

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	v1 "github.com/hubworks/ledger/internal/controllers/v1"
	"github.com/hubworks/ledger/internal/models"
	"github.com/hubworks/ledger/internal/types"
	"github.com/hubworks/ledger/test"
)

// reportCompany creates a company with a small first quarter of bookings.
func (suite *TestSuiteStandard) reportCompany() v1.Company {
	company, accounts := suite.seededCompany()

	book := func(date types.Date, debit, credit string, amount int64) v1.TransactionCreate {
		return v1.TransactionCreate{TransactionEditable: v1.TransactionEditable{
			Date:            date,
			DebitAccountID:  accounts[debit].ID,
			CreditAccountID: accounts[credit].ID,
			Amount:          amount,
		}}
	}

	suite.postTestTransaction(company.ID, book(types.NewDate(2024, 1, 5), "1000", "3000", 100000))
	suite.postTestTransaction(company.ID, book(types.NewDate(2024, 2, 10), "1000", "4000", 50000))
	suite.postTestTransaction(company.ID, book(types.NewDate(2024, 2, 15), "6200", "1000", 20000))
	suite.postTestTransaction(company.ID, book(types.NewDate(2024, 3, 20), "6100", "2000", 5000))

	// Pending transactions are not part of any report
	suite.createTestTransaction(company.ID, book(types.NewDate(2024, 2, 20), "6300", "1000", 999))

	return company
}

func (suite *TestSuiteStandard) TestReportsProfitAndLoss() {
	company := suite.reportCompany()

	tests := []struct {
		name     string
		query    string
		revenue  int64
		expenses int64
	}{
		{"First quarter", "from=2024-01-01&to=2024-03-31", 50000, 25000},
		{"February", "from=2024-02-01&to=2024-02-29", 50000, 20000},
		{"January", "from=2024-01-01&to=2024-01-31", 0, 0},
		{"Single day", "from=2024-03-20&to=2024-03-20", 0, 5000},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?%s", company.Links.ProfitLoss, tt.query), "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

			var report v1.ProfitAndLossResponse
			test.DecodeResponse(suite.T(), &r, &report)

			suite.Assert().Equal(tt.revenue, report.Data.TotalRevenue)
			suite.Assert().Equal(tt.expenses, report.Data.TotalExpenses)
			suite.Assert().Equal(tt.revenue-tt.expenses, report.Data.NetIncome)
			suite.Assert().Len(report.Data.Revenue, 3)
			suite.Assert().Len(report.Data.Expenses, 6)
		})
	}
}

func (suite *TestSuiteStandard) TestReportsBalanceSheet() {
	company := suite.reportCompany()

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?asOf=2024-03-31", company.Links.BalanceSheet), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var report v1.BalanceSheetResponse
	test.DecodeResponse(suite.T(), &r, &report)

	suite.Assert().True(report.Data.Balanced)
	suite.Assert().Empty(report.Data.Diagnostics)
	suite.Assert().Equal(int64(130000), report.Data.TotalAssets)
	suite.Assert().Equal(int64(5000), report.Data.TotalLiabilities)
	suite.Assert().Equal(int64(25000), report.Data.CurrentEarnings)
	suite.Assert().Equal(int64(125000), report.Data.TotalEquity)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?asOf=2024-01-31", company.Links.BalanceSheet), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &report)

	suite.Assert().True(report.Data.Balanced)
	suite.Assert().Equal(int64(100000), report.Data.TotalAssets)
	suite.Assert().Equal(int64(0), report.Data.CurrentEarnings)
	suite.Assert().Equal(int64(100000), report.Data.TotalEquity)
}

func (suite *TestSuiteStandard) TestReportsCashFlow() {
	company := suite.reportCompany()

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?from=2024-02-01&to=2024-03-31", company.Links.CashFlow), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var report v1.CashFlowResponse
	test.DecodeResponse(suite.T(), &r, &report)

	suite.Require().Len(report.Data.Accounts, 1)
	line := report.Data.Accounts[0]
	suite.Assert().Equal("1000", line.Code)
	suite.Assert().Equal(int64(100000), line.Opening)
	suite.Assert().Equal(int64(50000), line.Inflows)
	suite.Assert().Equal(int64(20000), line.Outflows)
	suite.Assert().Equal(int64(30000), line.Net)
	suite.Assert().Equal(int64(130000), line.Closing)
	suite.Assert().Equal(line.Closing, report.Data.TotalClosing)
}

func (suite *TestSuiteStandard) TestReportsFail() {
	company := suite.createTestCompany(v1.CompanyCreate{}).Data
	unknown := fmt.Sprintf("http://example.com/v1/companies/%s/reports", uuid.New())

	tests := []struct {
		name   string
		url    string
		status int
		err    string
	}{
		{"Profit and loss without end", fmt.Sprintf("%s?from=2024-01-01", company.Links.ProfitLoss), http.StatusBadRequest, models.ErrReportDateRequired.Error()},
		{"Profit and loss backwards", fmt.Sprintf("%s?from=2024-03-01&to=2024-02-01", company.Links.ProfitLoss), http.StatusBadRequest, models.ErrReportPeriodInvalid.Error()},
		{"Balance sheet without date", company.Links.BalanceSheet, http.StatusBadRequest, models.ErrReportDateRequired.Error()},
		{"Cash flow without dates", company.Links.CashFlow, http.StatusBadRequest, models.ErrReportDateRequired.Error()},
		{"Unknown company", fmt.Sprintf("%s/balance-sheet?asOf=2024-01-01", unknown), http.StatusNotFound, "there is no company matching your query"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := test.Request(suite.T(), http.MethodGet, tt.url, "")
			test.AssertHTTPStatus(suite.T(), &r, tt.status)
			suite.Assert().Equal(tt.err, test.DecodeError(suite.T(), r.Body.Bytes()))
		})
	}

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s?asOf=yesterday", company.Links.BalanceSheet), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestIntegrity() {
	company := suite.reportCompany()

	r := test.Request(suite.T(), http.MethodGet, company.Links.Integrity, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var report v1.IntegrityResponse
	test.DecodeResponse(suite.T(), &r, &report)
	suite.Assert().Nil(report.Error)
	suite.Assert().Equal(company.ID, report.Data.CompanyID)
	suite.Assert().Equal(int64(0), report.Data.Sum)
	suite.Assert().Equal(17, report.Data.Accounts)
	suite.Assert().Empty(report.Data.Drifts)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/companies/%s/integrity", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	test.DecodeResponse(suite.T(), &r, &report)
	suite.Assert().Nil(report.Data)
}
