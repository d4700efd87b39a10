package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hubworks/ledger/internal/httputil"
	"github.com/hubworks/ledger/internal/ledger"
	"github.com/hubworks/ledger/internal/types"
)

func RegisterReportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/profit-and-loss", OptionsReport)
	r.GET("/profit-and-loss", GetProfitAndLoss)
	r.OPTIONS("/balance-sheet", OptionsReport)
	r.GET("/balance-sheet", GetBalanceSheet)
	r.OPTIONS("/cash-flow", OptionsReport)
	r.GET("/cash-flow", GetCashFlow)
}

func RegisterIntegrityRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsIntegrity)
	r.GET("", GetIntegrity)
}

type ReportPeriodQuery struct {
	From types.Date `form:"from"` // First day of the period, inclusive
	To   types.Date `form:"to"`   // Last day of the period, inclusive
}

type ReportDateQuery struct {
	AsOf types.Date `form:"asOf"` // Date of the report, inclusive
}

type ProfitAndLossResponse struct {
	Error *httputil.ErrorObject `json:"error"` // The error, if any occurred
	Data  *ledger.ProfitAndLoss `json:"data"`  // The profit and loss statement
}

type BalanceSheetResponse struct {
	Error *httputil.ErrorObject `json:"error"` // The error, if any occurred
	Data  *ledger.BalanceSheet  `json:"data"`  // The balance sheet
}

type CashFlowResponse struct {
	Error *httputil.ErrorObject `json:"error"` // The error, if any occurred
	Data  *ledger.CashFlow      `json:"data"`  // The cash flow statement
}

type IntegrityResponse struct {
	Error *httputil.ErrorObject   `json:"error"` // The error, if any occurred
	Data  *ledger.IntegrityReport `json:"data"`  // The verification result
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reports
// @Success		204
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Param			companyId	path		string	true	"ID of the company"
// @Router			/v1/companies/{companyId}/reports/profit-and-loss [options]
// @Router			/v1/companies/{companyId}/reports/balance-sheet [options]
// @Router			/v1/companies/{companyId}/reports/cash-flow [options]
func OptionsReport(c *gin.Context) {
	var uri URICompany
	if err := bindURI(c, &uri); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	if err := requireCompany(c, uri.CompanyID.UUID); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Profit and loss statement
// @Description	Sums revenue and expenses of the transactions posted in the period
// @Tags			Reports
// @Produce		json
// @Success		200			{object}	ProfitAndLossResponse
// @Failure		400			{object}	ProfitAndLossResponse
// @Failure		404			{object}	ProfitAndLossResponse
// @Failure		500			{object}	ProfitAndLossResponse
// @Param			companyId	path		string	true	"ID of the company"
// @Param			from		query		string	true	"First day of the period, YYYY-MM-DD"
// @Param			to			query		string	true	"Last day of the period, YYYY-MM-DD"
// @Router			/v1/companies/{companyId}/reports/profit-and-loss [get]
func GetProfitAndLoss(c *gin.Context) {
	var uri URICompany
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), ProfitAndLossResponse{Error: httputil.NewError(c, err)})
		return
	}

	var query ReportPeriodQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, ProfitAndLossResponse{Error: httputil.NewError(c, err)})
		return
	}

	report, err := engine().Reports.ProfitAndLoss(c, uri.CompanyID.UUID, query.From, query.To)
	if err != nil {
		c.JSON(httputil.Status(err), ProfitAndLossResponse{Error: httputil.NewError(c, err)})
		return
	}

	c.JSON(http.StatusOK, ProfitAndLossResponse{Data: &report})
}

// @Summary		Balance sheet
// @Description	Returns assets, liabilities and equity as of a date. Earnings not yet closed are part of the equity.
// @Description	If the balance sheet does not balance, the report is returned together with an integrity error.
// @Tags			Reports
// @Produce		json
// @Success		200			{object}	BalanceSheetResponse
// @Failure		400			{object}	BalanceSheetResponse
// @Failure		404			{object}	BalanceSheetResponse
// @Failure		500			{object}	BalanceSheetResponse
// @Param			companyId	path		string	true	"ID of the company"
// @Param			asOf		query		string	true	"Date of the balance sheet, YYYY-MM-DD"
// @Router			/v1/companies/{companyId}/reports/balance-sheet [get]
func GetBalanceSheet(c *gin.Context) {
	var uri URICompany
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), BalanceSheetResponse{Error: httputil.NewError(c, err)})
		return
	}

	var query ReportDateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, BalanceSheetResponse{Error: httputil.NewError(c, err)})
		return
	}

	report, err := engine().Reports.BalanceSheet(c, uri.CompanyID.UUID, query.AsOf)
	if err != nil {
		r := BalanceSheetResponse{Error: httputil.NewError(c, err)}
		if len(report.Diagnostics) > 0 {
			r.Data = &report
		}
		c.JSON(httputil.Status(err), r)
		return
	}

	c.JSON(http.StatusOK, BalanceSheetResponse{Data: &report})
}

// @Summary		Cash flow statement
// @Description	Returns opening balance, inflows, outflows and closing balance of all bank accounts for the period
// @Tags			Reports
// @Produce		json
// @Success		200			{object}	CashFlowResponse
// @Failure		400			{object}	CashFlowResponse
// @Failure		404			{object}	CashFlowResponse
// @Failure		500			{object}	CashFlowResponse
// @Param			companyId	path		string	true	"ID of the company"
// @Param			from		query		string	true	"First day of the period, YYYY-MM-DD"
// @Param			to			query		string	true	"Last day of the period, YYYY-MM-DD"
// @Router			/v1/companies/{companyId}/reports/cash-flow [get]
func GetCashFlow(c *gin.Context) {
	var uri URICompany
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), CashFlowResponse{Error: httputil.NewError(c, err)})
		return
	}

	var query ReportPeriodQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, CashFlowResponse{Error: httputil.NewError(c, err)})
		return
	}

	report, err := engine().Reports.CashFlow(c, uri.CompanyID.UUID, query.From, query.To)
	if err != nil {
		c.JSON(httputil.Status(err), CashFlowResponse{Error: httputil.NewError(c, err)})
		return
	}

	c.JSON(http.StatusOK, CashFlowResponse{Data: &report})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Integrity
// @Success		204
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Param			companyId	path		string	true	"ID of the company"
// @Router			/v1/companies/{companyId}/integrity [options]
func OptionsIntegrity(c *gin.Context) {
	OptionsReport(c)
}

// @Summary		Verify ledger
// @Description	Verifies that all balances of the company sum to zero and that every stored balance matches its posted transactions.
// @Description	On failure, the report is returned together with an integrity error.
// @Tags			Integrity
// @Produce		json
// @Success		200			{object}	IntegrityResponse
// @Failure		400			{object}	IntegrityResponse
// @Failure		404			{object}	IntegrityResponse
// @Failure		500			{object}	IntegrityResponse
// @Param			companyId	path		string	true	"ID of the company"
// @Router			/v1/companies/{companyId}/integrity [get]
func GetIntegrity(c *gin.Context) {
	var uri URICompany
	if err := bindURI(c, &uri); err != nil {
		c.JSON(httputil.Status(err), IntegrityResponse{Error: httputil.NewError(c, err)})
		return
	}

	report, err := engine().Transactions.Verify(c, uri.CompanyID.UUID)
	if err != nil {
		r := IntegrityResponse{Error: httputil.NewError(c, err)}

		// Failed checks carry the report, lookup errors an empty one
		if report.CompanyID == uri.CompanyID.UUID {
			r.Data = &report
		}
		c.JSON(httputil.Status(err), r)
		return
	}

	c.JSON(http.StatusOK, IntegrityResponse{Data: &report})
}
