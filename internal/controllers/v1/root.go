package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hubworks/ledger/internal/httputil"
	"github.com/hubworks/ledger/internal/models"
)

// RegisterRoutes registers all v1 routes with the RouterGroup that is passed.
func RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", Get)
	r.OPTIONS("", Options)

	RegisterCompanyRoutes(r.Group("/companies"))

	company := r.Group("/companies/:companyId")
	RegisterAccountRoutes(company.Group("/accounts"))
	RegisterTransactionRoutes(company.Group("/transactions"))
	RegisterBudgetRoutes(company.Group("/budgets"))
	RegisterReportRoutes(company.Group("/reports"))
	RegisterIntegrityRoutes(company.Group("/integrity"))
}

type Response struct {
	Links Links `json:"links"` // Links for the v1 API
}

type Links struct {
	Companies string `json:"companies" example:"https://example.com/api/v1/companies"` // URL of company list endpoint
}

// @Summary		v1 API
// @Description	Returns general information about the v1 API
// @Tags			v1
// @Success		200	{object}	Response
// @Router			/v1 [get]
func Get(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Links: Links{
			Companies: c.GetString(string(models.ContextURL)) + "/v1/companies",
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			v1
// @Success		204
// @Router			/v1 [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}
