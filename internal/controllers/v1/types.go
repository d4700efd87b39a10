package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hubworks/ledger/internal/httputil"
	"github.com/hubworks/ledger/internal/ledger"
	"github.com/hubworks/ledger/internal/models"
	ez_uuid "github.com/hubworks/ledger/internal/uuid"
	"golang.org/x/exp/slices"
)

// defaultLimit is the number of resources returned by list endpoints if
// no limit is requested.
const defaultLimit = 50

type URICompany struct {
	CompanyID ez_uuid.UUID `uri:"companyId" binding:"required" format:"UUID"` // ID of the company
}

type URIID struct {
	URICompany
	ID ez_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type URIItem struct {
	URIID
	ItemID ez_uuid.UUID `uri:"itemId" binding:"required" format:"UUID"` // ID of the budget item
}

type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint  `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}

// bindURI binds the path parameters of the request.
func bindURI(c *gin.Context, uri any) error {
	if err := c.ShouldBindUri(uri); err != nil {
		return httputil.ErrInvalidUUID
	}
	return nil
}

// engine returns the ledger engine on the current database connection.
func engine() *ledger.Engine {
	return ledger.New(models.DB)
}

// companyURL returns the URL of the company that resource links are built on.
func companyURL(c *gin.Context, companyID uuid.UUID) string {
	return fmt.Sprintf("%s/v1/companies/%s", c.GetString(string(models.ContextURL)), companyID)
}

// pageLimit returns the requested limit. It defaults to 50 if no limit
// is set in the query.
func pageLimit(setFields []string, requested int) int {
	if slices.Contains(setFields, "Limit") {
		return requested
	}
	return defaultLimit
}

// requireCompany returns an error if the company does not exist.
func requireCompany(c *gin.Context, id uuid.UUID) error {
	_, err := engine().Companies.Company(c, id)
	return err
}
