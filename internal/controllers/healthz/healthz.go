package healthz

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hubworks/ledger/internal/httputil"
	"github.com/hubworks/ledger/internal/models"
)

func RegisterRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", Options)
	r.GET("", Get)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/healthz [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get health
// @Description	Checks that the ledger database is reachable. Returns an error if it is not.
// @Tags			General
// @Produce		json
// @Success		204
// @Failure		500	{object}	httputil.HTTPError
// @Router			/healthz [get]
func Get(c *gin.Context) {
	if err := models.Ping(c.Request.Context()); err != nil {
		httputil.AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
