package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/salonflow/salon-queue/internal/httperr"
)

// writeBusinessError maps a use-case error to an HTTP response: business
// codes become 400s with their code, anything else is a 500 with a generic
// code. Use-case errors are non-fatal; the client may simply retry.
func writeBusinessError(c *gin.Context, err error, fallbackCode, fallbackMsg string) {
	var be httperr.BusinessError
	if errors.As(err, &be) {
		httperr.BadRequest(c, be.Code, be.Code)
		return
	}
	httperr.Internal(c, fallbackCode, fallbackMsg)
}
