package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/chatterbox/errors"
)

// JSON writes the uniform response envelope. err may be nil.
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	responsedata := gin.H{
		"message": message,
		"data":    data,
		"errors":  nil,
		"status":  http.StatusText(status),
	}
	if err != nil {
		responsedata["errors"] = err.Error()
	}
	c.JSON(status, responsedata)
}

// HandleErrors maps service errors to a response. Anything that is not an
// *errs.Error is collapsed to a generic internal error; the original error is
// logged for diagnostics, not returned to the client.
func HandleErrors(c *gin.Context, err error) {
	if apiErr, ok := err.(*errs.Error); ok {
		JSON(c, "", apiErr.Status, nil, apiErr)
		return
	}
	log.Printf("unexpected error: %v", err)
	JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
}
