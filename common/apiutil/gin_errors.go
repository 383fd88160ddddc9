package apiutil

import (
	"github.com/Aidin1998/publications/pkg/errors"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error response structure for all APIs
//
// Example:
//
//	{
//	  "error": "Could not find paper with id 99999",
//	  "kind": "not_found"
//	}
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// WriteErrorResponse writes err with the status its kind maps to. Only the
// public message is sent; the cause stays server side. Messages contain
// literal <String> placeholders, so the body is not HTML-escaped.
func WriteErrorResponse(c *gin.Context, err error) {
	resp := ErrorResponse{Error: errors.PublicMessage(err)}
	if kind := errors.KindOf(err); kind != errors.KindUnknown {
		resp.Kind = string(kind)
	}
	c.PureJSON(errors.HTTPStatus(err), resp)
}

// ErrorMiddleware renders the last error a handler attached with c.Error,
// unless the handler already wrote a response.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		WriteErrorResponse(c, c.Errors.Last().Err)
		c.Abort()
	}
}
