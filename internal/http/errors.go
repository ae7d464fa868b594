package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/anupam1005/SmartFarmAI/pkg/logger"
)

const (
	codeDatabaseError       = "database_error"
	codeDatabaseTimeout     = "database_timeout"
	codeDatabaseUnavailable = "database_unavailable"
	codeEncodingError       = "encoding_error"
	codeUnauthorized        = "unauthorized"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// fail logs err against the request and aborts with the JSON error envelope.
// The cause is never sent to the client.
func (s *Server) fail(c *gin.Context, status int, code, msg string, err error) {
	s.log.Error(c.Request.Context(), msg,
		logger.String("request_id", c.GetString(requestIDKey)),
		logger.String("path", c.Request.URL.Path),
		logger.Int("status", status),
		logger.Error(err),
	)
	c.AbortWithStatusJSON(status, errorResponse{Code: code, Message: msg})
}
