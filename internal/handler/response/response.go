package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"paygram/pkg/errno"
)

// Response is the standard JSON envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"msg"`
	Data    interface{} `json:"data"`
}

// Success returns a success response with data.
func Success(c *gin.Context, data interface{}) {
	if data == nil {
		data = gin.H{} // empty object instead of null
	}
	c.JSON(http.StatusOK, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Error returns an error response. Business errors still travel over HTTP
// 200; the envelope code carries the failure.
func Error(c *gin.Context, err error) {
	code, msg := errno.Decode(err)
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: msg,
		Data:    gin.H{},
	})
}
