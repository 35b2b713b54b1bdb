package apperr

import (
	"log"

	"github.com/gin-gonic/gin"
)

// Response is the uniform envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func Success(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// Abort writes the envelope for err and stops the handler chain.
func Abort(c *gin.Context, err error) {
	ae := From(err)
	if ae.Kind == KindDatabase || ae.Kind == KindInternal {
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, ae)
	}
	c.AbortWithStatusJSON(ae.Kind.StatusCode(), Response{
		Success: false,
		Error:   ae.Message(),
	})
}
