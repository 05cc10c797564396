package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DynamoDB key size limits in bytes.
const (
	MaxPartitionKeyBytes = 2048
	MaxSortKeyBytes      = 1024
)

// KeyParam is a path parameter holding a key attribute and its size limit.
type KeyParam struct {
	Name     string
	MaxBytes int
}

// Check reports an error when value is empty or longer than MaxBytes bytes.
func (p KeyParam) Check(value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", p.Name)
	}
	if len(value) > p.MaxBytes {
		return fmt.Errorf("%s must be at most %d bytes", p.Name, p.MaxBytes)
	}
	return nil
}

// KeyParamMiddleware rejects requests whose key path parameters are empty or
// exceed the table's key size limits.
func KeyParamMiddleware(params ...KeyParam) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, p := range params {
			if err := p.Check(c.Param(p.Name)); err != nil {
				abortInvalid(c, err.Error())
				return
			}
		}
		c.Next()
	}
}

func abortInvalid(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": message,
		"data":    nil,
		"kind":    "VALIDATION",
	})
}
