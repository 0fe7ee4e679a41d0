package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

func operatorToken() string {
	if tok := os.Getenv("OPERATOR_TOKEN"); tok != "" {
		return tok
	}
	return "skillswap-operator-dev"
}

// OperatorAuthMiddleware guards the collaborator-facing operations (session
// completion, no-show marking) behind a static operator token.
func OperatorAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		if tokenString != operatorToken() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized operator access"})
			return
		}

		c.Set("isOperator", true)
		c.Next()
	}
}
