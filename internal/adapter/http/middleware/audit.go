package middleware

import (
	"encoding/json"
	"net/http"

	"satoshi-ledger/internal/core/domain"
	"satoshi-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
)

// AuditLog records successful writes once the handler has responded.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		action, resourceType := routeAction(c.Request.Method, c.FullPath())
		if action == "" {
			return
		}

		entry := &domain.AuditLog{
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.GetString(CtxResourceID),
			IPAddress:    c.ClientIP(),
		}
		if v, ok := c.Get(CtxUserID); ok {
			if id, ok := v.(int64); ok {
				entry.UserID = &id
			}
		}
		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": status,
		})
		entry.Details = string(details)

		auditSvc.Log(c.Request.Context(), entry)
	}
}

func routeAction(method, route string) (domain.AuditAction, string) {
	if method != http.MethodPost {
		return "", ""
	}
	switch route {
	case "/api/v1/users":
		return domain.AuditActionUserCreate, "user"
	case "/api/v1/wallets":
		return domain.AuditActionWalletCreate, "wallet"
	case "/api/v1/transactions":
		return domain.AuditActionTransfer, "transaction"
	}
	return "", ""
}
