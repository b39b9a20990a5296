package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"satoshi-ledger/internal/core/domain"
	"satoshi-ledger/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAuditLog_TransferSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAudit := mocks.NewMockAuditService(ctrl)

	var got *domain.AuditLog
	mockAudit.EXPECT().Log(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry *domain.AuditLog) {
			got = entry
		},
	)

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.POST("/api/v1/transactions", func(c *gin.Context) {
		c.Set(CtxUserID, int64(7))
		c.Set(CtxResourceID, "42")
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	if assert.NotNil(t, got) {
		assert.Equal(t, domain.AuditActionTransfer, got.Action)
		assert.Equal(t, "transaction", got.ResourceType)
		assert.Equal(t, "42", got.ResourceID)
		if assert.NotNil(t, got.UserID) {
			assert.Equal(t, int64(7), *got.UserID)
		}
		assert.Contains(t, got.Details, `"status":201`)
	}
}

func TestAuditLog_SkipsReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAudit := mocks.NewMockAuditService(ctrl)

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.GET("/api/v1/transactions", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuditLog_SkipsFailedRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAudit := mocks.NewMockAuditService(ctrl)

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.POST("/api/v1/wallets", func(c *gin.Context) {
		c.JSON(http.StatusForbidden, gin.H{"error": "limit"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/wallets", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouteAction(t *testing.T) {
	tests := []struct {
		method   string
		route    string
		action   domain.AuditAction
		resource string
	}{
		{http.MethodPost, "/api/v1/users", domain.AuditActionUserCreate, "user"},
		{http.MethodPost, "/api/v1/wallets", domain.AuditActionWalletCreate, "wallet"},
		{http.MethodPost, "/api/v1/transactions", domain.AuditActionTransfer, "transaction"},
		{http.MethodGet, "/api/v1/transactions", "", ""},
		{http.MethodPost, "/unknown", "", ""},
	}

	for _, tc := range tests {
		action, resource := routeAction(tc.method, tc.route)
		assert.Equal(t, tc.action, action, "%s %s", tc.method, tc.route)
		assert.Equal(t, tc.resource, resource, "%s %s", tc.method, tc.route)
	}
}
