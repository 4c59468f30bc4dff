package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "centsible/internal/errors"
	"centsible/internal/services"
)

// SyncHandler handles bank-feed link and sync requests.
type SyncHandler struct {
	syncService  services.SyncServicer
	auditService services.AuditServicer
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(syncService services.SyncServicer, auditService services.AuditServicer) *SyncHandler {
	return &SyncHandler{syncService: syncService, auditService: auditService}
}

// LinkRequest carries the public token from the provider's link flow.
type LinkRequest struct {
	PublicToken string `json:"public_token" binding:"required"`
}

// Link exchanges a public token and creates accounts for the linked item.
// @Summary     Link a bank item
// @Description Exchange a link-flow public token and import the item's accounts
// @Tags        sync
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body LinkRequest true "Public token"
// @Success     201 {array} models.Account "Linked accounts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Bank feed unavailable"
// @Router      /sync/link [post]
func (h *SyncHandler) Link(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	accounts, err := h.syncService.LinkItem(c.Request.Context(), req.PublicToken)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "LINK_BANK_ITEM", "account", "", c.ClientIP(),
		map[string]interface{}{"accounts": len(accounts)})

	c.JSON(http.StatusCreated, gin.H{"accounts": accounts})
}

// SyncAccount pulls recent transactions for a linked account.
// @Summary     Sync an account
// @Description Pull recent transactions from the bank feed for a linked account
// @Tags        sync
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} services.SyncResult "Sync result"
// @Failure     400 {object} ErrorResponse "Account not linked"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     502 {object} ErrorResponse "Bank feed unavailable"
// @Router      /sync/accounts/{id} [post]
func (h *SyncHandler) SyncAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.syncService.SyncAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SYNC_ACCOUNT", "account", result.AccountID, c.ClientIP(),
		map[string]interface{}{"added": result.Added, "skipped": result.Skipped})

	c.JSON(http.StatusOK, result)
}
