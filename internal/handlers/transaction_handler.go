package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "centsible/internal/errors"
	"centsible/internal/pagination"
	"centsible/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the request payload for a manual transaction.
type CreateTransactionRequest struct {
	AccountID  string  `json:"account_id" binding:"required,uuid"`
	CategoryID *string `json:"category_id" binding:"omitempty,category_id"`
	Name       string  `json:"name" binding:"required,min=1,max=255"`
	Merchant   string  `json:"merchant" binding:"max=255"`
	Amount     int64   `json:"amount" binding:"required"`
	Date       string  `json:"date" binding:"required,datetime=2006-01-02"`
}

// SetTransactionCategoryRequest recategorizes a transaction; a null category
// clears it.
type SetTransactionCategoryRequest struct {
	CategoryID *string `json:"category_id" binding:"omitempty,category_id"`
}

// SetTransactionHiddenRequest toggles a transaction's hidden flag.
type SetTransactionHiddenRequest struct {
	IsHidden *bool `json:"is_hidden" binding:"required"`
}

// CreateTransaction handles manual transaction entry.
// @Summary     Create a transaction
// @Description Record a manual transaction (amount in cents)
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	txn, err := h.transactionService.CreateTransaction(req.AccountID, req.CategoryID, req.Name, req.Merchant, req.Amount, req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSACTION", "transaction", txn.ID, c.ClientIP(),
		map[string]interface{}{"account_id": req.AccountID, "amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"transaction": txn})
}

// GetTransactions handles listing transactions with filters.
// @Summary     Get transactions
// @Description Get a paginated, filtered transaction list, newest first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       month          query string false "Filter by month (YYYY-MM)"
// @Param       category_id    query string false "Filter by category"
// @Param       account_id     query string false "Filter by account"
// @Param       include_hidden query bool   false "Include hidden transactions"
// @Param       page           query int    false "Page number (default 1)"
// @Param       page_size      query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{
		Month:         c.Query("month"),
		IncludeHidden: c.Query("include_hidden") == "true",
	}
	if v := c.Query("category_id"); v != "" {
		filter.CategoryID = &v
	}
	if v := c.Query("account_id"); v != "" {
		filter.AccountID = &v
	}

	result, err := h.transactionService.GetTransactions(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransaction handles fetching a single transaction.
// @Summary     Get a transaction
// @Description Get a transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	txn, err := h.transactionService.GetTransactionByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

// SetCategory handles recategorizing a transaction.
// @Summary     Recategorize a transaction
// @Description Set or clear the category of a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                        true "Transaction ID"
// @Param       request body SetTransactionCategoryRequest true "New category (null to clear)"
// @Success     200 {object} models.Transaction "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction or category not found"
// @Router      /transactions/{id}/category [put]
func (h *TransactionHandler) SetCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetTransactionCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	txn, err := h.transactionService.SetCategory(c.Param("id"), req.CategoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SET_TRANSACTION_CATEGORY", "transaction", txn.ID, c.ClientIP(),
		map[string]interface{}{"category_id": req.CategoryID})

	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

// SetHidden handles hiding or unhiding a transaction.
// @Summary     Hide or unhide a transaction
// @Description Toggle a transaction's hidden flag; hidden transactions are excluded from all aggregations
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                      true "Transaction ID"
// @Param       request body SetTransactionHiddenRequest true "Hidden flag"
// @Success     200 {object} models.Transaction "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id}/hidden [put]
func (h *TransactionHandler) SetHidden(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetTransactionHiddenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	txn, err := h.transactionService.SetHidden(c.Param("id"), *req.IsHidden)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SET_TRANSACTION_HIDDEN", "transaction", txn.ID, c.ClientIP(),
		map[string]interface{}{"is_hidden": *req.IsHidden})

	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

// DeleteTransaction handles deleting a transaction.
// @Summary     Delete a transaction
// @Description Delete a transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID := c.Param("id")
	if err := h.transactionService.DeleteTransaction(transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
