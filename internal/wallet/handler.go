package wallet

import (
	"errors"
	"net/http"
	"strconv"

	"sehub/internal/api"
	"sehub/internal/auth"
	"sehub/internal/logger"
	"sehub/internal/payment"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

type PaymentQRRequest struct {
	Amount      int64  `json:"amount" binding:"gte=0" example:"100000"`
	Description string `json:"description" binding:"max=100" example:"Nap tien"`
}

type PaymentQRResponse struct {
	WalletID    uuid.UUID `json:"wallet_id"`
	DepositCode string    `json:"deposit_code" example:"SEHUB01J9Z3K8QF"`
	QRURL       string    `json:"qr_url"`
}

type AdjustmentRequest struct {
	Amount         int64     `json:"amount" binding:"required,gt=0" example:"50000"`
	Direction      Direction `json:"direction" binding:"required,oneof=CREDIT DEBIT" example:"CREDIT"`
	IdempotencyKey string    `json:"idempotency_key" binding:"max=128"`
	Note           string    `json:"note" binding:"required,max=500"`
}

type RefundRequest struct {
	Amount   int64  `json:"amount" binding:"required,gt=0" example:"50000"`
	RefundOf string `json:"refund_of" binding:"required,max=128" example:"course-order-1042"`
	Note     string `json:"note" binding:"max=500"`
}

type BackfillResponse struct {
	Created int `json:"created" example:"12"`
}

func respondError(c *gin.Context, err error, fallback string) {
	var (
		verr *ValidationError
		perr *payment.ValidationError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: verr.Error()})
	case errors.As(err, &perr):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: perr.Error()})
	case errors.Is(err, payment.ErrIncompleteBankConfig):
		logger.Error("deposit bank account is not configured", "error", err)
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "Deposits are temporarily unavailable"})
	case errors.Is(err, ErrWalletNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Wallet not found"})
	case errors.Is(err, ErrInvalidStatusTransition):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrStatusConflict):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Wallet status changed, retry"})
	case errors.Is(err, ErrWalletNotActive):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Wallet is not active"})
	case errors.Is(err, ErrInsufficientBalance):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Insufficient balance"})
	default:
		logger.Error(fallback, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
	}
}

func walletIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid wallet ID"})
		return uuid.Nil, false
	}
	return id, true
}

func paging(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// @Summary      Get my wallet
// @Description  Returns the caller's wallet, creating it on first access
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} wallet.Wallet
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /wallet [get]
func (h *Handler) GetWallet(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	w, err := h.service.GetWalletForOwner(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load wallet")
		return
	}

	c.JSON(http.StatusOK, w)
}

// @Summary      List my wallet transactions
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Page size" default(50)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {array} wallet.Transaction
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /wallet/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	limit, offset := paging(c)
	txs, err := h.service.Transactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, err, "Failed to load transactions")
		return
	}

	c.JSON(http.StatusOK, txs)
}

// @Summary      Build a deposit QR link
// @Description  Returns a QR quick-link whose transfer description carries the wallet's deposit code
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body wallet.PaymentQRRequest true "Amount (0 lets the payer choose) and description"
// @Success      200 {object} wallet.PaymentQRResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Router       /wallet/qr [post]
func (h *Handler) CreatePaymentQR(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req PaymentQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	w, err := h.service.GetWalletForOwner(ctx, userID)
	if err != nil {
		respondError(c, err, "Failed to load wallet")
		return
	}

	url, err := h.service.PaymentDescriptor(ctx, w.ID, req.Amount, req.Description)
	if err != nil {
		respondError(c, err, "Failed to build payment QR")
		return
	}

	c.JSON(http.StatusOK, PaymentQRResponse{
		WalletID:    w.ID,
		DepositCode: w.DepositCode,
		QRURL:       url,
	})
}

// @Summary      Create wallets for existing profiles
// @Description  Admin-only: creates a wallet for every profile that has none. Safe to re-run.
// @Tags         admin,wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} wallet.BackfillResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/wallets/backfill [post]
func (h *Handler) Backfill(c *gin.Context) {
	created, err := h.service.CreateWalletsForExistingProfiles(c.Request.Context())
	if err != nil {
		respondError(c, err, "Wallet backfill failed")
		return
	}

	c.JSON(http.StatusOK, BackfillResponse{Created: created})
}

// @Summary      Get a wallet
// @Tags         admin,wallet
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Wallet ID"
// @Success      200 {object} wallet.Wallet
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/wallets/{id} [get]
func (h *Handler) AdminGetWallet(c *gin.Context) {
	id, ok := walletIDParam(c)
	if !ok {
		return
	}

	w, err := h.service.GetWallet(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to load wallet")
		return
	}

	c.JSON(http.StatusOK, w)
}

// @Summary      Find a wallet by deposit code
// @Description  Resolves the code the way incoming transfers are matched, for reviewing failed notifications
// @Tags         admin,wallet
// @Produce      json
// @Security     BearerAuth
// @Param        code query string true "Deposit code"
// @Success      200 {object} wallet.Wallet
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/wallets/lookup [get]
func (h *Handler) AdminLookup(c *gin.Context) {
	w, err := h.service.WalletByCode(c.Request.Context(), c.Query("code"))
	if err != nil {
		respondError(c, err, "Failed to look up wallet")
		return
	}

	c.JSON(http.StatusOK, w)
}

func (h *Handler) changeStatus(c *gin.Context, to Status) {
	id, ok := walletIDParam(c)
	if !ok {
		return
	}

	w, err := h.service.ChangeStatus(c.Request.Context(), id, to)
	if err != nil {
		respondError(c, err, "Failed to change wallet status")
		return
	}

	c.JSON(http.StatusOK, w)
}

// @Summary      Freeze a wallet
// @Description  Admin-only: deposits to a frozen wallet are recorded as FAILED
// @Tags         admin,wallet
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Wallet ID"
// @Success      200 {object} wallet.Wallet
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/wallets/{id}/freeze [post]
func (h *Handler) Freeze(c *gin.Context) {
	h.changeStatus(c, StatusFrozen)
}

// @Summary      Unfreeze a wallet
// @Tags         admin,wallet
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Wallet ID"
// @Success      200 {object} wallet.Wallet
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/wallets/{id}/unfreeze [post]
func (h *Handler) Unfreeze(c *gin.Context) {
	h.changeStatus(c, StatusActive)
}

// @Summary      Close a wallet
// @Description  Admin-only: closing is permanent
// @Tags         admin,wallet
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Wallet ID"
// @Success      200 {object} wallet.Wallet
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/wallets/{id}/close [post]
func (h *Handler) Close(c *gin.Context) {
	h.changeStatus(c, StatusClosed)
}

// @Summary      Manual balance adjustment
// @Tags         admin,wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Wallet ID"
// @Param        request body wallet.AdjustmentRequest true "Adjustment"
// @Success      200 {object} wallet.AppendResult
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/wallets/{id}/adjustments [post]
func (h *Handler) Adjust(c *gin.Context) {
	id, ok := walletIDParam(c)
	if !ok {
		return
	}

	var req AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	res, err := h.service.Adjust(c.Request.Context(), id, req.Amount, req.Direction, req.IdempotencyKey, req.Note)
	if err != nil {
		respondError(c, err, "Failed to apply adjustment")
		return
	}

	c.JSON(http.StatusOK, res)
}

// @Summary      Refund to a wallet
// @Tags         admin,wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Wallet ID"
// @Param        request body wallet.RefundRequest true "Refund"
// @Success      200 {object} wallet.AppendResult
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/wallets/{id}/refunds [post]
func (h *Handler) Refund(c *gin.Context) {
	id, ok := walletIDParam(c)
	if !ok {
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	res, err := h.service.Refund(c.Request.Context(), id, req.Amount, req.RefundOf, req.Note)
	if err != nil {
		respondError(c, err, "Failed to apply refund")
		return
	}

	c.JSON(http.StatusOK, res)
}

// @Summary      Audit a wallet balance
// @Description  Compares the cached balance with the ledger sum
// @Tags         admin,wallet
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Wallet ID"
// @Success      200 {object} wallet.BalanceAudit
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/wallets/{id}/audit [get]
func (h *Handler) Audit(c *gin.Context) {
	id, ok := walletIDParam(c)
	if !ok {
		return
	}

	audit, err := h.service.Audit(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to audit wallet")
		return
	}

	c.JSON(http.StatusOK, audit)
}

// @Summary      Repair a wallet balance
// @Description  Rewrites the cached balance from the ledger
// @Tags         admin,wallet
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Wallet ID"
// @Success      200 {object} wallet.BalanceAudit
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/wallets/{id}/repair [post]
func (h *Handler) Repair(c *gin.Context) {
	id, ok := walletIDParam(c)
	if !ok {
		return
	}

	audit, err := h.service.Repair(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to repair wallet")
		return
	}

	c.JSON(http.StatusOK, audit)
}

// @Summary      List failed deposit notifications
// @Tags         admin,wallet
// @Produce      json
// @Security     BearerAuth
// @Param        reason query string false "NO_CODE, WALLET_NOT_FOUND or WALLET_INACTIVE"
// @Param        limit  query int false "Page size" default(50)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {array} wallet.Transaction
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/notifications/failed [get]
func (h *Handler) FailedNotifications(c *gin.Context) {
	reason := FailureReason(c.Query("reason"))
	switch reason {
	case "", ReasonNoCode, ReasonWalletNotFound, ReasonWalletInactive:
	default:
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Unknown failure reason"})
		return
	}

	limit, offset := paging(c)
	txs, err := h.service.FailedNotifications(c.Request.Context(), reason, limit, offset)
	if err != nil {
		respondError(c, err, "Failed to load failed notifications")
		return
	}

	c.JSON(http.StatusOK, txs)
}
