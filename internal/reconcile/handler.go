package reconcile

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sehub/internal/api"
	"sehub/internal/logger"
	"sehub/internal/wallet"

	"github.com/gin-gonic/gin"
)

// providerTimeLayout is the provider's transactionDate format, in local
// bank time.
const providerTimeLayout = "2006-01-02 15:04:05"

type NotificationProcessor interface {
	ProcessNotification(ctx context.Context, n Notification) (Outcome, error)
}

type Handler struct {
	processor NotificationProcessor
	location  *time.Location
}

// NewHandler returns the webhook handler. loc is the time zone of the
// provider's transactionDate; nil means UTC.
func NewHandler(processor NotificationProcessor, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		processor: processor,
		location:  loc,
	}
}

type BankTransferWebhook struct {
	ID              int64  `json:"id" example:"92704"`
	Gateway         string `json:"gateway" example:"Vietcombank"`
	TransactionDate string `json:"transactionDate" example:"2024-07-25 14:02:37"`
	AccountNumber   string `json:"accountNumber" example:"0011004455667"`
	Content         string `json:"content" example:"SEHUB01J9Z3K8QF chuyen tien"`
	TransferType    string `json:"transferType" binding:"required,oneof=in out" example:"in"`
	TransferAmount  int64  `json:"transferAmount" example:"100000"`
	ReferenceCode   string `json:"referenceCode" example:"MBVCB.3278907687"`
	Description     string `json:"description"`
}

type WebhookResponse struct {
	Success bool     `json:"success" example:"true"`
	Ignored bool     `json:"ignored,omitempty"`
	Outcome *Outcome `json:"outcome,omitempty"`
}

// Notification maps the provider payload onto the processor's input.
func (p BankTransferWebhook) Notification(loc *time.Location) Notification {
	raw := p.Content
	if strings.TrimSpace(raw) == "" {
		raw = p.Description
	}

	txnID := p.ReferenceCode
	if p.ID != 0 {
		txnID = strconv.FormatInt(p.ID, 10)
	}

	received, err := time.ParseInLocation(providerTimeLayout, p.TransactionDate, loc)
	if err != nil {
		received = time.Now()
	}

	return Notification{
		RawDescription: raw,
		Amount:         p.TransferAmount,
		ProviderTxnID:  txnID,
		ReceivedAt:     received.UTC(),
	}
}

// @Summary      Bank transfer webhook
// @Description  Receives a transfer notification from the payment provider and credits the matching wallet. Outgoing transfers are acknowledged and ignored.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        payload body BankTransferWebhook true "Provider notification"
// @Success      200 {object} reconcile.WebhookResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Router       /webhooks/bank-transfer [post]
func (h *Handler) BankTransfer(c *gin.Context) {
	var payload BankTransferWebhook
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.RespondBindError(c, err)
		return
	}

	if payload.TransferType == "out" {
		logger.Debug("ignoring outgoing transfer", "id", payload.ID, "reference", payload.ReferenceCode)
		c.JSON(http.StatusOK, WebhookResponse{Success: true, Ignored: true})
		return
	}

	outcome, err := h.processor.ProcessNotification(c.Request.Context(), payload.Notification(h.location))
	if err != nil {
		var verr *wallet.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: verr.Error()})
		case IsTransient(err):
			c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "Temporarily unable to process notification"})
		default:
			logger.Error("webhook processing failed", "id", payload.ID, "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to process notification"})
		}
		return
	}

	c.JSON(http.StatusOK, WebhookResponse{Success: true, Outcome: &outcome})
}
