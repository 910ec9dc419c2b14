package handlers

import (
	"io"
	"net/http"

	"coursemarket/internal/application/usecase"
	"coursemarket/internal/domain"
	"coursemarket/internal/infrastructure/security"
	"coursemarket/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// maxWebhookBody caps webhook payloads; providers send a few kilobytes at most.
const maxWebhookBody = 1 << 16

type PaymentVerifier interface {
	Verify(payload []byte, signatureHeader string) (*domain.PaymentEvent, error)
}

type WebhookHandler struct {
	payments   PaymentVerifier
	dispatcher *usecase.Dispatcher
	identities *security.IdentityVerifier
	identity   *usecase.IdentityUseCase
	metrics    *metrics.Metrics
	log        zerolog.Logger
}

func NewWebhookHandler(
	payments PaymentVerifier,
	dispatcher *usecase.Dispatcher,
	identities *security.IdentityVerifier,
	identity *usecase.IdentityUseCase,
	m *metrics.Metrics,
	log zerolog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		payments:   payments,
		dispatcher: dispatcher,
		identities: identities,
		identity:   identity,
		metrics:    m,
		log:        log,
	}
}

func readBody(c *gin.Context) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
}

// Stripe verifies the signature over the raw body before anything touches storage.
// Only transient failures get a 5xx, so the provider redelivers exactly those.
func (h *WebhookHandler) Stripe(c *gin.Context) {
	payload, err := readBody(c)
	if err != nil {
		h.metrics.ObserveWebhook("stripe", "", "rejected")
		c.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
		return
	}

	ev, err := h.payments.Verify(payload, c.GetHeader("Stripe-Signature"))
	if errors.Is(err, domain.ErrStaleReference) {
		h.log.Error().Err(err).Bool("manual_review", true).Msg("signed stripe event is unusable, acknowledging without retry")
		h.metrics.ObserveWebhook("stripe", "", string(usecase.OutcomeStale))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	if err != nil {
		h.log.Warn().Err(err).Str("client_ip", c.ClientIP()).Msg("stripe webhook rejected")
		h.metrics.ObserveWebhook("stripe", "", "rejected")
		c.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
		return
	}

	outcome, err := h.dispatcher.Dispatch(c.Request.Context(), ev)
	if err != nil {
		h.log.Error().Err(err).
			Str("event_id", ev.ID).
			Str("event_type", string(ev.Type)).
			Msg("stripe webhook not processed, provider will retry")
		h.metrics.ObserveWebhook("stripe", string(ev.Type), "error")
		c.JSON(http.StatusInternalServerError, gin.H{"received": false})
		return
	}

	h.metrics.ObserveWebhook("stripe", string(ev.Type), string(outcome))
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *WebhookHandler) Clerk(c *gin.Context) {
	payload, err := readBody(c)
	if err != nil {
		h.metrics.ObserveWebhook("clerk", "", "rejected")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ev, err := h.identities.Verify(payload, c.Request.Header)
	if err != nil {
		h.log.Warn().Err(err).Msg("clerk webhook rejected")
		h.metrics.ObserveWebhook("clerk", "", "rejected")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := h.identity.HandleIdentityEvent(c.Request.Context(), ev); err != nil {
		h.log.Error().Err(err).Str("event_type", string(ev.Type)).Msg("identity sync failed")
		h.metrics.ObserveWebhook("clerk", string(ev.Type), "error")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
		return
	}

	h.metrics.ObserveWebhook("clerk", string(ev.Type), "applied")
	c.JSON(http.StatusOK, gin.H{})
}
