// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/Tanmoy095/PaySynapse/internal/payment"
	"github.com/Tanmoy095/PaySynapse/internal/process"
)

// SubmissionProcessor is the slice of the payment processor the handler needs.
type SubmissionProcessor interface {
	Process(ctx context.Context, settings process.FormSettings, sub process.Submission) (*process.Result, error)
	HandleAsyncResult(ctx context.Context, event payment.NormalizedEvent) error
}

// SettingsProvider loads the per-form payment configuration. The settings
// UI and its persistence live outside this service.
type SettingsProvider interface {
	FormSettings(ctx context.Context, formID string) (*process.FormSettings, error)
}

// SubmitRequest is the form's AJAX submission payload.
type SubmitRequest struct {
	FormID          string            `json:"form_id"`
	SubmissionID    string            `json:"submission_id"`
	Fields          map[string]string `json:"fields"`
	AmountCents     int64             `json:"amount_cents"`
	Currency        string            `json:"currency"`
	PaymentMethodID string            `json:"payment_method_id,omitempty"`
	PaymentIntentID string            `json:"payment_intent_id,omitempty"`
	Email           string            `json:"email,omitempty"`
	Name            string            `json:"name,omitempty"`
}

// envelope is the fixed AJAX response shape the form engine understands.
type envelope struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
}

// Handler serves the form submission and webhook endpoints.
type Handler struct {
	processor SubmissionProcessor
	settings  SettingsProvider
	webhooks  payment.WebhookProcessor
}

func NewHandler(processor SubmissionProcessor, settings SettingsProvider, webhooks payment.WebhookProcessor) *Handler {
	return &Handler{processor: processor, settings: settings, webhooks: webhooks}
}

// Routes registers the handler's endpoints on a mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/submissions", h.handleSubmit)
	mux.HandleFunc("POST /v1/webhooks/stripe", h.handleWebhook)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, envelope{Success: false, Data: map[string]any{"message": "malformed request body"}})
		return
	}

	submissionID, err := uuid.Parse(req.SubmissionID)
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, envelope{Success: false, Data: map[string]any{"message": "invalid submission id"}})
		return
	}

	settings, err := h.settings.FormSettings(r.Context(), req.FormID)
	if err != nil {
		log.Printf("[WARN] no settings for form %s: %v", req.FormID, err)
		writeEnvelope(w, http.StatusNotFound, envelope{Success: false, Data: map[string]any{"message": "unknown form"}})
		return
	}

	sub := process.Submission{
		SubmissionID:    submissionID,
		FormID:          req.FormID,
		Fields:          req.Fields,
		AmountCents:     req.AmountCents,
		Currency:        req.Currency,
		PaymentMethodID: req.PaymentMethodID,
		PaymentIntentID: req.PaymentIntentID,
		CustomerEmail:   req.Email,
		CustomerName:    req.Name,
	}

	result, err := h.processor.Process(r.Context(), *settings, sub)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, payment.ErrProviderDown) {
			status = http.StatusServiceUnavailable
		}
		writeEnvelope(w, status, envelope{Success: false, Data: map[string]any{"message": err.Error()}})
		return
	}

	if result.ActionRequired {
		writeEnvelope(w, http.StatusOK, envelope{Success: true, Data: map[string]any{
			"action_required":              true,
			"payment_intent_client_secret": result.ClientSecret,
		}})
		return
	}

	// A conditional skip is not an error: the merchant configured the
	// rule, the entry is still accepted.
	data := map[string]any{}
	if result.TransactionID != "" {
		data["transaction_id"] = result.TransactionID
	}
	writeEnvelope(w, http.StatusOK, envelope{Success: true, Data: data})
}

func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		http.Error(w, "unable to read payload", http.StatusBadRequest)
		return
	}

	headers := map[string]string{
		"Stripe-Signature": r.Header.Get("Stripe-Signature"),
	}

	event, err := h.webhooks.VerifyAndParse(payload, headers)
	if err != nil {
		http.Error(w, "signature verification failed", http.StatusBadRequest)
		return
	}
	if event == nil {
		// Event type we don't track; acknowledge so the provider stops
		// redelivering it.
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.processor.HandleAsyncResult(r.Context(), *event); err != nil {
		log.Printf("[WARN] webhook for %s not applied: %v", event.ProviderPaymentID, err)
		http.Error(w, "event not applied", http.StatusUnprocessableEntity)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Printf("[WARN] failed to write response envelope: %v", err)
	}
}
