package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"approvals-backend/internal/domain"
	"approvals-backend/internal/logger"
	"approvals-backend/internal/service"

	"github.com/google/uuid"
)

// ErrDeliveryFailed marks a lifecycle event that could not be handed to the
// event bus endpoint.
var ErrDeliveryFailed = errors.New("event delivery failed")

// Envelope is the wire format posted to the event bus endpoint.
type Envelope struct {
	ID         string          `json:"id"`
	Source     string          `json:"source"`
	DetailType string          `json:"detailType"`
	Detail     json.RawMessage `json:"detail"`
	Time       time.Time       `json:"time"`
}

// WebhookNotifier publishes lifecycle events as JSON envelopes over HTTP.
type WebhookNotifier struct {
	client   *http.Client
	endpoint string
	source   string
}

func NewWebhookNotifier(endpoint, source string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		source:   source,
	}
}

var _ service.EventNotifier = (*WebhookNotifier)(nil)

func (n *WebhookNotifier) Notify(ctx context.Context, eventName string, payload domain.EventPayload) error {
	detail, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := Envelope{
		ID:         uuid.NewString(),
		Source:     n.source,
		DetailType: eventName,
		Detail:     detail,
		Time:       time.Now().UTC(),
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	logger.ExternalServiceCall("event-bus", "Notify", "event", eventName, "id", envelope.ID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build event request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		logger.ExternalServiceResult("event-bus", "Notify", err, "event", eventName)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("%w: event bus returned status %d", ErrDeliveryFailed, resp.StatusCode)
		logger.ExternalServiceResult("event-bus", "Notify", err, "event", eventName)
		return err
	}

	logger.ExternalServiceResult("event-bus", "Notify", nil, "event", eventName, "id", envelope.ID)
	return nil
}
