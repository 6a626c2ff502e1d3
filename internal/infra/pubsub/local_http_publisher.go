package pubsub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	deliverycontext "lessonradar/internal/delivery/context"
	"lessonradar/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	localPublishTimeout  = 10 * time.Second
	localSubscription    = "projects/local/subscriptions/cart-checkout-sub"
	localErrorBodyMaxLen = 256
)

// localHTTPPublisher POSTs events to a development endpoint in the shape Pub/Sub push delivery uses.
type localHTTPPublisher struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// PushMessage is the Pub/Sub push delivery envelope.
type PushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// NewLocalHTTPPublisher creates a new local HTTP publisher for development
func NewLocalHTTPPublisher(endpoint string, logger *slog.Logger) service.EventPublisher {
	return &localHTTPPublisher{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: localPublishTimeout},
		logger:     logger,
	}
}

// PublishCartCheckout posts the event wrapped in a push envelope.
func (p *localHTTPPublisher) PublishCartCheckout(ctx context.Context, event *service.CartCheckoutEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	push := PushMessage{Subscription: localSubscription}
	push.Message.Data = base64.StdEncoding.EncodeToString(data)
	push.Message.Attributes = eventAttributes(event)
	push.Message.MessageID = event.EventID
	push.Message.PublishTime = event.CreatedAt.UTC().Format(time.RFC3339)

	body, err := json.Marshal(push)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if event.RequestID != "" {
		req.Header.Set(deliverycontext.HeaderXRequestID, event.RequestID)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, localErrorBodyMaxLen))

		return errors.Errorf("push endpoint returned status %d: %s", resp.StatusCode, msg)
	}

	p.logger.InfoContext(ctx, "[LocalPubSub] Cart checkout published",
		slog.String("endpoint", p.endpoint),
		slog.String("event_id", event.EventID),
		slog.Int("lesson_count", len(event.Lessons)),
	)

	return nil
}

// Close is a no-op for the HTTP client.
func (p *localHTTPPublisher) Close() error {
	return nil
}
