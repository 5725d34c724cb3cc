package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/parcelmesh/ups-adapter/internal/metrics"
	"github.com/parcelmesh/ups-adapter/pkg/model"
)

// Publisher wraps a NATS connection and publishes normalized rating events.
type Publisher struct {
	logger  *zap.Logger
	nc      *nats.Conn
	js      nats.JetStreamContext
	service string
}

// New creates a new Publisher with JetStream enabled.
func New(logger *zap.Logger, nc *nats.Conn, service string) (*Publisher, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	return &Publisher{
		logger:  logger,
		nc:      nc,
		js:      js,
		service: service,
	}, nil
}

// Publish publishes a raw JSON payload to the given subject.
func (p *Publisher) Publish(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{"source": []string{p.service}},
	}

	if _, err := p.js.PublishMsg(msg); err != nil {
		metrics.IncNATSPublishError(subject)
		p.logger.Warn("publisher.publish_failed",
			zap.String("subject", subject),
			zap.Error(err))
		return err
	}
	return nil
}

// PublishRateQuoted emits an evt.rate.quoted event for a completed rating call.
func (p *Publisher) PublishRateQuoted(ctx context.Context, resp *model.RateResponse) error {
	subject := "evt.rate.quoted.v1." + resp.Carrier
	return p.Publish(ctx, subject, model.RateQuotedEvent{
		EventID:       uuid.New().String(),
		Carrier:       resp.Carrier,
		CorrelationID: resp.CorrelationID,
		QuoteCount:    len(resp.Quotes),
		Timestamp:     time.Now().UTC(),
	})
}

// Close drains the underlying NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil && p.nc.IsConnected() {
		p.nc.Close()
	}
}
