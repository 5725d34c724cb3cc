package model

import "time"

// RateQuotedEvent is the payload published on evt.rate.quoted.v1.<carrier>
// after every successful rating call. Quotes themselves stay out of the
// event; consumers needing amounts call the API.
type RateQuotedEvent struct {
	EventID       string    `json:"event_id"`
	Carrier       string    `json:"carrier"`
	CorrelationID string    `json:"correlation_id"`
	QuoteCount    int       `json:"quote_count"`
	Timestamp     time.Time `json:"timestamp"`
}
