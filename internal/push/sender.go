// Package push defines the outbound push-notification contract. Delivery
// guarantees live with the messaging provider, not this service; senders are
// best-effort and callers must tolerate failure.
package push

import "context"

// Message is a device notification payload.
type Message struct {
	Title string
	Body  string
}

// Sender delivers a message to a set of device tokens.
type Sender interface {
	Send(ctx context.Context, tokens []string, message Message) error
}
