package services

import "context"

// PushMessage is the payload handed to the native push transport. The
// engine only decides when and to whom a push is enqueued; delivery over
// the wire happens elsewhere.
type PushMessage struct {
	UserID string            `json:"user_id"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

type PushSender interface {
	Send(ctx context.Context, msg PushMessage) error
}
