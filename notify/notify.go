// Package notify sends transactional e-mail and SMS. Delivery never decides
// the outcome of the operation that triggered it.
package notify

import (
	"context"
	"eduverse/utils"
	"sync"
	"time"
)

// Message is one e-mail.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Notifier delivers a message through some provider.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

const dispatchTimeout = 30 * time.Second

// Dispatch sends msg in the background. Failures are logged and dropped.
func Dispatch(n Notifier, msg Message) {
	if n == nil || len(msg.To) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := n.Send(ctx, msg); err != nil {
			utils.LogError("[NOTIFY] sending %q to %v: %v", msg.Subject, msg.To, err)
		}
	}()
}

// Log writes messages to the log instead of delivering them.
type Log struct{}

func (Log) Send(_ context.Context, msg Message) error {
	utils.LogInfo("[NOTIFY] to=%v subject=%q", msg.To, msg.Subject)
	return nil
}

// Recorder keeps every message it is given. It can also be told to fail.
type Recorder struct {
	mu   sync.Mutex
	sent []Message
	Err  error
}

func (r *Recorder) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, msg)
	return nil
}

// Sent returns a copy of the recorded messages.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}
