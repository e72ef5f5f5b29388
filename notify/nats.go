package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"contactus-backend/models"
)

const DefaultSubject = "contact.submitted"

// SubmissionEvent is the JSON payload published for each stored submission.
type SubmissionEvent struct {
	Submission models.ContactSubmission `json:"submission"`
}

// NATS publishes a SubmissionEvent per submission.
type NATS struct {
	conn    *nats.Conn
	subject string
}

func NewNATS(url, subject string) (*NATS, error) {
	nc, err := nats.Connect(url,
		nats.Name("contactus"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATS{conn: nc, subject: subject}, nil
}

func (n *NATS) Notify(_ context.Context, sub models.ContactSubmission) error {
	data, err := json.Marshal(SubmissionEvent{Submission: sub})
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	return n.conn.Publish(n.subject, data)
}

func (n *NATS) Close() error {
	return n.conn.Drain()
}
