package reporting

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ducminhle1904/genome-evolver/pkg/evolution"
)

// Publisher is the subset of *nats.Conn the sink needs
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSSink publishes every generation report as JSON on a subject
type NATSSink struct {
	publisher Publisher
	subject   string
}

// NewNATSSink creates a sink publishing on subject
func NewNATSSink(publisher Publisher, subject string) *NATSSink {
	return &NATSSink{publisher: publisher, subject: subject}
}

// Name returns the sink name
func (s *NATSSink) Name() string { return "nats" }

// Subject returns the generation subject
func (s *NATSSink) Subject() string { return s.subject }

// Report publishes the report
func (s *NATSSink) Report(_ context.Context, report evolution.GenerationReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return s.publisher.Publish(s.subject, payload)
}

// Finalize publishes the run result on "<subject>.result"
func (s *NATSSink) Finalize(result *evolution.RunResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.publisher.Publish(s.subject+".result", payload)
}

// ConnectNATS connects with reconnects enabled, retrying the initial dial
// until attempts are exhausted or ctx is done
func ConnectNATS(ctx context.Context, url, name string, attempts int) (*nats.Conn, error) {
	if attempts < 1 {
		attempts = 1
	}

	var (
		nc  *nats.Conn
		err error
	)
	for i := 0; i < attempts; i++ {
		nc, err = nats.Connect(url, nats.MaxReconnects(-1), nats.Name(name))
		if err == nil {
			return nc, nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	return nil, err
}
