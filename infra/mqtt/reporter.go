package mqtt

import (
	"encoding/json"
	"sync"

	"github.com/voltride/fleetsim/core/events"
	"github.com/voltride/fleetsim/infra/logger"
)

// Reporter publishes simulation records as JSON, one topic per record kind.
// It implements events.Reporter.
type Reporter struct {
	pub       Publisher
	topicRoot string
	log       logger.Logger
}

// NewReporter wraps a Publisher into an events.Reporter.
func NewReporter(pub Publisher, topicRoot string) *Reporter {
	return &Reporter{pub: pub, topicRoot: topicRoot, log: logger.New("mqtt-reporter")}
}

// File serializes the record and publishes it under topicRoot/<kind>.
// Failures are logged and dropped; the simulation never blocks on the broker.
func (r *Reporter) File(rec events.Record) {
	payload, err := json.Marshal(rec)
	if err != nil {
		r.log.Errorf("encode %s: %v", rec.EventKind(), err)
		return
	}
	topic := r.topicRoot + "/" + rec.EventKind()
	if err := r.pub.Publish(topic, payload); err != nil {
		r.log.Errorf("publish %s: %v", topic, err)
	}
}

// Close releases the underlying publisher.
func (r *Reporter) Close() {
	r.pub.Close()
}

// MockPublisher records published payloads in memory. Used in tests.
type MockPublisher struct {
	mu       sync.Mutex
	Messages map[string][][]byte
	Err      error
}

// NewMockPublisher creates an empty MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Messages: make(map[string][][]byte)}
}

// Publish stores the payload under its topic, or fails with the configured
// error.
func (m *MockPublisher) Publish(topic string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Messages[topic] = append(m.Messages[topic], payload)
	return nil
}

// Close is a no-op.
func (m *MockPublisher) Close() {}
