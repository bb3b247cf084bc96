// internal/events/events.go
//
// Publication of finished-game outcomes.
// Responsibilities:
//   - The Outcome payload sent for every finished click, typing, reaction and memory game.
//   - A NATS-backed Publisher (fire-and-forget JSON on SubjectOutcome).
//   - A no-op Publisher for runs without a broker.
//
// Publishing is best effort: callers log failures and carry on.

package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
)

// SubjectOutcome is the NATS subject finished games are published on.
const SubjectOutcome = "arcade.outcome"

// Outcome describes one finished game.
type Outcome struct {
	Owner   string          `json:"owner"`
	Game    string          `json:"game"`
	Score   decimal.Decimal `json:"score"`
	Rating  string          `json:"rating"`
	NewBest bool            `json:"newBest"`
	At      time.Time       `json:"at"`
}

// Publisher sends JSON-encoded values to a subject.
type Publisher interface {
	Publish(subject string, v any) error
	Close()
}

type natsPublisher struct {
	nc *nats.Conn
}

// Connect dials the NATS server at url.
func Connect(url string) (Publisher, error) {
	opts := []nats.Option{
		nats.Name("arcade-server"),
		nats.Timeout(10 * time.Second),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(5),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return &natsPublisher{nc: nc}, nil
}

func (p *natsPublisher) Publish(subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", subject, err)
	}
	return p.nc.Publish(subject, data)
}

// Close flushes pending messages and closes the connection.
func (p *natsPublisher) Close() {
	_ = p.nc.Drain()
}

type nop struct{}

// Nop returns a Publisher that discards everything.
func Nop() Publisher { return nop{} }

func (nop) Publish(string, any) error { return nil }
func (nop) Close()                    {}
