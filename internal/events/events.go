// internal/events/events.go
//
// Outbound domain events. Every session event (cards deactivated, board
// rebuilt, game ended) and every finished-game summary is published as JSON on
// "<subject>.<kind>" when a NATS URL is configured; otherwise events are
// dropped.

package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/rhysstever/CardMatchGame/internal/game"
)

// Publisher sends domain events somewhere. Implementations must be safe for
// concurrent use and must not block for long: they are called from request
// handlers and from inside session observers.
type Publisher interface {
	// Event publishes a live session event.
	Event(ev game.Event)
	// Finished publishes the outcome of an ended session.
	Finished(sum game.Summary)
	Close()
}

// Envelope wraps every published payload.
type Envelope struct {
	Kind string          `json:"kind"`
	At   time.Time       `json:"at"`
	Data json.RawMessage `json:"data"`
}

const KindFinished = "finished"

func encode(subject, kind string, payload any, at time.Time) (string, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", nil, err
	}
	msg, err := json.Marshal(Envelope{Kind: kind, At: at.UTC(), Data: data})
	if err != nil {
		return "", nil, err
	}
	return subject + "." + kind, msg, nil
}

// Nop drops everything.
type Nop struct{}

func (Nop) Event(game.Event)      {}
func (Nop) Finished(game.Summary) {}
func (Nop) Close()                {}

// NATS publishes to a NATS server.
type NATS struct {
	nc      *nats.Conn
	subject string
}

// Connect dials url. subject is the prefix for every published message.
func Connect(url, subject string) (*NATS, error) {
	opts := []nats.Option{
		nats.Name("concentration-server"),
		nats.Timeout(10 * time.Second),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(5),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return &NATS{nc: nc, subject: subject}, nil
}

func (p *NATS) Event(ev game.Event) { p.publish(string(ev.Type), ev) }

func (p *NATS) Finished(sum game.Summary) { p.publish(KindFinished, sum) }

func (p *NATS) publish(kind string, payload any) {
	subj, msg, err := encode(p.subject, kind, payload, time.Now())
	if err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("encode event")
		return
	}
	// Publish only buffers; delivery errors surface through the handlers above.
	if err := p.nc.Publish(subj, msg); err != nil {
		log.Warn().Err(err).Str("subject", subj).Msg("publish event")
	}
}

// Close flushes pending messages and closes the connection.
func (p *NATS) Close() {
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
	}
}
