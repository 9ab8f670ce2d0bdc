package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/sprintertech/intent-ledger/ledger"
)

const (
	SUBJECT_PREFIX  = "intents"
	CONNECT_TIMEOUT = time.Second * 10
	RECONNECT_WAIT  = time.Second * 5
)

// NatsPublisher publishes lifecycle events to a NATS subject per asset and
// event kind so external indexers can consume the full intent history.
type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(url string) (*NatsPublisher, error) {
	conn, err := nats.Connect(
		url,
		nats.Timeout(CONNECT_TIMEOUT),
		nats.ReconnectWait(RECONNECT_WAIT),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Msgf("Disconnected from NATS: %s", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Msgf("Reconnected to NATS at %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NatsPublisher{conn: conn}, nil
}

// Listen publishes every event from the channel until ctx is done.
func (p *NatsPublisher) Listen(ctx context.Context, eventChn <-chan ledger.Event) {
	for {
		select {
		case e := <-eventChn:
			{
				data, err := json.Marshal(e)
				if err != nil {
					log.Warn().Msgf("Failed marshaling event: %s", err)
					continue
				}

				if err := p.conn.Publish(p.subject(e), data); err != nil {
					log.Warn().Str("kind", string(e.Kind)).Msgf("Failed publishing event: %s", err)
				}
			}
		case <-ctx.Done():
			{
				if err := p.conn.Drain(); err != nil {
					log.Warn().Msgf("Failed draining NATS connection: %s", err)
				}
				return
			}
		}
	}
}

func (p *NatsPublisher) subject(e ledger.Event) string {
	if e.Kind == ledger.SolverUpdatedEvent {
		return fmt.Sprintf("%s.registry.%s", SUBJECT_PREFIX, e.Kind)
	}
	return fmt.Sprintf("%s.%s.%s", SUBJECT_PREFIX, strings.ToLower(e.Asset.Hex()), e.Kind)
}
