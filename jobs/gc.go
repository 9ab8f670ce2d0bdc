package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type TerminalSweeper interface {
	SweepTerminal() ([]uint64, error)
}

// StartGarbageCollectJob periodically marks settled and aborted intents as
// deleted on behalf of the administrator. The explicit garbage collection
// operation remains available for manual batches.
func StartGarbageCollectJob(ctx context.Context, sweeper TerminalSweeper, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			{
				ids, err := sweeper.SweepTerminal()
				if err != nil {
					log.Err(err).Msgf("Failed garbage collecting terminal intents")
					continue
				}
				if len(ids) > 0 {
					log.Info().Msgf("Garbage collected %d terminal intents", len(ids))
				}
			}
		case <-ctx.Done():
			return
		}
	}
}
