package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sprintertech/intent-ledger/ledger"
)

type EventStreamer interface {
	Subscribe(ctx context.Context, id uint64, eventChn chan ledger.Event)
}

type EventsHandler struct {
	cache EventStreamer
}

func NewEventsHandler(cache EventStreamer) *EventsHandler {
	return &EventsHandler{
		cache: cache,
	}
}

// HandleEvents is an sse handler streaming lifecycle events for an intent
// until the client disconnects.
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	id, err := intentID(mux.Vars(r))
	if err != nil {
		JSONError(w, err, http.StatusBadRequest)
		return
	}

	h.setheaders(w)

	ctx := r.Context()
	eventChn := make(chan ledger.Event, 1)
	h.cache.Subscribe(ctx, id, eventChn)
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-eventChn:
			{
				data, err := json.Marshal(e)
				if err != nil {
					continue
				}

				fmt.Fprintf(w, "data: %s\n\n", data)
				w.(http.Flusher).Flush()
			}
		}
	}
}

func (h *EventsHandler) setheaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}
