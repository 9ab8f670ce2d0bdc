package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/sprintertech/intent-ledger/api/handlers"
)

// NewRouter wires the intent ledger HTTP surface.
func NewRouter(
	intentsHandler *handlers.IntentsHandler,
	adminHandler *handlers.AdminHandler,
	eventsHandler *handlers.EventsHandler,
) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/v1/intents", intentsHandler.HandleCreate).Methods("POST")
	r.HandleFunc("/v1/intents/{intentId:[0-9]+}", intentsHandler.HandleGet).Methods("GET")
	r.HandleFunc("/v1/intents/{intentId:[0-9]+}/fulfill", intentsHandler.HandleFulfill).Methods("POST")
	r.HandleFunc("/v1/intents/{intentId:[0-9]+}/settle", intentsHandler.HandleSettle).Methods("POST")
	r.HandleFunc("/v1/intents/{intentId:[0-9]+}/request-abort", intentsHandler.HandleRequestAbort).Methods("POST")
	r.HandleFunc("/v1/intents/{intentId:[0-9]+}/abort", intentsHandler.HandleAbort).Methods("POST")
	r.HandleFunc("/v1/intents/{intentId:[0-9]+}/reject-abort", intentsHandler.HandleRejectAbort).Methods("POST")
	r.HandleFunc("/v1/intents/{intentId:[0-9]+}/events", eventsHandler.HandleEvents).Methods("GET")
	r.HandleFunc("/v1/solvers", adminHandler.HandleApproveSolver).Methods("POST")
	r.HandleFunc("/v1/solvers/{address}", adminHandler.HandleRevokeSolver).Methods("DELETE")
	r.HandleFunc("/v1/gc", adminHandler.HandleGarbageCollect).Methods("POST")
	return r
}

func Serve(
	ctx context.Context,
	addr string,
	intentsHandler *handlers.IntentsHandler,
	adminHandler *handlers.AdminHandler,
	eventsHandler *handlers.EventsHandler,
) {
	server := &http.Server{
		Addr:        addr,
		Handler:     NewRouter(intentsHandler, adminHandler, eventsHandler),
		ReadTimeout: time.Second * 10,
	}
	go func() {
		log.Info().Msgf("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		log.Err(err).Msgf("Error shutting down server")
	} else {
		log.Info().Msgf("Server shut down gracefully.")
	}
}
