// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package app

import (
	"context"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"

	"github.com/sprintertech/intent-ledger/api"
	"github.com/sprintertech/intent-ledger/api/handlers"
	"github.com/sprintertech/intent-ledger/cache"
	"github.com/sprintertech/intent-ledger/config"
	"github.com/sprintertech/intent-ledger/custody"
	"github.com/sprintertech/intent-ledger/events"
	"github.com/sprintertech/intent-ledger/health"
	"github.com/sprintertech/intent-ledger/jobs"
	"github.com/sprintertech/intent-ledger/ledger"
	"github.com/sprintertech/intent-ledger/metrics"
	"github.com/sprintertech/intent-ledger/store"
)

var Version string

func Run() error {
	var err error

	configFlag := viper.GetString(config.ConfigFlagName)

	var configuration *config.Config
	if strings.ToLower(configFlag) == "env" {
		configuration, err = config.GetConfigFromENV()
		panicOnError(err)
	} else {
		configuration, err = config.GetConfigFromFile(configFlag)
		panicOnError(err)
	}
	ledgerConfig := configuration.LedgerConfig

	configureLogger(ledgerConfig.LogLevel)
	log.Info().Msg("Successfully loaded configuration")

	storePath := viper.GetString(config.StoreFlagName)
	if ledgerConfig.StorePath != "" {
		storePath = ledgerConfig.StorePath
	}
	intentStore, err := store.NewIntentStore(storePath)
	panicOnError(err)
	defer func() {
		if err := intentStore.Close(); err != nil {
			log.Error().Msgf("Error closing intent store: %s", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ledgerAddress := common.HexToAddress(ledgerConfig.LedgerAddress)
	vaultAddress := common.HexToAddress(ledgerConfig.Vault)
	tokenVault := custody.NewTokenVault(
		new(big.Int).SetUint64(ledgerConfig.ChainId),
		ledgerAddress,
		vaultAddress,
	)

	eventChn := make(chan ledger.Event, 64)
	intentLedger, err := ledger.NewIntentLedger(
		common.HexToAddress(ledgerConfig.Admin),
		vaultAddress,
		ledgerConfig.FeeRateBps,
		intentStore,
		tokenVault,
		eventChn,
	)
	panicOnError(err)

	ledgerMetrics, err := metrics.NewLedgerMetrics(
		otel.GetMeterProvider().Meter("ledger-metric-provider"),
		ledgerConfig.Env,
		ledgerConfig.Id,
		intentLedger.InFlight,
	)
	panicOnError(err)

	cacheChn := make(chan ledger.Event, 64)
	eventCache := cache.NewEventCache(ctx, cacheChn)

	var natsChn chan ledger.Event
	if ledgerConfig.NatsURL != "" {
		publisher, err := events.NewNatsPublisher(ledgerConfig.NatsURL)
		panicOnError(err)

		natsChn = make(chan ledger.Event, 64)
		go publisher.Listen(ctx, natsChn)
		log.Info().Msgf("Publishing lifecycle events to NATS at %s", ledgerConfig.NatsURL)
	}

	go dispatchEvents(ctx, eventChn, cacheChn, natsChn, ledgerMetrics)

	go health.StartHealthEndpoint(ledgerConfig.HealthPort)

	if ledgerConfig.GCInterval > 0 {
		// nolint:gosec
		go jobs.StartGarbageCollectJob(ctx, intentLedger, time.Duration(ledgerConfig.GCInterval)*time.Second)
	}

	intentsHandler := handlers.NewIntentsHandler(intentLedger)
	adminHandler := handlers.NewAdminHandler(intentLedger)
	eventsHandler := handlers.NewEventsHandler(eventCache)
	go api.Serve(ctx, ledgerConfig.ApiAddr, intentsHandler, adminHandler, eventsHandler)

	sysErr := make(chan os.Signal, 1)
	signal.Notify(sysErr,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGHUP,
		syscall.SIGQUIT)

	name := viper.GetString("name")
	log.Info().Msgf("Started intent ledger: %s with PID: %d. Version: v%s", name, os.Getpid(), Version)

	sig := <-sysErr
	log.Info().Msgf("terminating got ` [%v] signal", sig)
	return nil
}

// dispatchEvents fans ledger events out to the SSE cache, the optional NATS
// publisher and the lifecycle counters.
func dispatchEvents(
	ctx context.Context,
	eventChn <-chan ledger.Event,
	cacheChn chan<- ledger.Event,
	natsChn chan<- ledger.Event,
	ledgerMetrics *metrics.LedgerMetrics,
) {
	for {
		select {
		case e := <-eventChn:
			{
				switch e.Kind {
				case ledger.IntentCreatedEvent:
					ledgerMetrics.TrackCreated()
				case ledger.IntentFulfilledEvent:
					ledgerMetrics.TrackFulfilled()
				case ledger.IntentSettledEvent:
					ledgerMetrics.TrackSettled()
				case ledger.IntentAbortedEvent:
					ledgerMetrics.TrackAborted()
				case ledger.IntentDeletedEvent:
					ledgerMetrics.TrackDeleted()
				}

				select {
				case cacheChn <- e:
				default:
				}
				if natsChn != nil {
					select {
					case natsChn <- e:
					default:
					}
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func configureLogger(level string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(os.Stdout).Level(logLevel).With().Timestamp().Logger()
}

func panicOnError(err error) {
	if err != nil {
		panic(err)
	}
}
