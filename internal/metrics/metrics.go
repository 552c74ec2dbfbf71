package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	ContractCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "w3raffle_contract_calls_total",
		Help: "The total number of contract invocations per function and outcome",
	}, []string{"function", "outcome"})

	Refreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "w3raffle_refreshes_total",
		Help: "The total number of widget refreshes (three reads each)",
	})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "w3raffle_notifications_total",
		Help: "The total number of notifications dispatched per kind",
	}, []string{"kind"})
)

// Outcome maps an error to its label value.
func Outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, logger *zap.SugaredLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	go func() {
		logger.Debugw("Metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("Metrics server failed", "addr", addr, "err", err)
		}
	}()
}
