package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/dlmiddlecote/sqlstats"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/config"
	"github.com/portal-hq/portalex/internal/wallet/retry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
)

const namespace = "portalex"

// Service 持有进程内的 Prometheus 指标
// 每个 Service 使用独立的 Registry，测试中可以重复创建
type Service struct {
	registry *prometheus.Registry

	transfers        *prometheus.CounterVec
	transferDuration *prometheus.HistogramVec
	attempts         *prometheus.CounterVec
	feePerGas        *prometheus.GaugeVec
	hotWalletBalance *prometheus.GaugeVec
}

func New(cfg config.Server, db *sql.DB) (*Service, error) {
	registry := prometheus.NewRegistry()

	s := &Service{
		registry: registry,
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_total",
			Help:      "Number of finished transfers by chain and final state.",
		}, []string{"chain_id", "state"}),
		transferDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transfer_duration_seconds",
			Help:      "Time from first attempt to final state, including retry delays.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}, []string{"chain_id", "state"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfer_attempts_total",
			Help:      "Number of submission attempts by chain and outcome.",
		}, []string{"chain_id", "outcome"}),
		feePerGas: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transfer_fee_per_gas_wei",
			Help:      "Fee per gas used by the latest submission attempt.",
		}, []string{"chain_id"}),
		hotWalletBalance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hot_wallet_balance",
			Help:      "Last fetched hot wallet balance in native units.",
		}, []string{"chain_id"}),
	}

	collectorsToRegister := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		s.transfers,
		s.transferDuration,
		s.attempts,
		s.feePerGas,
		s.hotWalletBalance,
	}

	if db != nil {
		collectorsToRegister = append(collectorsToRegister, sqlstats.NewStatsCollector(cfg.Database.Database, db))
	}

	for _, c := range collectorsToRegister {
		if err := registry.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register metrics collector")
		}
	}

	return s, nil
}

func (s *Service) Registry() *prometheus.Registry {
	return s.registry
}

// Middleware records HTTP request metrics into the service registry.
func (s *Service) Middleware() echo.MiddlewareFunc {
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  namespace,
		Registerer: s.registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	})
}

func (s *Service) Handler() echo.HandlerFunc {
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: s.registry,
	})
}

func (s *Service) ObserveBalance(chainID int64, amount decimal.Decimal) {
	s.hotWalletBalance.WithLabelValues(chainLabel(chainID)).Set(amount.InexactFloat64())
}

func (s *Service) ObserveAttempt(chainID int64, attempt retry.TransactionAttempt) {
	label := chainLabel(chainID)
	s.attempts.WithLabelValues(label, attempt.Outcome.String()).Inc()

	if perGas := attempt.Fee.PerGas(); perGas != nil {
		f, _ := perGas.Float64()
		s.feePerGas.WithLabelValues(label).Set(f)
	}
}

func (s *Service) ObserveResult(chainID int64, result *retry.Result, duration time.Duration) {
	label := chainLabel(chainID)
	s.transfers.WithLabelValues(label, result.State.String()).Inc()
	s.transferDuration.WithLabelValues(label, result.State.String()).Observe(duration.Seconds())
}

func chainLabel(chainID int64) string {
	return strconv.FormatInt(chainID, 10)
}
