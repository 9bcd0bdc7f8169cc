package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeApplied  = "applied"
	outcomeRejected = "rejected"
)

// Metrics counts what a run did. It uses a private registry so a run can be
// dumped in textfile-collector format without global state.
type Metrics struct {
	registry *prometheus.Registry

	records    *prometheus.CounterVec
	rejections *prometheus.CounterVec
	malformed  prometheus.Counter
	accounts   prometheus.Gauge
	locked     prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		records: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgerd_records_total",
			Help: "Transaction records routed to an account, by type and outcome",
		}, []string{"type", "outcome"}),
		rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgerd_rejections_total",
			Help: "Rejected transaction records by reason",
		}, []string{"reason"}),
		malformed: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerd_malformed_rows_total",
			Help: "Input rows that could not be decoded",
		}),
		accounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledgerd_accounts",
			Help: "Accounts known at the end of the run",
		}),
		locked: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledgerd_locked_accounts",
			Help: "Accounts locked by a chargeback",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile dumps every metric to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
