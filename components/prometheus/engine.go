package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	engineExecutions   *prometheus.GaugeVec
	engineGasConsumed  prometheus.Gauge
	engineAvgGas       prometheus.Gauge
	engineCompilations *prometheus.GaugeVec
	engineVerifies     *prometheus.GaugeVec
)

func configureEngine() {
	engineExecutions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "covenant",
			Subsystem: "engine",
			Name:      "executions",
			Help:      "Number of contract executions.",
		},
		[]string{"result"},
	)

	engineGasConsumed = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "covenant",
			Subsystem: "engine",
			Name:      "gas_consumed_total",
			Help:      "Total gas consumed across all executions.",
		},
	)

	engineAvgGas = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "covenant",
			Subsystem: "engine",
			Name:      "gas_per_execution_avg",
			Help:      "Average gas cost of an execution.",
		},
	)

	engineCompilations = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "covenant",
			Subsystem: "engine",
			Name:      "compilations",
			Help:      "Number of contract compilations.",
		},
		[]string{"result"},
	)

	engineVerifies = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "covenant",
			Subsystem: "engine",
			Name:      "verifications",
			Help:      "Number of contract verifications.",
		},
		[]string{"result"},
	)

	registry.MustRegister(engineExecutions)
	registry.MustRegister(engineGasConsumed)
	registry.MustRegister(engineAvgGas)
	registry.MustRegister(engineCompilations)
	registry.MustRegister(engineVerifies)

	addCollect(collectEngine)
}

func collectEngine() {
	engineExecutions.WithLabelValues("total").Set(float64(deps.Metrics.Executions.Load()))
	engineExecutions.WithLabelValues("failed").Set(float64(deps.Metrics.ExecutionsFailed.Load()))
	engineExecutions.WithLabelValues("out_of_gas").Set(float64(deps.Metrics.ExecutionsOOG.Load()))

	engineGasConsumed.Set(float64(deps.Metrics.GasConsumed.Load()))
	engineAvgGas.Set(float64(deps.Metrics.AverageGasPerExecution()))

	engineCompilations.WithLabelValues("total").Set(float64(deps.Metrics.Compilations.Load()))
	engineCompilations.WithLabelValues("failed").Set(float64(deps.Metrics.CompilationsFailed.Load()))

	engineVerifies.WithLabelValues("total").Set(float64(deps.Metrics.Verifications.Load()))
	engineVerifies.WithLabelValues("failed").Set(float64(deps.Metrics.VerificationsFailed.Load()))
}
