// Package observability expõe as métricas Prometheus do Grana. Os contadores
// são registrados no registry global e servidos em /metrics via promhttp.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var transactionsGenerated = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "grana",
	Subsystem: "recurring",
	Name:      "transactions_generated_total",
	Help:      "Total de transações materializadas a partir de recorrências.",
})

var generationFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "grana",
	Subsystem: "recurring",
	Name:      "generation_failures_total",
	Help:      "Total de regras cuja geração terminou em erro.",
})

var cursorConflicts = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "grana",
	Subsystem: "recurring",
	Name:      "cursor_conflicts_total",
	Help:      "Total de gerações abortadas porque o cursor foi movido por outra execução.",
})

var schedulerTicks = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "grana",
	Subsystem: "scheduler",
	Name:      "ticks_total",
	Help:      "Total de varreduras do agendador de recorrências.",
})

var schedulerTickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "grana",
	Subsystem: "scheduler",
	Name:      "tick_duration_seconds",
	Help:      "Duração de cada varredura do agendador.",
	Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
})

var httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "grana",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total de requisições HTTP por método, rota e status.",
}, []string{"method", "route", "status"})

// RecordGenerated soma as transações materializadas em uma geração.
func RecordGenerated(count int) {
	if count > 0 {
		transactionsGenerated.Add(float64(count))
	}
}

// RecordGenerationFailure conta uma regra que falhou durante a geração.
func RecordGenerationFailure() {
	generationFailures.Inc()
}

// RecordCursorConflict conta uma geração abortada por corrida no cursor.
func RecordCursorConflict() {
	cursorConflicts.Inc()
}

// RecordTick registra uma varredura completa do agendador.
func RecordTick(duration time.Duration) {
	schedulerTicks.Inc()
	schedulerTickDuration.Observe(duration.Seconds())
}

// RecordHTTPRequest conta uma requisição atendida pelo servidor.
func RecordHTTPRequest(method, route, status string) {
	httpRequests.WithLabelValues(method, route, status).Inc()
}

// Handler devolve o handler HTTP do endpoint de métricas.
func Handler() http.Handler {
	return promhttp.Handler()
}
