package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all Prometheus collectors of the ledger. They are
// registered by the router together with the HTTP metrics.
var Metrics = []prometheus.Collector{
	transactionsPosted,
	transactionsReversed,
	integrityFailures,
}

var transactionsPosted = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "ledger_transactions_posted_total",
		Help: "How many transactions have been posted, including reversals.",
	},
)

var transactionsReversed = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "ledger_transactions_reversed_total",
		Help: "How many posted transactions have been reversed.",
	},
)

var integrityFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ledger_integrity_failures_total",
		Help: "How many ledger integrity checks failed, partitioned by check.",
	},
	[]string{"check"},
)
