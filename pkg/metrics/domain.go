package metrics

import "github.com/prometheus/client_golang/prometheus"

// Storefront metrics. Registered alongside the built-ins in init().
var (
	// OrdersPlaced counts checkouts by payment method.
	OrdersPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "angotech",
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Total orders placed, by payment method.",
		},
		[]string{"payment_method"},
	)

	// OrdersFailed counts checkout attempts that could not complete.
	OrdersFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "angotech",
			Subsystem: "orders",
			Name:      "failed_total",
			Help:      "Total checkout attempts that failed, by reason.",
		},
		[]string{"reason"}, // "validation" | "empty_cart" | "write"
	)

	// CartMerges counts anonymous→authenticated cart merges at login.
	CartMerges = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "angotech",
			Subsystem: "cart",
			Name:      "merges_total",
			Help:      "Total guest carts merged into user carts at login.",
		},
	)

	// CartFlushes counts debounced cart writes reaching the database.
	CartFlushes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "angotech",
			Subsystem: "cart",
			Name:      "flushes_total",
			Help:      "Total debounced cart writes flushed, by operation.",
		},
		[]string{"op"}, // "upsert" | "remove" | "clear"
	)

	// ToastsShown counts notifications placed in the toast slot.
	ToastsShown = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "angotech",
			Subsystem: "notify",
			Name:      "toasts_shown_total",
			Help:      "Total toast notifications shown, by kind.",
		},
		[]string{"kind"},
	)
)

func init() {
	DefaultRegistry.MustRegister(
		OrdersPlaced,
		OrdersFailed,
		CartMerges,
		CartFlushes,
		ToastsShown,
	)
}
