package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		checkoutsTotal,
		webhooksTotal,
		gatewayRequestsTotal,
		paymentsRevenueTotal,
	)
}

var (
	// result: created|plan_not_found|gateway_error|not_configured|error
	checkoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkouts_total",
			Help: "Checkout attempts by result.",
		},
		[]string{"result"},
	)

	// outcome: applied|unmatched|bad_request|gateway_error|error
	webhooksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_webhooks_total",
			Help: "Provider webhook deliveries by outcome.",
		},
		[]string{"outcome"},
	)

	// call: create|get; result: ok|error
	gatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_gateway_requests_total",
			Help: "Outbound payment gateway calls by operation and result.",
		},
		[]string{"call", "result"},
	)

	paymentsRevenueTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_revenue_rub_total",
			Help: "Total RUB value of payments confirmed as succeeded.",
		},
	)
)

// IncCheckout учитывает попытку оформления заказа
func IncCheckout(result string) {
	checkoutsTotal.WithLabelValues(result).Inc()
}

// IncWebhook учитывает доставку вебхука провайдера
func IncWebhook(outcome string) {
	webhooksTotal.WithLabelValues(outcome).Inc()
}

// IncGatewayRequest учитывает исходящий вызов к провайдеру
func IncGatewayRequest(call, result string) {
	gatewayRequestsTotal.WithLabelValues(call, result).Inc()
}

// AddRevenue учитывает подтвержденную выручку в рублях
func AddRevenue(amountRub int) {
	paymentsRevenueTotal.Add(float64(amountRub))
}
