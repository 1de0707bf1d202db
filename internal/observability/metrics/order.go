package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of challenge orders created",
		},
	)

	OrderEmailsSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "order_emails_sent_total",
			Help: "Total number of order confirmation emails sent",
		},
	)

	OrderEmailsFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "order_emails_failed_total",
			Help: "Total number of order confirmation emails that failed to send",
		},
	)
)
