package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SignupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_signups_total",
			Help: "Total number of successful signups",
		},
	)

	AccessTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_access_tokens_issued_total",
			Help: "Total number of access tokens issued",
		},
	)

	LoginFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_login_failures_total",
			Help: "Total number of failed login attempts",
		},
	)

	TokenVerificationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_token_verifications_total",
			Help: "Total number of bearer token verifications",
		},
	)

	TokenVerificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_verifications_failed_total",
			Help: "Total number of failed bearer token verifications by reason",
		},
		[]string{"reason"},
	)
)
