package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BotsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bots_created_total",
			Help: "Total number of chatbots created",
		},
	)

	BotQuestionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_questions_total",
			Help: "Total number of questions asked to chatbots",
		},
	)

	BotAnswerDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bot_answer_duration_seconds",
			Help:    "Duration of chatbot answer generation in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)

	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Total number of requests to the language model provider",
		},
		[]string{"kind", "outcome"},
	)

	TerminalRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "terminal_requests_total",
			Help: "Total number of requests to the trading terminal gateway",
		},
		[]string{"outcome"},
	)
)
