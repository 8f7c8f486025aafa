package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "annowork_client",
			Name:      "api_requests_total",
			Help:      "API call attempts, including retries.",
		},
		[]string{"operation"},
	)

	apiRequestFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "annowork_client",
			Name:      "api_request_failures_total",
			Help:      "API call attempts that returned an error.",
		},
		[]string{"operation"},
	)

	apiRequestRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "annowork_client",
			Name:      "api_request_retries_total",
			Help:      "Recoverable failures that were handed to the retry policy.",
		},
		[]string{"operation"},
	)
)
