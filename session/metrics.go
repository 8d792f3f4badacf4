package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values shared by the login and refresh counters.
const (
	outcomeSuccess            = "success"
	outcomeInvalidCredentials = "invalid_credentials"
	outcomeLocked             = "locked"
	outcomeInvalidToken       = "invalid_token"
	outcomeReplayed           = "replayed"
	outcomeError              = "error"
)

var (
	// loginsTotal counts login attempts by outcome.
	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	// lockoutsTotal counts the times a failed attempt crossed the lockout threshold.
	lockoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_lockouts_total",
			Help: "Total number of accounts locked after repeated login failures",
		},
	)

	// refreshesTotal counts refresh attempts by outcome. The replayed outcome
	// marks presentations of an already-rotated token.
	refreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_refreshes_total",
			Help: "Total number of refresh token rotations by outcome",
		},
		[]string{"outcome"},
	)

	// logoutsTotal counts logout calls, including repeats on already-dead tokens.
	logoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_logouts_total",
			Help: "Total number of logout requests",
		},
	)
)
