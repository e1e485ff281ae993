// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "karaoke"

var (
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Karaoke sessions that are running or paused.",
	})

	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_started_total",
		Help:      "Karaoke sessions started.",
	})

	SessionsStopped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_stopped_total",
		Help:      "Karaoke sessions stopped, by reason.",
	}, []string{"reason"})

	LinesRevealed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lines_revealed_total",
		Help:      "Lyric lines revealed across all sessions.",
	})

	RevealFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reveal_failures_total",
		Help:      "Failed attempts to render a lyric line.",
	})

	LyricsLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lyrics_lookups_total",
		Help:      "Lyrics lookups by provider and outcome.",
	}, []string{"provider", "outcome"})

	Commands = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commands_total",
		Help:      "Commands handled, by name.",
	}, []string{"command"})
)
