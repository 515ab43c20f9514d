package gazette

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal tracks pipeline runs by final status.
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boewatcher_runs_total",
		Help: "Total ingestion runs, labeled by outcome status.",
	}, []string{"status"})

	// ProbesTotal tracks date probes during the backward search.
	ProbesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boewatcher_summary_probes_total",
		Help: "Total per-date summary probes, labeled by outcome.",
	}, []string{"outcome"})

	// AnnouncementsInserted tracks genuinely new rows.
	AnnouncementsInserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boewatcher_announcements_inserted_total",
		Help: "Total announcements inserted into the store.",
	})

	// AnnouncementsDuplicate tracks dedup conflicts silently skipped.
	AnnouncementsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boewatcher_announcements_duplicate_total",
		Help: "Total announcements skipped as already ingested.",
	})

	// NotifyFailures tracks soft notification-dispatch failures.
	NotifyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "boewatcher_notify_failures_total",
		Help: "Total digest dispatch failures reported as run warnings.",
	})
)
