package board

import (
	"sync/atomic"
	"time"
)

// Metrics tracks engine statistics using atomic operations for thread-safety
type Metrics struct {
	GesturesStarted atomic.Int64
	Commits         atomic.Int64
	NoOps           atomic.Int64
	Failures        atomic.Int64
	StoreWrites     atomic.Int64
	Reloads         atomic.Int64
	StartTime       time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

func (m *Metrics) IncGesturesStarted() { m.GesturesStarted.Add(1) }
func (m *Metrics) IncCommits()         { m.Commits.Add(1) }
func (m *Metrics) IncNoOps()           { m.NoOps.Add(1) }
func (m *Metrics) IncFailures()        { m.Failures.Add(1) }
func (m *Metrics) IncStoreWrites()     { m.StoreWrites.Add(1) }
func (m *Metrics) IncReloads()         { m.Reloads.Add(1) }

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	GesturesStarted int64     `json:"gestures_started"`
	Commits         int64     `json:"commits"`
	NoOps           int64     `json:"no_ops"`
	Failures        int64     `json:"failures"`
	StoreWrites     int64     `json:"store_writes"`
	Reloads         int64     `json:"reloads"`
	StartTime       time.Time `json:"start_time"`
	Uptime          string    `json:"uptime"`
}

// Snapshot returns a snapshot of current metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		GesturesStarted: m.GesturesStarted.Load(),
		Commits:         m.Commits.Load(),
		NoOps:           m.NoOps.Load(),
		Failures:        m.Failures.Load(),
		StoreWrites:     m.StoreWrites.Load(),
		Reloads:         m.Reloads.Load(),
		StartTime:       m.StartTime,
		Uptime:          time.Since(m.StartTime).String(),
	}
}
