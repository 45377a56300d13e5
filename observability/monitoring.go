package observability

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

// MessengerStats aggregates the counters shown on the debug dashboard.
type MessengerStats struct {
	InvitesSent      uint64  `json:"invites_sent"`
	InvitesDelivered uint64  `json:"invites_delivered"`
	VisitsRecorded   uint64  `json:"visits_recorded"`
	FriendsAdded     uint64  `json:"friends_added"`
	MalformedTokens  uint64  `json:"malformed_tokens"`
	StoreErrors      uint64  `json:"store_errors"`
	AllocMemMb       uint64  `json:"alloc_mem_mb"`
	NumGC            uint32  `json:"num_gc"`
	CPUPercent       float64 `json:"cpu_percent"`
	RAMPercent       float32 `json:"ram_percent"`
}

// StatsManager collects messenger telemetry with atomic counters so the
// request handlers never contend on a lock.
type StatsManager struct {
	log         *slog.Logger
	mu          sync.RWMutex
	latestStats MessengerStats

	invitesSent      uint64
	invitesDelivered uint64
	visitsRecorded   uint64
	friendsAdded     uint64
	malformedTokens  uint64
	storeErrors      uint64
}

func NewStatsManager(log *slog.Logger) *StatsManager {
	return &StatsManager{log: log}
}

func (sm *StatsManager) IncrInvitesSent()      { atomic.AddUint64(&sm.invitesSent, 1) }
func (sm *StatsManager) IncrInvitesDelivered() { atomic.AddUint64(&sm.invitesDelivered, 1) }
func (sm *StatsManager) IncrVisitsRecorded()   { atomic.AddUint64(&sm.visitsRecorded, 1) }
func (sm *StatsManager) IncrFriendsAdded()     { atomic.AddUint64(&sm.friendsAdded, 1) }
func (sm *StatsManager) IncrStoreErrors()      { atomic.AddUint64(&sm.storeErrors, 1) }

// SetMalformedTokens records how many ledger tokens currently fail
// validation. It is a gauge: each room visit reports the fresh total.
func (sm *StatsManager) SetMalformedTokens(n uint64) {
	atomic.StoreUint64(&sm.malformedTokens, n)
}

// Run refreshes the snapshot on a fixed interval until the context ends.
func (sm *StatsManager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sm.log.Info("Stats manager stopped")
			return nil
		case <-ticker.C:
			sm.updateStats()
		}
	}
}

func (sm *StatsManager) updateStats() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.latestStats.InvitesSent = atomic.LoadUint64(&sm.invitesSent)
	sm.latestStats.InvitesDelivered = atomic.LoadUint64(&sm.invitesDelivered)
	sm.latestStats.VisitsRecorded = atomic.LoadUint64(&sm.visitsRecorded)
	sm.latestStats.FriendsAdded = atomic.LoadUint64(&sm.friendsAdded)
	sm.latestStats.MalformedTokens = atomic.LoadUint64(&sm.malformedTokens)
	sm.latestStats.StoreErrors = atomic.LoadUint64(&sm.storeErrors)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	sm.latestStats.AllocMemMb = m.Alloc / 1024 / 1024
	sm.latestStats.NumGC = m.NumGC

	// Self-process usage, best effort: a failing probe only leaves the
	// previous values in place.
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if cpu, err := p.CPUPercent(); err == nil {
			sm.latestStats.CPUPercent = cpu
		}
		if ram, err := p.MemoryPercent(); err == nil {
			sm.latestStats.RAMPercent = ram
		}
	}

	sm.log.Debug("Stats updated",
		"invites_sent", sm.latestStats.InvitesSent,
		"visits_recorded", sm.latestStats.VisitsRecorded,
		"store_errors", sm.latestStats.StoreErrors,
		"mem_mb", sm.latestStats.AllocMemMb,
	)
}

// Snapshot refreshes the aggregated view outside the Run loop, for callers
// that need current numbers on demand.
func (sm *StatsManager) Snapshot() MessengerStats {
	sm.updateStats()
	return sm.GetLatest()
}

func (sm *StatsManager) GetLatest() MessengerStats {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.latestStats
}
