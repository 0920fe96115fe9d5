package observability

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/process"
)

// OnlineCounter reports how many users currently hold a realtime session.
type OnlineCounter interface {
	OnlineCount() int
}

// Stats is a point-in-time view of the process and its realtime sessions.
type Stats struct {
	PID           int32     `json:"pid"`
	OnlineUsers   int       `json:"online_users"`
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryPercent float32   `json:"memory_percent"`
	RSSMb         uint64    `json:"rss_mb"`
	AllocMemMb    uint64    `json:"alloc_mem_mb"`
	NumGC         uint32    `json:"num_gc"`
	Goroutines    int       `json:"goroutines"`
	Uptime        string    `json:"uptime"`
	CollectedAt   time.Time `json:"collected_at"`
}

// Monitor samples the current process with gopsutil and keeps the latest sample
// for the debug server.
type Monitor struct {
	log     *slog.Logger
	online  OnlineCounter
	proc    *process.Process
	started time.Time

	mu     sync.RWMutex
	latest Stats
}

func NewMonitor(log *slog.Logger, online OnlineCounter) (*Monitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("cannot inspect own process: %w", err)
	}
	return &Monitor{log: log, online: online, proc: proc, started: time.Now()}, nil
}

// Refresh takes a new sample. Process metrics the OS refuses to give are left at zero.
func (m *Monitor) Refresh() Stats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	stats := Stats{
		PID:         m.proc.Pid,
		OnlineUsers: m.online.OnlineCount(),
		AllocMemMb:  mem.Alloc / 1024 / 1024,
		NumGC:       mem.NumGC,
		Goroutines:  runtime.NumGoroutine(),
		Uptime:      time.Since(m.started).Round(time.Second).String(),
		CollectedAt: time.Now().UTC(),
	}
	if cpu, err := m.proc.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	} else {
		m.log.Debug("Cannot read process cpu usage", "error", err)
	}
	if ram, err := m.proc.MemoryPercent(); err == nil {
		stats.MemoryPercent = ram
	} else {
		m.log.Debug("Cannot read process ram usage", "error", err)
	}
	if info, err := m.proc.MemoryInfo(); err == nil {
		stats.RSSMb = info.RSS / 1024 / 1024
	} else {
		m.log.Debug("Cannot read process memory info", "error", err)
	}

	m.mu.Lock()
	m.latest = stats
	m.mu.Unlock()
	return stats
}

// Latest returns the last sample, refreshing first if none was taken yet.
func (m *Monitor) Latest() Stats {
	m.mu.RLock()
	latest := m.latest
	m.mu.RUnlock()
	if latest.CollectedAt.IsZero() {
		return m.Refresh()
	}
	return latest
}
