package health

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"lv-paperdesk/internal/httputil"
	"lv-paperdesk/internal/repository"
)

type Handler struct {
	repo        *repository.Repository
	startedAt   time.Time
	httpAddr    string
	snapshotDir string
}

func NewHandler(repo *repository.Repository, startedAt time.Time, httpAddr, snapshotDir string) *Handler {
	start := startedAt.UTC()
	if start.IsZero() {
		start = time.Now().UTC()
	}
	return &Handler{repo: repo, startedAt: start, httpAddr: httpAddr, snapshotDir: snapshotDir}
}

type healthResponse struct {
	Status    string       `json:"status"`
	Timestamp string       `json:"timestamp"`
	UptimeSec int64        `json:"uptime_sec"`
	Uptime    string       `json:"uptime"`
	App       appStats     `json:"app"`
	Runtime   runtimeStats `json:"runtime"`
	Memory    memoryStats  `json:"memory"`
	Database  dbStats      `json:"database"`
}

type appStats struct {
	HTTPAddr    string `json:"http_addr"`
	SnapshotDir string `json:"snapshot_dir,omitempty"`
	Persistence string `json:"persistence"`
}

type runtimeStats struct {
	GoVersion  string `json:"go_version"`
	Goroutines int    `json:"goroutines"`
	NumCPU     int    `json:"num_cpu"`
}

type memoryStats struct {
	AllocMB      string `json:"alloc_mb"`
	TotalAllocMB string `json:"total_alloc_mb"`
	SysMB        string `json:"sys_mb"`
	NumGC        uint32 `json:"num_gc"`
}

type dbStats struct {
	Status string `json:"status"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	uptime := now.Sub(h.startedAt)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	persistence := "snapshots disabled"
	if h.snapshotDir != "" {
		persistence = "snapshots enabled"
	}
	db := dbStats{Status: "ok"}
	status := "ok"
	if err := h.repo.Ping(); err != nil {
		db.Status = err.Error()
		status = "degraded"
	}

	httputil.WriteJSON(w, http.StatusOK, healthResponse{
		Status:    status,
		Timestamp: now.Format(time.RFC3339),
		UptimeSec: int64(uptime.Seconds()),
		Uptime:    uptime.Truncate(time.Second).String(),
		App: appStats{
			HTTPAddr:    h.httpAddr,
			SnapshotDir: h.snapshotDir,
			Persistence: persistence,
		},
		Runtime: runtimeStats{
			GoVersion:  runtime.Version(),
			Goroutines: runtime.NumGoroutine(),
			NumCPU:     runtime.NumCPU(),
		},
		Memory: memoryStats{
			AllocMB:      mbString(mem.Alloc),
			TotalAllocMB: mbString(mem.TotalAlloc),
			SysMB:        mbString(mem.Sys),
			NumGC:        mem.NumGC,
		},
		Database: db,
	})
}

func mbString(b uint64) string {
	return fmt.Sprintf("%.1f", float64(b)/1024/1024)
}
