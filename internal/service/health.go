package service

import (
	"sync/atomic"
	"time"

	"resourcegen/config"
)

// HealthService 探針狀態；ready 在 store 開啟、HTTP server 起來之後才打開，關機時先關掉
type HealthService struct {
	live      atomic.Bool
	ready     atomic.Bool
	startedAt time.Time
	version   string
}

type HealthStatus struct {
	Status        string `json:"status"`
	Live          bool   `json:"live"`
	Ready         bool   `json:"ready"`
	Version       string `json:"version,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func NewHealthService(conf *config.Configuration) *HealthService {
	s := &HealthService{startedAt: time.Now(), version: conf.App.Version}
	s.live.Store(true)
	return s
}

func (s *HealthService) SetReady(v bool) {
	s.ready.Store(v)
}

func (s *HealthService) IsLive() bool {
	return s.live.Load()
}

func (s *HealthService) IsReady() bool {
	return s.ready.Load()
}

func (s *HealthService) Status() HealthStatus {
	status := HealthStatus{
		Status:        "ok",
		Live:          s.IsLive(),
		Ready:         s.IsReady(),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	}
	if !status.Ready {
		status.Status = "starting"
	}
	return status
}
