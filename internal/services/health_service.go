package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"gradesync/internal/infrastructure"
	"gradesync/pkg/contracts"
)

// StatusProvider reports the dataset being served
type StatusProvider interface {
	Status() RefreshStatus
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	gradebook StatusProvider
	advice    bool
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// NewHealthService creates a health service. adviceEnabled only affects
// the reported details.
func NewHealthService(version string, gradebook StatusProvider, adviceEnabled bool, logger *slog.Logger) *HealthService {
	return &HealthService{
		version:   version,
		gradebook: gradebook,
		advice:    adviceEnabled,
		startTime: time.Now(),
		logger:    infrastructure.WithComponent(logger, "health_service"),
	}
}

// LivenessCheck reports that the process is up
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
		},
	}
}

// ReadinessCheck is ready once a dataset has been loaded. A failing refresh
// while older data is served reports "degraded".
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]ServiceHealth),
	}

	gb := hs.checkGradebook()
	status.Services["gradebook"] = gb
	status.Services["advice"] = hs.checkAdvice()

	switch gb.Status {
	case "not_ready":
		status.Status = "not_ready"
	case "degraded":
		status.Status = "degraded"
	}

	hs.logger.DebugContext(ctx, "readiness checked", slog.String("status", status.Status))
	return status
}

// VersionResponse is the build information served by GET /version
type VersionResponse struct {
	contracts.VersionInfo
	StartTime string `json:"start_time"`
}

// Version returns version information
func (hs *HealthService) Version() VersionResponse {
	info := contracts.GetVersionInfo()
	info.Version = hs.version
	return VersionResponse{
		VersionInfo: info,
		StartTime:   hs.startTime.Format(time.RFC3339),
	}
}

func (hs *HealthService) checkGradebook() ServiceHealth {
	if hs.gradebook == nil {
		return ServiceHealth{Status: "not_ready", Message: "gradebook not configured"}
	}
	st := hs.gradebook.Status()
	switch {
	case !st.Loaded:
		msg := "waiting for the first sheet load"
		if st.LastError != "" {
			msg = st.LastError
		}
		return ServiceHealth{Status: "not_ready", Message: msg, Details: st}
	case st.LastError != "":
		return ServiceHealth{Status: "degraded", Message: "serving data from an earlier load", Details: st}
	default:
		return ServiceHealth{Status: "ready", Details: st}
	}
}

func (hs *HealthService) checkAdvice() ServiceHealth {
	if !hs.advice {
		return ServiceHealth{Status: "ready", Message: "advice disabled, fixed texts are served"}
	}
	return ServiceHealth{Status: "ready"}
}
