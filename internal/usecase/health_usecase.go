package usecase

import (
	"context"
	"time"
)

const (
	StatusOK       = "ok"
	StatusDown     = "down"
	StatusDisabled = "disabled"
)

// Pinger is any dependency the health check can ping.
type Pinger func(ctx context.Context) error

type HealthReport struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

func (r HealthReport) Healthy() bool {
	return r.Status == StatusOK
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthReport
}

type healthUsecase struct {
	checks map[string]Pinger
}

// NewHealthUsecase runs checks on every call. A nil Pinger is reported as
// disabled and never fails the report.
func NewHealthUsecase(checks map[string]Pinger) HealthUsecase {
	return &healthUsecase{checks: checks}
}

func (u *healthUsecase) Check(ctx context.Context) HealthReport {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	report := HealthReport{Status: StatusOK, Components: make(map[string]string, len(u.checks))}
	for name, ping := range u.checks {
		if ping == nil {
			report.Components[name] = StatusDisabled
			continue
		}
		if err := ping(ctx); err != nil {
			report.Components[name] = StatusDown
			report.Status = StatusDown
			continue
		}
		report.Components[name] = StatusOK
	}
	return report
}
