package sync

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/errcodes"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/settings"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// Service orchestrates sync passes: push the outbox first so local changes
// can't be clobbered by an incoming pull, then pull remote changes since the
// watermark. At most one pass runs at a time.
type Service struct {
	db        *bun.DB
	settings  *settings.Service
	probe     ConnectivityChecker
	watermark *Watermark
	push      *pushEngine
	pull      *pullEngine
	log       logger.Logger

	mu stdsync.Mutex
}

func NewService(db *bun.DB, remote Store, probe ConnectivityChecker, settingsService *settings.Service, watermark *Watermark, log logger.Logger) *Service {
	return &Service{
		db:        db,
		settings:  settingsService,
		probe:     probe,
		watermark: watermark,
		push:      &pushEngine{db: db, remote: remote, log: log},
		pull:      &pullEngine{db: db, remote: remote, log: log},
		log:       log,
	}
}

// Report is the outcome of one full sync pass.
type Report struct {
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Push       *PushReport `json:"push"`
	Pull       *PullReport `json:"pull"`
}

// Status is a point-in-time view of sync health.
type Status struct {
	Enabled       bool      `json:"enabled"`
	Online        bool      `json:"online"`
	PendingCount  int       `json:"pending_count"`
	FailedCount   int       `json:"failed_count"`
	LastPulledAt  time.Time `json:"last_pulled_at"`
	SyncInFlight  bool      `json:"sync_in_flight"`
}

// SyncNow runs one full push-then-pull pass. It returns SyncInProgress when a
// pass is already running, SyncDisabled when the sync flag is off, and
// ConnectivityError when the network probe fails.
func (s *Service) SyncNow(ctx context.Context) (*Report, error) {
	if !s.mu.TryLock() {
		return nil, errcodes.SyncInProgress()
	}
	defer s.mu.Unlock()

	enabled, err := s.settings.GetBool(ctx, models.ConfigKeySyncEnabled)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, errcodes.SyncDisabled()
	}

	if !s.probe.IsOnline(ctx) {
		return nil, errcodes.ConnectivityError()
	}

	since, err := s.watermark.Load()
	if err != nil {
		return nil, err
	}

	// Server changes that land while this pass runs belong to the next
	// window, so the new watermark is the pass start, not the pass end.
	report := &Report{StartedAt: time.Now().UTC()}

	report.Push, err = s.push.push(ctx)
	if err != nil {
		return nil, err
	}

	report.Pull, err = s.pull.pull(ctx, since)
	if err != nil {
		return nil, err
	}

	if len(report.Pull.FailedTables) == 0 {
		if err := s.watermark.Save(report.StartedAt); err != nil {
			return nil, err
		}
	} else {
		s.log.Warn("watermark held back: some tables failed to pull", logger.Data{"failed_tables": len(report.Pull.FailedTables)})
	}

	report.FinishedAt = time.Now().UTC()
	s.log.Info("sync pass finished", logger.Data{
		"pushed":  report.Push.Synced,
		"failed":  report.Push.Failed,
		"applied": report.Pull.Applied,
		"skipped": report.Pull.Skipped,
	})

	return report, nil
}

// SetEnabled flips the sync flag. Turning it on while online kicks off an
// immediate pass to drain whatever accumulated offline; a failure of that
// opportunistic pass is logged but doesn't fail the settings change.
func (s *Service) SetEnabled(ctx context.Context, enabled bool) error {
	current, err := s.settings.GetBool(ctx, models.ConfigKeySyncEnabled)
	if err != nil {
		return err
	}

	if err := s.settings.SetBool(ctx, models.ConfigKeySyncEnabled, enabled); err != nil {
		return err
	}

	if enabled && !current && s.probe.IsOnline(ctx) {
		if _, err := s.SyncNow(ctx); err != nil {
			s.log.Warn("opportunistic sync after enable failed", logger.Data{"error": err.Error()})
		}
	}

	return nil
}

// GetStatus reports sync health without touching the network beyond the probe.
func (s *Service) GetStatus(ctx context.Context) (*Status, error) {
	status := &Status{}

	enabled, err := s.settings.GetBool(ctx, models.ConfigKeySyncEnabled)
	if err != nil {
		return nil, err
	}
	status.Enabled = enabled
	status.Online = s.probe.IsOnline(ctx)

	status.PendingCount, err = s.queueCount(ctx, models.SyncQueueStatusPending)
	if err != nil {
		return nil, err
	}
	status.FailedCount, err = s.queueCount(ctx, models.SyncQueueStatusFailed)
	if err != nil {
		return nil, err
	}

	status.LastPulledAt, err = s.watermark.Load()
	if err != nil {
		return nil, err
	}

	if s.mu.TryLock() {
		s.mu.Unlock()
	} else {
		status.SyncInFlight = true
	}

	return status, nil
}

func (s *Service) queueCount(ctx context.Context, queueStatus string) (int, error) {
	count, err := s.db.NewSelect().
		Model((*models.SyncQueueEntry)(nil)).
		Where("status = ?", queueStatus).
		Count(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return count, nil
}
