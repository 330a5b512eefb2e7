package worker

import (
	"context"
	"time"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/config"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/errcodes"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/sync"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// Worker runs periodic background sync passes. Each tick attempts one full
// pass; passes skipped because sync is disabled, the device is offline, or a
// manual pass is already running are logged at debug level and retried on the
// next tick.
type Worker struct {
	config *config.Config
	log    logger.Logger

	syncService *sync.Service

	shutdown chan struct{}
	done     chan struct{}
}

func New(cfg *config.Config, syncService *sync.Service) *Worker {
	return &Worker{
		config: cfg,
		log:    logger.New(),

		syncService: syncService,

		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (w *Worker) Start() {
	go w.run()
}

func (w *Worker) run() {
	timer := time.NewTimer(w.config.SyncInterval)

	for {
		select {
		case <-w.shutdown:
			w.done <- struct{}{}
			return
		case <-timer.C:
			w.tick()
			timer.Reset(w.config.SyncInterval)
		}
	}
}

func (w *Worker) tick() {
	id, err := uuid.NewRandom()
	if err != nil {
		w.log.Err(err).Error("new uuid error")
		return
	}
	log := w.log.ID(id.String()).Root(logger.Data{"source": "worker"})
	ctx := log.WithContext(context.Background())

	report, err := w.syncService.SyncNow(ctx)
	if err != nil {
		if errors.Is(err, errcodes.SyncDisabled()) ||
			errors.Is(err, errcodes.ConnectivityError()) ||
			errors.Is(err, errcodes.SyncInProgress()) {
			log.Debug("sync pass skipped", logger.Data{"reason": err.Error()})
			return
		}
		log.Err(err).Error("background sync error")
		return
	}

	log.Info("background sync pass finished", logger.Data{
		"pushed":  report.Push.Synced,
		"failed":  report.Push.Failed,
		"applied": report.Pull.Applied,
	})
}

func (w *Worker) Shutdown() {
	close(w.shutdown)
	<-w.done
}
