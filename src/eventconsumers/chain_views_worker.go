package eventconsumers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/txo-chain/src/calendar"
	"github.com/jiaming2012/txo-chain/src/eventmodels"
	"github.com/jiaming2012/txo-chain/src/eventpubsub"
	"github.com/jiaming2012/txo-chain/src/store"
	"github.com/jiaming2012/txo-chain/src/views"
)

// ChainViewsWorker recomputes the aggregation views at most once per
// throttle interval, and only when the store changed since the last run.
type ChainViewsWorker struct {
	wg        *sync.WaitGroup
	store     *store.ContractStore
	calendar  *calendar.Calendar
	cfg       views.Config
	throttle  time.Duration
	dirty     atomic.Bool
	otmSeries *views.OTMSeriesRecorder

	mu     sync.RWMutex
	latest *eventmodels.ChainViews
}

func NewChainViewsWorker(wg *sync.WaitGroup, contractStore *store.ContractStore, cal *calendar.Calendar, cfg views.Config, throttle time.Duration) *ChainViewsWorker {
	if throttle <= 0 {
		throttle = eventmodels.DefaultViewsThrottle
	}

	return &ChainViewsWorker{
		wg:        wg,
		store:     contractStore,
		calendar:  cal,
		cfg:       cfg,
		throttle:  throttle,
		otmSeries: views.NewOTMSeriesRecorder(),
	}
}

func (w *ChainViewsWorker) Latest() *eventmodels.ChainViews {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.latest
}

func (w *ChainViewsWorker) OTMSeries() *eventmodels.OTMSeries {
	return w.otmSeries.Series()
}

// Recompute builds the views from a fresh store snapshot.
func (w *ChainViewsWorker) Recompute(ctx context.Context) *eventmodels.ChainViews {
	snapshot := w.store.Snapshot()
	out := w.compute(ctx, snapshot, snapshot.NearExpiration)

	w.mu.Lock()
	w.latest = out
	w.mu.Unlock()

	eventpubsub.Publish("ChainViewsWorker", eventpubsub.ChainViewsUpdatedEvent, out)

	return out
}

// compute builds the views of one expiration. An OTM sample is only recorded
// when the session clock is known.
func (w *ChainViewsWorker) compute(ctx context.Context, snapshot *eventmodels.ChainSnapshot, expiration eventmodels.ExpirationDate) *eventmodels.ChainViews {
	now := snapshot.TakenAt

	out := &eventmodels.ChainViews{Version: snapshot.Version}
	logger := log.WithField("version", snapshot.Version)

	if expiration != "" {
		clock, clockErr := w.calendar.SessionClock(now, expiration)
		if clockErr != nil {
			logger.Warnf("ChainViewsWorker: session clock: %v", clockErr)
		} else {
			out.Clock = clock
		}

		out.ProfitDistribution = views.ProfitDistribution(snapshot, expiration, w.cfg)
		out.VolumeHistogram = views.VolumeHistogram(snapshot, expiration)

		otmSum, err := views.OTMTimeValueSum(snapshot, expiration)
		switch {
		case err == nil:
			out.OTMSum = otmSum
			if clockErr == nil {
				w.otmSeries.Record(expiration, clock.TradableMinutesRemaining, otmSum.Sum)
			}
		case errors.Is(err, eventmodels.ErrSpotPriceUnknown):
			logger.Debug("ChainViewsWorker: spot price unknown")
		default:
			logger.Warnf("ChainViewsWorker: otm sum: %v", err)
		}

		if _, ok := snapshot.SpotPrice(); ok {
			smile, err := views.IVSmile(ctx, snapshot, expiration, w.calendar, now, w.cfg)
			if err != nil {
				logger.Warnf("ChainViewsWorker: iv smile: %v", err)
			} else {
				out.IVSmile = smile
			}
		}
	}

	out.OTMSeries = w.otmSeries.Series()

	return out
}

func (w *ChainViewsWorker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.throttle)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !w.dirty.Swap(false) {
				continue
			}

			w.Recompute(ctx)
		case <-ctx.Done():
			log.Info("ChainViewsWorker: stopped")
			return
		}
	}
}

func (w *ChainViewsWorker) Start(ctx context.Context) {
	w.store.OnChange(func(uint64) {
		w.dirty.Store(true)
	})

	w.dirty.Store(true)

	w.wg.Add(1)
	go w.run(ctx)
}
