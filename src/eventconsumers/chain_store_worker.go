package eventconsumers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jiaming2012/txo-chain/src/eventmodels"
	"github.com/jiaming2012/txo-chain/src/eventpubsub"
	"github.com/jiaming2012/txo-chain/src/store"
)

// ChainStoreWorker applies feed events to the contract store in the order
// they were published and republishes the resulting change events.
type ChainStoreWorker struct {
	wg      *sync.WaitGroup
	store   *store.ContractStore
	ctx     context.Context
	handler func(event interface{})
	applied atomic.Uint64
	dropped atomic.Uint64
}

func NewChainStoreWorker(wg *sync.WaitGroup, contractStore *store.ContractStore) *ChainStoreWorker {
	w := &ChainStoreWorker{
		wg:    wg,
		store: contractStore,
		ctx:   context.Background(),
	}
	w.handler = w.handleFeedEvent

	return w
}

func (w *ChainStoreWorker) Applied() uint64 {
	return w.applied.Load()
}

func (w *ChainStoreWorker) Dropped() uint64 {
	return w.dropped.Load()
}

func (w *ChainStoreWorker) drop(logger *log.Entry, event string, err error) {
	w.dropped.Add(1)
	logger.WithField("event", event).Warnf("ChainStoreWorker: dropped update: %v", err)
}

func (w *ChainStoreWorker) handleFeedEvent(event interface{}) {
	ctx, span := otel.Tracer("chain_store_worker").Start(w.ctx, "handleFeedEvent")
	defer span.End()

	logger := log.WithContext(ctx)

	switch ev := event.(type) {
	case *eventmodels.SnapshotRefreshEvent:
		span.SetAttributes(attribute.String("feed.event", string(eventmodels.FeedEventSnapshotRefresh)))

		applied, errs := w.store.ApplySnapshot(ev)
		for _, err := range errs {
			w.drop(logger, string(eventmodels.FeedEventSnapshotRefresh), err)
		}

		w.applied.Add(1)
		logger.WithField("event", eventmodels.FeedEventSnapshotRefresh).Infof("ChainStoreWorker: applied snapshot with %d contracts", applied)

	case *eventmodels.TradeTickEvent:
		span.SetAttributes(attribute.String("feed.event", string(eventmodels.FeedEventTradeTick)))

		changes, err := w.store.ApplyTradeTick(ev)
		if err != nil {
			w.drop(logger, string(eventmodels.FeedEventTradeTick), err)
			return
		}

		w.applied.Add(1)
		w.publishChanges(changes)

	case *eventmodels.OrderBookEvent:
		span.SetAttributes(attribute.String("feed.event", string(eventmodels.FeedEventOrderBook)))

		changes, err := w.store.ApplyOrderBook(ev)
		if err != nil {
			w.drop(logger, string(eventmodels.FeedEventOrderBook), err)
			return
		}

		w.applied.Add(1)
		w.publishChanges(changes)

	case *eventmodels.ExpirationMetadataEvent:
		span.SetAttributes(attribute.String("feed.event", string(eventmodels.FeedEventExpirationMetadata)))

		for _, err := range w.store.ApplyExpirationMetadata(ev) {
			logger.WithField("event", eventmodels.FeedEventExpirationMetadata).Warnf("ChainStoreWorker: skipped metadata entry: %v", err)
		}

		w.applied.Add(1)

	case *eventmodels.SpotPriceEvent:
		span.SetAttributes(attribute.String("feed.event", string(eventmodels.FeedEventSpotPrice)))

		if err := w.store.ApplySpotPrice(ev); err != nil {
			w.drop(logger, string(eventmodels.FeedEventSpotPrice), err)
			return
		}

		w.applied.Add(1)

	case *eventmodels.MarketInfoEvent:
		span.SetAttributes(attribute.String("feed.event", string(eventmodels.FeedEventMarketInfo)))

		if err := w.store.ApplyMarketInfo(ev); err != nil {
			w.drop(logger, string(eventmodels.FeedEventMarketInfo), err)
			return
		}

		w.applied.Add(1)

	case *eventmodels.FuturesBarsEvent:
		span.SetAttributes(attribute.String("feed.event", string(eventmodels.FeedEventFuturesBars)))

		for _, err := range w.store.ApplyFuturesBars(ev) {
			logger.WithField("event", eventmodels.FeedEventFuturesBars).Warnf("ChainStoreWorker: skipped bar: %v", err)
		}

		w.applied.Add(1)

	default:
		w.drop(logger, fmt.Sprintf("%T", event), eventmodels.ErrUnknownFeedEvent)
	}
}

func (w *ChainStoreWorker) publishChanges(changes []*eventmodels.ChangeEvent) {
	if len(changes) == 0 {
		return
	}

	eventpubsub.Publish("ChainStoreWorker", eventpubsub.ContractChangeEvent, changes)
}

func (w *ChainStoreWorker) Start(ctx context.Context) error {
	w.ctx = ctx

	if err := eventpubsub.SubscribeOrdered(eventpubsub.FeedEvent, w.handler); err != nil {
		return fmt.Errorf("ChainStoreWorker.Start: failed to subscribe: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		<-ctx.Done()

		if err := eventpubsub.Unsubscribe(eventpubsub.FeedEvent, w.handler); err != nil {
			log.Warnf("ChainStoreWorker: failed to unsubscribe: %v", err)
		}

		w.store.Close()
		log.Info("ChainStoreWorker: stopped")
	}()

	return nil
}
