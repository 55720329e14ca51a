package eventpubsub

import (
	"fmt"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/txo-chain/src/eventmodels"
)

var bus EventBus.Bus

func Init() {
	bus = EventBus.New()
}

// Publish expects pointer events.
func Publish(publisherName string, topic string, event interface{}) {
	log.Tracef("%s: publishing %s", publisherName, topic)
	bus.Publish(topic, event)
}

func Subscribe(topic string, callbackFn interface{}) error {
	if err := bus.SubscribeAsync(topic, callbackFn, false); err != nil {
		return err
	}

	log.Infof("Subscribed to topic %s", topic)
	return nil
}

// SubscribeOrdered delivers the events of the topic one at a time, in the
// order they were published.
func SubscribeOrdered(topic string, callbackFn interface{}) error {
	if err := bus.SubscribeAsync(topic, callbackFn, true); err != nil {
		return err
	}

	log.Infof("Subscribed to topic %s (ordered)", topic)
	return nil
}

func Unsubscribe(topic string, callbackFn interface{}) error {
	return bus.Unsubscribe(topic, callbackFn)
}

// WaitAsync blocks until every async handler has returned.
func WaitAsync() {
	bus.WaitAsync()
}

// PublishFeedEvent publishes a decoded feed event on the single ingestion
// topic, so that ordered subscribers see feed events in arrival order.
func PublishFeedEvent(publisherName string, event interface{}) error {
	switch event.(type) {
	case *eventmodels.SnapshotRefreshEvent,
		*eventmodels.TradeTickEvent,
		*eventmodels.OrderBookEvent,
		*eventmodels.ExpirationMetadataEvent,
		*eventmodels.SpotPriceEvent,
		*eventmodels.MarketInfoEvent,
		*eventmodels.FuturesBarsEvent:
		Publish(publisherName, FeedEvent, event)
	default:
		return fmt.Errorf("PublishFeedEvent: %T: %w", event, eventmodels.ErrUnknownFeedEvent)
	}

	return nil
}
