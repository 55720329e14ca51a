package eventmodels

import (
	"encoding/json"
	"fmt"
)

type FeedEventName string

const (
	FeedEventSnapshotRefresh    FeedEventName = "dailySnap"
	FeedEventTradeTick          FeedEventName = "optionData"
	FeedEventOrderBook          FeedEventName = "bidAskData"
	FeedEventExpirationMetadata FeedEventName = "expirationData"
	FeedEventSpotPrice          FeedEventName = "priceUpdate"
	FeedEventMarketInfo         FeedEventName = "marketInfo"
	FeedEventFuturesBars        FeedEventName = "futKbars"
)

var feedEventAliases = map[string]FeedEventName{
	"snapshot-refresh":    FeedEventSnapshotRefresh,
	"trade-tick":          FeedEventTradeTick,
	"order-book":          FeedEventOrderBook,
	"expiration-metadata": FeedEventExpirationMetadata,
	"spot-price":          FeedEventSpotPrice,
	"market-info":         FeedEventMarketInfo,
	"futures-bars":        FeedEventFuturesBars,
}

// ParseFeedEventName accepts both the socket event names and their
// hyphenated aliases.
func ParseFeedEventName(s string) (FeedEventName, error) {
	switch name := FeedEventName(s); name {
	case FeedEventSnapshotRefresh, FeedEventTradeTick, FeedEventOrderBook, FeedEventExpirationMetadata,
		FeedEventSpotPrice, FeedEventMarketInfo, FeedEventFuturesBars:
		return name, nil
	}

	if name, ok := feedEventAliases[s]; ok {
		return name, nil
	}

	return "", fmt.Errorf("ParseFeedEventName: %q: %w", s, ErrUnknownFeedEvent)
}

// FeedEnvelope is one message of the websocket feed.
type FeedEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// DecodeFeedEvent returns a pointer to the typed event carried by data.
func DecodeFeedEvent(event string, data []byte) (interface{}, error) {
	name, err := ParseFeedEventName(event)
	if err != nil {
		return nil, err
	}

	var out interface{}
	switch name {
	case FeedEventSnapshotRefresh:
		out = &SnapshotRefreshEvent{}
	case FeedEventTradeTick:
		out = &TradeTickEvent{}
	case FeedEventOrderBook:
		out = &OrderBookEvent{}
	case FeedEventExpirationMetadata:
		out = &ExpirationMetadataEvent{}
	case FeedEventSpotPrice:
		out = &SpotPriceEvent{}
	case FeedEventMarketInfo:
		out = &MarketInfoEvent{}
	case FeedEventFuturesBars:
		out = &FuturesBarsEvent{}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("DecodeFeedEvent: %s: %w", name, err)
	}

	return out, nil
}

func (e *FeedEnvelope) Decode() (interface{}, error) {
	return DecodeFeedEvent(e.Event, e.Data)
}
