package eventmodels

import (
	"encoding/json"
	"sort"
	"time"
)

// MarketQuoteDTO is the current quote of one reference instrument. The index
// carries only a last price.
type MarketQuoteDTO struct {
	Last FeedNumber `json:"last"`
	Bid  FeedNumber `json:"bid"`
	Ask  FeedNumber `json:"ask"`
}

// MarketInfoEvent carries the latest quotes of the reference instruments,
// keyed by tag (TXF, MXF, TSE). Each message is the complete state.
type MarketInfoEvent struct {
	Instruments map[string]MarketQuoteDTO
}

func (e *MarketInfoEvent) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &e.Instruments)
}

func (e *MarketInfoEvent) ToModel(receivedAt time.Time) MarketInfo {
	out := MarketInfo{
		Instruments: make(map[string]MarketQuote, len(e.Instruments)),
		UpdatedAt:   receivedAt,
	}

	for tag, q := range e.Instruments {
		out.Instruments[tag] = MarketQuote{
			Last: q.Last.Ptr(),
			Bid:  q.Bid.Ptr(),
			Ask:  q.Ask.Ptr(),
		}
	}

	return out
}

type MarketQuote struct {
	Last *float64 `json:"last"`
	Bid  *float64 `json:"bid"`
	Ask  *float64 `json:"ask"`
}

type MarketInfo struct {
	Instruments map[string]MarketQuote `json:"instruments"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func (m MarketInfo) Clone() MarketInfo {
	out := MarketInfo{
		Instruments: make(map[string]MarketQuote, len(m.Instruments)),
		UpdatedAt:   m.UpdatedAt,
	}

	for tag, q := range m.Instruments {
		out.Instruments[tag] = MarketQuote{
			Last: clonePtr(q.Last),
			Bid:  clonePtr(q.Bid),
			Ask:  clonePtr(q.Ask),
		}
	}

	return out
}

// Tags lists the instrument tags in ascending order.
func (m MarketInfo) Tags() []string {
	tags := make([]string, 0, len(m.Instruments))
	for tag := range m.Instruments {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	return tags
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}

	c := *v
	return &c
}
