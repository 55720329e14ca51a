package eventmodels

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FeedNumber is a numeric field as sent by the data feed. The feed may send
// a JSON number, a numeric string, null, or a placeholder such as "-".
// Anything that is not a finite number decodes as absent instead of failing
// the whole message.
type FeedNumber struct {
	Value float64
	Valid bool
}

func NewFeedNumber(v float64) FeedNumber {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return FeedNumber{}
	}

	return FeedNumber{Value: v, Valid: true}
}

func (n *FeedNumber) UnmarshalJSON(data []byte) error {
	*n = FeedNumber{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] != '"' {
		*n = parseFeedNumber(string(data))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}

	*n = parseFeedNumber(s)
	return nil
}

// UnmarshalCSV lets snapshot rows be loaded from a CSV export.
func (n *FeedNumber) UnmarshalCSV(field string) error {
	*n = parseFeedNumber(field)
	return nil
}

func (n FeedNumber) MarshalCSV() (string, error) {
	if !n.Valid {
		return "", nil
	}

	return strconv.FormatFloat(n.Value, 'f', -1, 64), nil
}

func parseFeedNumber(raw string) FeedNumber {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	raw = strings.TrimSuffix(raw, "%")

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return FeedNumber{}
	}

	return NewFeedNumber(v)
}

func (n FeedNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(n.Value)
}

// Ptr returns nil for an absent value.
func (n FeedNumber) Ptr() *float64 {
	if !n.Valid {
		return nil
	}

	v := n.Value
	return &v
}
