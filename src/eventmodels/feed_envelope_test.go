package eventmodels

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedNumber(t *testing.T) {
	type payload struct {
		V FeedNumber `json:"v"`
	}

	cases := []struct {
		name  string
		input string
		valid bool
		value float64
	}{
		{"number", `{"v": 12.5}`, true, 12.5},
		{"numeric string", `{"v": "1,234"}`, true, 1234},
		{"null", `{"v": null}`, false, 0},
		{"placeholder", `{"v": "-"}`, false, 0},
		{"missing", `{}`, false, 0},
		{"nan string", `{"v": "NaN"}`, false, 0},
		{"percent string", `{"v": "-2.5%"}`, true, -2.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p payload
			require.NoError(t, json.Unmarshal([]byte(tc.input), &p))
			assert.Equal(t, tc.valid, p.V.Valid)
			assert.Equal(t, tc.value, p.V.Value)
		})
	}
}

func TestDecodeFeedEvent(t *testing.T) {
	t.Run("order book", func(t *testing.T) {
		data := []byte(`{"code":"TXO2025011518000C","bid1":10,"bid2":"-","ask1":11,"bid_volume":[3,4],"ask_volume":[5]}`)

		out, err := DecodeFeedEvent("bidAskData", data)

		require.NoError(t, err)
		event, ok := out.(*OrderBookEvent)
		require.True(t, ok)

		patch := event.Patch()
		assert.Equal(t, 10.0, *patch.Bid[0])
		assert.Nil(t, patch.Bid[1])
		assert.Equal(t, 11.0, *patch.Ask[0])
		assert.Equal(t, 4.0, *patch.BidVolume[1])
		assert.Equal(t, 5.0, *patch.AskVolume[0])
		assert.Nil(t, patch.AskVolume[1])
	})

	t.Run("alias names", func(t *testing.T) {
		out, err := DecodeFeedEvent("spot-price", []byte(`{"ts":1736899200000,"price":"18050"}`))

		require.NoError(t, err)
		event := out.(*SpotPriceEvent)
		assert.True(t, event.Price.Valid)
		assert.Equal(t, 18050.0, event.Price.Value)
		assert.Equal(t, int64(1736899200000), event.Timestamp().UnixMilli())
	})

	t.Run("snapshot rows", func(t *testing.T) {
		data := []byte(`{"chainRows":[{"expiration":"2025/01/15","strike":18000,"cp":"C","last":120,"bid":119,"ask":121,"volume":10,"chg":1.2,"oi":500}]}`)

		out, err := DecodeFeedEvent("dailySnap", data)

		require.NoError(t, err)
		event := out.(*SnapshotRefreshEvent)
		require.Len(t, event.ChainRows, 1)

		key, quote, err := event.ChainRows[0].ToModel()
		require.NoError(t, err)
		assert.Equal(t, "2025/01/15_18000_C", key.ID())
		assert.Equal(t, 500.0, *quote.OpenInterest)
		assert.Equal(t, 119.0, *quote.Bid[0])
		assert.Equal(t, 10.0, *quote.TotalVolume)
	})

	t.Run("market info", func(t *testing.T) {
		data := []byte(`{"TXF":{"bid":18049,"ask":18051,"last":18050},"MXF":{"bid":null,"ask":"-","last":18048},"TSE":{"last":"23,150.5"}}`)

		out, err := DecodeFeedEvent("marketInfo", data)

		require.NoError(t, err)
		info := out.(*MarketInfoEvent).ToModel(time.UnixMilli(1736899200000))
		assert.Equal(t, []string{"MXF", "TSE", "TXF"}, info.Tags())
		assert.Equal(t, 18051.0, *info.Instruments["TXF"].Ask)
		assert.Nil(t, info.Instruments["MXF"].Ask)
		assert.Nil(t, info.Instruments["TSE"].Bid)
		assert.Equal(t, 23150.5, *info.Instruments["TSE"].Last)
	})

	t.Run("futures bars", func(t *testing.T) {
		data := []byte(`{"kbars":[` +
			`{"ts":1736985600000,"Open":18100,"High":18200,"Low":18000,"Close":18150,"Volume":90000},` +
			`{"ts":1736899200000,"Open":18000,"High":18120,"Low":17950,"Close":18100,"Volume":85000},` +
			`{"ts":1737072000000,"Open":null,"High":18300,"Low":18100,"Close":18250,"Volume":1}]}`)

		out, err := DecodeFeedEvent("futures-bars", data)

		require.NoError(t, err)
		bars, errs := out.(*FuturesBarsEvent).ToModel()
		assert.Len(t, errs, 1)
		require.Len(t, bars, 2)
		assert.Equal(t, int64(1736899200000), bars[0].Time.UnixMilli())
		assert.Equal(t, 18150.0, bars[1].Close)
		assert.Equal(t, 90000.0, bars[1].Volume)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := DecodeFeedEvent("heartbeat", []byte(`{}`))
		assert.ErrorIs(t, err, ErrUnknownFeedEvent)
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, err := DecodeFeedEvent("optionData", []byte(`{"code":`))
		assert.Error(t, err)
	})
}

func TestExpirationMetadataEvent_ToModel(t *testing.T) {
	event := &ExpirationMetadataEvent{
		Expirations:         []string{"2025/01/22", "2025/01/15", "bad"},
		DefaultExpiration:   "2025/01/15",
		StrikesByExpiration: map[string][]float64{"2025/01/15": {18100, 18000}},
	}

	meta, errs := event.ToModel()

	assert.Len(t, errs, 1)
	assert.Equal(t, []ExpirationDate{"2025/01/15", "2025/01/22"}, meta.Expirations)
	assert.Equal(t, ExpirationDate("2025/01/15"), meta.DefaultExpiration)
	assert.Equal(t, []float64{18000, 18100}, meta.StrikesByExpiration["2025/01/15"])
}

func TestSnapshotRowDTO_CSV(t *testing.T) {
	data := []byte("expiration,strike,cp,last,bid,ask,volume,chg,oi\n" +
		"2025/01/15,18000,C,120,119,121,\"1,024\",-,500\n" +
		"2025/01/15,18000,P,80,,,,,300\n")

	var rows []SnapshotRowDTO
	require.NoError(t, gocsv.UnmarshalBytes(data, &rows))
	require.Len(t, rows, 2)

	key, quote, err := rows[0].ToModel()
	require.NoError(t, err)
	assert.Equal(t, "2025/01/15_18000_C", key.ID())
	assert.Equal(t, 1024.0, *quote.TotalVolume)
	assert.Nil(t, quote.ChangeRate)

	_, quote, err = rows[1].ToModel()
	require.NoError(t, err)
	assert.Nil(t, quote.Bid[0])
	assert.Equal(t, 300.0, *quote.OpenInterest)
}
