package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/txo-chain/src/eventmodels"
)

var testStart = time.Date(2025, time.January, 15, 9, 0, 0, 0, time.FixedZone("CST", 8*60*60))

func num(v float64) eventmodels.FeedNumber {
	return eventmodels.NewFeedNumber(v)
}

func newTestStore() (*ContractStore, *ManualClock) {
	clock := NewManualClock(testStart)
	return NewContractStore(clock, 800*time.Millisecond), clock
}

func scenarioSnapshot() *eventmodels.SnapshotRefreshEvent {
	return &eventmodels.SnapshotRefreshEvent{
		ChainRows: []eventmodels.SnapshotRowDTO{
			{Expiration: "2025/01/15", Strike: num(18000), CP: "C", Last: num(120), OI: num(500)},
			{Expiration: "2025/01/15", Strike: num(18000), CP: "P", Last: num(80), OI: num(300)},
		},
	}
}

func tick(cp string, last float64) *eventmodels.TradeTickEvent {
	return &eventmodels.TradeTickEvent{
		Expiration: "2025/01/15",
		Strike:     num(18000),
		CP:         cp,
		Last:       num(last),
	}
}

func mustKey(t *testing.T, exp string, strike float64, cp string) eventmodels.ContractKey {
	key, err := eventmodels.NewContractKey(exp, strike, cp)
	require.NoError(t, err)
	return key
}

func TestContractStore_Snapshot(t *testing.T) {
	t.Run("rejects updates before the first snapshot", func(t *testing.T) {
		// arrange
		s, _ := newTestStore()

		// act
		_, tickErr := s.ApplyTradeTick(tick("C", 121))
		_, bookErr := s.ApplyOrderBook(&eventmodels.OrderBookEvent{Code: "TXO2025011518000C", Bid1: num(1)})

		// assert
		assert.ErrorIs(t, tickErr, eventmodels.ErrStoreNotInitialized)
		assert.ErrorIs(t, bookErr, eventmodels.ErrStoreNotInitialized)
		assert.False(t, s.IsInitialized())
		assert.Equal(t, 0, s.Len())
	})

	t.Run("snapshot initializes the store without change events", func(t *testing.T) {
		// arrange
		s, _ := newTestStore()

		// act
		applied, errs := s.ApplySnapshot(scenarioSnapshot())
		_, errs2 := s.ApplySnapshot(&eventmodels.SnapshotRefreshEvent{
			ChainRows: []eventmodels.SnapshotRowDTO{
				{Expiration: "2025/01/15", Strike: num(18000), CP: "C", Last: num(125)},
			},
		})

		// assert
		assert.Equal(t, 2, applied)
		assert.Empty(t, errs)
		assert.Empty(t, errs2)
		assert.True(t, s.IsInitialized())
		assert.Empty(t, s.ActiveChanges(testStart))

		state, ok := s.Get(mustKey(t, "2025/01/15", 18000, "C"))
		require.True(t, ok)
		assert.Equal(t, 125.0, *state.Last)
		assert.Equal(t, 500.0, *state.OpenInterest)
	})

	t.Run("contracts absent from a snapshot are kept", func(t *testing.T) {
		// arrange
		s, _ := newTestStore()
		s.ApplySnapshot(scenarioSnapshot())

		// act
		s.ApplySnapshot(&eventmodels.SnapshotRefreshEvent{
			ChainRows: []eventmodels.SnapshotRowDTO{
				{Expiration: "2025/01/22", Strike: num(18100), CP: "C", Last: num(90)},
			},
		})

		// assert
		assert.Equal(t, 3, s.Len())
		_, ok := s.Get(mustKey(t, "2025/01/15", 18000, "P"))
		assert.True(t, ok)
	})

	t.Run("bad rows are skipped", func(t *testing.T) {
		// arrange
		s, _ := newTestStore()

		// act
		applied, errs := s.ApplySnapshot(&eventmodels.SnapshotRefreshEvent{
			ChainRows: []eventmodels.SnapshotRowDTO{
				{Expiration: "tomorrow", Strike: num(18000), CP: "C"},
				{Expiration: "2025/01/15", CP: "C"},
				{Expiration: "2025/01/15", Strike: num(18000), CP: "C", Last: num(120)},
			},
		})

		// assert
		assert.Equal(t, 1, applied)
		assert.Len(t, errs, 2)
		assert.ErrorIs(t, errs[0], eventmodels.ErrInvalidExpiration)
	})

	t.Run("snapshot is a deep copy", func(t *testing.T) {
		// arrange
		s, _ := newTestStore()
		s.ApplySnapshot(scenarioSnapshot())

		// act
		snapshot := s.Snapshot()
		*snapshot.Contracts[0].Last = 1

		// assert
		state, _ := s.Get(snapshot.Contracts[0].Key)
		assert.Equal(t, 120.0, *state.Last)
		assert.Equal(t, s.Version(), snapshot.Version)
		assert.Equal(t, eventmodels.OptionTypeCall, snapshot.Contracts[0].Key.Type)
	})
}

func TestContractStore_Merge(t *testing.T) {
	t.Run("same tick twice is idempotent", func(t *testing.T) {
		// arrange
		s, _ := newTestStore()
		s.ApplySnapshot(scenarioSnapshot())

		// act
		first, err1 := s.ApplyTradeTick(tick("C", 121))
		version := s.Version()
		second, err2 := s.ApplyTradeTick(tick("C", 121))

		// assert
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Len(t, first, 1)
		assert.Empty(t, second)
		assert.Equal(t, version, s.Version())
		assert.Len(t, s.ActiveChanges(testStart), 1)
	})

	t.Run("order of conflicting ticks matters", func(t *testing.T) {
		// arrange
		ab, _ := newTestStore()
		ba, _ := newTestStore()
		ab.ApplySnapshot(scenarioSnapshot())
		ba.ApplySnapshot(scenarioSnapshot())
		key := mustKey(t, "2025/01/15", 18000, "C")

		// act
		ab.ApplyTradeTick(tick("C", 130))
		ab.ApplyTradeTick(tick("C", 110))
		ba.ApplyTradeTick(tick("C", 110))
		ba.ApplyTradeTick(tick("C", 130))

		// assert
		stateAB, _ := ab.Get(key)
		stateBA, _ := ba.Get(key)
		assert.Equal(t, 110.0, *stateAB.Last)
		assert.Equal(t, 130.0, *stateBA.Last)
	})

	t.Run("change event carries old, new and direction", func(t *testing.T) {
		// arrange
		s, _ := newTestStore()
		s.ApplySnapshot(scenarioSnapshot())

		// act
		changes, err := s.ApplyTradeTick(tick("P", 75))

		// assert
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, eventmodels.FieldLast, changes[0].Field)
		assert.Equal(t, 80.0, changes[0].Old)
		assert.Equal(t, 75.0, changes[0].New)
		assert.Equal(t, eventmodels.ChangeDirectionDown, changes[0].Direction)
		assert.Equal(t, testStart.Add(800*time.Millisecond), changes[0].ExpiresAt)
	})

	t.Run("first value of a field is not a change", func(t *testing.T) {
		// arrange
		s, _ := newTestStore()
		s.ApplySnapshot(scenarioSnapshot())

		// act
		changes, err := s.ApplyOrderBook(&eventmodels.OrderBookEvent{
			Code: "TXO2025011518000C",
			Bid1: num(119),
			Ask1: num(121),
		})

		// assert
		require.NoError(t, err)
		assert.Empty(t, changes)

		state, _ := s.Get(mustKey(t, "2025/01/15", 18000, "C"))
		assert.Equal(t, 119.0, *state.Bid[0])
		assert.Equal(t, 120.0, *state.Last)
	})

	t.Run("absent and non-finite fields never erase", func(t *testing.T) {
		// arrange
		s, _ := newTestStore()
		s.ApplySnapshot(scenarioSnapshot())

		// act
		changes, err := s.ApplyTradeTick(&eventmodels.TradeTickEvent{
			Expiration: "2025/01/15",
			Strike:     num(18000),
			CP:         "C",
			Last:       eventmodels.FeedNumber{},
			ChangeRate: num(1.2),
		})

		// assert
		require.NoError(t, err)
		assert.Empty(t, changes)
		state, _ := s.Get(mustKey(t, "2025/01/15", 18000, "C"))
		assert.Equal(t, 120.0, *state.Last)
		assert.Equal(t, 1.2, *state.ChangeRate)
	})

	t.Run("tick for a new contract creates it", func(t *testing.T) {
		// arrange
		s, _ := newTestStore()
		s.ApplySnapshot(scenarioSnapshot())

		// act
		_, err := s.ApplyTradeTick(&eventmodels.TradeTickEvent{Code: "TXO2025012218100C", Last: num(70)})

		// assert
		require.NoError(t, err)
		assert.Equal(t, 3, s.Len())
		assert.Equal(t, []eventmodels.ExpirationDate{"2025/01/15", "2025/01/22"}, s.Expirations())
	})

	t.Run("undecodable book is rejected", func(t *testing.T) {
		// arrange
		s, _ := newTestStore()
		s.ApplySnapshot(scenarioSnapshot())
		version := s.Version()

		// act
		_, err := s.ApplyOrderBook(&eventmodels.OrderBookEvent{Code: "TX118000A5", Bid1: num(1)})

		// assert
		assert.ErrorIs(t, err, eventmodels.ErrUndecodableInstrument)
		assert.Equal(t, version, s.Version())
	})

	t.Run("weekly code uses the default expiration", func(t *testing.T) {
		// arrange
		s, _ := newTestStore()
		s.ApplySnapshot(scenarioSnapshot())
		s.ApplyExpirationMetadata(&eventmodels.ExpirationMetadataEvent{
			Expirations:       []string{"2025/01/08", "2025/01/15"},
			DefaultExpiration: "2025/01/08",
		})

		// act
		_, err := s.ApplyOrderBook(&eventmodels.OrderBookEvent{Code: "TX118000M5", Ask1: num(33)})

		// assert
		require.NoError(t, err)
		state, ok := s.Get(mustKey(t, "2025/01/08", 18000, "P"))
		require.True(t, ok)
		assert.Equal(t, 33.0, *state.Ask[0])
	})
}

func TestContractStore_ChangeExpiry(t *testing.T) {
	t.Run("change events expire after the ttl", func(t *testing.T) {
		// arrange
		s, clock := newTestStore()
		s.ApplySnapshot(scenarioSnapshot())
		s.ApplyTradeTick(tick("C", 121))

		// act
		clock.Advance(799 * time.Millisecond)
		before := s.ActiveChanges(clock.Now())
		clock.Advance(time.Millisecond)
		after := s.ActiveChanges(clock.Now())

		// assert
		assert.Len(t, before, 1)
		assert.Empty(t, after)
		assert.Equal(t, 0, s.flashes.Len())
	})

	t.Run("re-trigger resets the timer", func(t *testing.T) {
		// arrange
		s, clock := newTestStore()
		s.ApplySnapshot(scenarioSnapshot())
		s.ApplyTradeTick(tick("C", 121))

		// act
		clock.Advance(500 * time.Millisecond)
		s.ApplyTradeTick(tick("C", 122))
		clock.Advance(500 * time.Millisecond)
		active := s.ActiveChanges(clock.Now())

		// assert
		require.Len(t, active, 1)
		assert.Equal(t, 121.0, active[0].Old)
		assert.Equal(t, 122.0, active[0].New)
		assert.Equal(t, 1, clock.PendingTimers())

		clock.Advance(300 * time.Millisecond)
		assert.Empty(t, s.ActiveChanges(clock.Now()))
	})

	t.Run("different fields expire independently", func(t *testing.T) {
		// arrange
		s, clock := newTestStore()
		s.ApplySnapshot(scenarioSnapshot())
		s.ApplyTradeTick(tick("C", 121))
		clock.Advance(400 * time.Millisecond)
		s.ApplyTradeTick(tick("P", 81))

		// act
		clock.Advance(400 * time.Millisecond)
		active := s.ActiveChanges(clock.Now())

		// assert
		require.Len(t, active, 1)
		assert.Equal(t, eventmodels.OptionTypePut, active[0].Key.Type)
	})

	t.Run("close cancels pending timers", func(t *testing.T) {
		s, clock := newTestStore()
		s.ApplySnapshot(scenarioSnapshot())
		s.ApplyTradeTick(tick("C", 121))

		s.Close()

		assert.Equal(t, 0, clock.PendingTimers())
		assert.Empty(t, s.ActiveChanges(clock.Now()))
	})
}

func TestContractStore_Metadata(t *testing.T) {
	t.Run("near expiration before and after metadata", func(t *testing.T) {
		// arrange
		s, _ := newTestStore()
		s.ApplySnapshot(&eventmodels.SnapshotRefreshEvent{
			ChainRows: []eventmodels.SnapshotRowDTO{
				{Expiration: "2025/01/22", Strike: num(18000), CP: "C", Last: num(150)},
				{Expiration: "2025/01/15", Strike: num(18000), CP: "C", Last: num(120)},
			},
		})
		near := s.NearExpiration()
		version := s.Version()

		// act
		errs := s.ApplyExpirationMetadata(&eventmodels.ExpirationMetadataEvent{
			Expirations:         []string{"2025/01/22", "2025/02/19"},
			DefaultExpiration:   "2025/01/22",
			StrikesByExpiration: map[string][]float64{"2025/01/22": {18100, 18000}},
		})

		// assert
		assert.Empty(t, errs)
		assert.Equal(t, eventmodels.ExpirationDate("2025/01/15"), near)
		assert.Equal(t, eventmodels.ExpirationDate("2025/01/22"), s.NearExpiration())
		assert.Greater(t, s.Version(), version)
		assert.Equal(t, []eventmodels.ExpirationDate{"2025/01/15", "2025/01/22", "2025/02/19"}, s.Expirations())

		snapshot := s.Snapshot()
		assert.Equal(t, []float64{18000, 18100}, snapshot.StrikesByExpiration["2025/01/22"])
		assert.Equal(t, 2, len(snapshot.Contracts))
	})

	t.Run("spot price", func(t *testing.T) {
		s, _ := newTestStore()

		err := s.ApplySpotPrice(&eventmodels.SpotPriceEvent{Price: num(18050)})
		require.NoError(t, err)

		spot, ok := s.Spot()
		assert.True(t, ok)
		assert.Equal(t, 18050.0, spot)

		err = s.ApplySpotPrice(&eventmodels.SpotPriceEvent{})
		assert.ErrorIs(t, err, eventmodels.ErrSpotPriceUnknown)
	})

	t.Run("market info replaces the reference quotes", func(t *testing.T) {
		// arrange
		s, _ := newTestStore()
		version := s.Version()

		// act
		_, before := s.MarketInfo()
		err := s.ApplyMarketInfo(&eventmodels.MarketInfoEvent{Instruments: map[string]eventmodels.MarketQuoteDTO{
			"TXF": {Last: num(18050), Bid: num(18049), Ask: num(18051)},
			"TSE": {Last: num(23150)},
		}})
		require.NoError(t, err)
		err = s.ApplyMarketInfo(&eventmodels.MarketInfoEvent{Instruments: map[string]eventmodels.MarketQuoteDTO{
			"TXF": {Last: num(18060)},
		}})
		require.NoError(t, err)
		emptyErr := s.ApplyMarketInfo(&eventmodels.MarketInfoEvent{})

		// assert
		assert.False(t, before)
		assert.Error(t, emptyErr)
		info, ok := s.MarketInfo()
		require.True(t, ok)
		assert.Equal(t, []string{"TXF"}, info.Tags())
		assert.Equal(t, 18060.0, *info.Instruments["TXF"].Last)
		assert.Nil(t, info.Instruments["TXF"].Bid)
		assert.Equal(t, testStart, info.UpdatedAt)
		assert.Equal(t, version, s.Version())

		*info.Instruments["TXF"].Last = 1
		again, _ := s.MarketInfo()
		assert.Equal(t, 18060.0, *again.Instruments["TXF"].Last)
	})

	t.Run("futures bars replace the previous batch", func(t *testing.T) {
		// arrange
		s, _ := newTestStore()
		bar := func(ts int64, price float64) eventmodels.FuturesBarDTO {
			return eventmodels.FuturesBarDTO{Ts: ts, Open: num(price), High: num(price), Low: num(price), Close: num(price), Volume: num(1)}
		}

		// act
		errs := s.ApplyFuturesBars(&eventmodels.FuturesBarsEvent{Kbars: []eventmodels.FuturesBarDTO{
			bar(1736985600000, 18150),
			bar(1736899200000, 18100),
		}})
		badErrs := s.ApplyFuturesBars(&eventmodels.FuturesBarsEvent{Kbars: []eventmodels.FuturesBarDTO{{Ts: 1737072000000}}})

		// assert
		assert.Empty(t, errs)
		assert.Len(t, badErrs, 2)
		bars := s.FuturesBars()
		require.Len(t, bars, 2)
		assert.Equal(t, 18100.0, bars[0].Close)
		assert.Equal(t, 18150.0, bars[1].Close)
	})

	t.Run("listeners are notified with the new version", func(t *testing.T) {
		s, _ := newTestStore()
		var versions []uint64
		s.OnChange(func(v uint64) { versions = append(versions, v) })

		s.ApplySnapshot(scenarioSnapshot())
		s.ApplyTradeTick(tick("C", 121))
		s.ApplyTradeTick(tick("C", 121))

		assert.Equal(t, []uint64{1, 2}, versions)
	})
}

func TestContractStore_Concurrency(t *testing.T) {
	s, _ := newTestStore()
	s.ApplySnapshot(scenarioSnapshot())

	var wg sync.WaitGroup
	for strike := 0; strike < 20; strike++ {
		wg.Add(1)
		go func(strike int) {
			defer wg.Done()

			for i := 1; i <= 50; i++ {
				_, err := s.ApplyTradeTick(&eventmodels.TradeTickEvent{
					Expiration:  "2025/01/15",
					Strike:      num(float64(17000 + strike*50)),
					CP:          "C",
					TotalVolume: num(float64(i)),
				})
				assert.NoError(t, err)
			}
		}(strike)
	}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}

	wg.Wait()

	for strike := 0; strike < 20; strike++ {
		key := mustKey(t, "2025/01/15", float64(17000+strike*50), "C")
		state, ok := s.Get(key)
		require.True(t, ok, fmt.Sprintf("strike %d", strike))
		assert.Equal(t, 50.0, *state.TotalVolume)
	}
}
