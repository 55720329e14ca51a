package store

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/btree"
	"github.com/kataras/go-events"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/txo-chain/src/eventmodels"
)

// ChainChanged is emitted with the new version after every effective change.
const ChainChanged events.EventName = "chain_changed"

type contractEntry struct {
	mu    sync.RWMutex
	state eventmodels.ContractState
}

// ContractStore holds the quote state of every observed contract. Updates to
// one contract are serialized by that contract's lock; the registry lock is
// only held to look up or insert entries.
type ContractStore struct {
	mu      sync.RWMutex
	entries map[string]*contractEntry

	metaMu      sync.RWMutex
	observed    *btree.BTreeG[eventmodels.ExpirationDate]
	announced   *btree.BTreeG[eventmodels.ExpirationDate]
	metadata    eventmodels.ExpirationMetadata
	hasMetadata bool
	spot        *float64
	market      *eventmodels.MarketInfo
	futuresBars []eventmodels.FuturesBar

	initialized atomic.Bool
	version     atomic.Uint64

	clock   Clock
	flashes *flashScheduler
	emitter events.EventEmmiter
}

func newExpirationTree() *btree.BTreeG[eventmodels.ExpirationDate] {
	return btree.NewG[eventmodels.ExpirationDate](8, func(a, b eventmodels.ExpirationDate) bool {
		return a.Before(b)
	})
}

func NewContractStore(clock Clock, flashTTL time.Duration) *ContractStore {
	if clock == nil {
		clock = NewRealClock()
	}

	return &ContractStore{
		entries:   make(map[string]*contractEntry),
		observed:  newExpirationTree(),
		announced: newExpirationTree(),
		clock:     clock,
		flashes:   newFlashScheduler(clock, flashTTL),
		emitter:   events.New(),
	}
}

// OnChange registers a listener called synchronously with the new version
// after every effective change. Listeners must not block.
func (s *ContractStore) OnChange(listener func(version uint64)) {
	s.emitter.On(ChainChanged, func(payload ...interface{}) {
		if len(payload) == 0 {
			return
		}

		if version, ok := payload[0].(uint64); ok {
			listener(version)
		}
	})
}

func (s *ContractStore) IsInitialized() bool {
	return s.initialized.Load()
}

func (s *ContractStore) Version() uint64 {
	return s.version.Load()
}

func (s *ContractStore) bump() {
	v := s.version.Add(1)
	s.emitter.Emit(ChainChanged, v)
}

// entry returns the contract's entry, creating it on first observation.
func (s *ContractStore) entry(key eventmodels.ContractKey) (*contractEntry, bool) {
	id := key.ID()

	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if ok {
		return e, false
	}

	s.mu.Lock()
	e, ok = s.entries[id]
	if !ok {
		e = &contractEntry{state: eventmodels.ContractState{Key: key}}
		s.entries[id] = e
	}
	s.mu.Unlock()

	if ok {
		return e, false
	}

	s.metaMu.Lock()
	s.observed.ReplaceOrInsert(key.Expiration)
	s.metaMu.Unlock()

	return e, true
}

// merge applies patch to the contract. It returns the change events of the
// fields that already had a value and whether the chain changed at all.
func (s *ContractStore) merge(key eventmodels.ContractKey, patch eventmodels.ContractQuote, flash bool) ([]*eventmodels.ChangeEvent, bool) {
	e, created := s.entry(key)
	now := s.clock.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	changes := e.state.Merge(patch)
	if len(changes) == 0 {
		return nil, created
	}
	e.state.UpdatedAt = now

	if !flash {
		return nil, true
	}

	var out []*eventmodels.ChangeEvent
	for _, c := range changes {
		if c.Old == nil {
			continue
		}

		event := eventmodels.NewChangeEvent(key, c.Field, *c.Old, c.New, now, s.flashes.ttl)
		s.flashes.Trigger(event)
		out = append(out, event)
	}

	return out, true
}

// ApplySnapshot merges every row of the snapshot without producing change
// events. Contracts missing from the snapshot are kept. The first snapshot
// marks the store as initialized.
func (s *ContractStore) ApplySnapshot(event *eventmodels.SnapshotRefreshEvent) (int, []error) {
	var errs []error
	applied := 0
	changed := false

	for i := range event.ChainRows {
		key, quote, err := event.ChainRows[i].ToModel()
		if err != nil {
			errs = append(errs, fmt.Errorf("ContractStore.ApplySnapshot: row %d: %w", i, err))
			continue
		}

		_, ok := s.merge(key, quote, false)
		changed = changed || ok
		applied++
	}

	first := s.initialized.CompareAndSwap(false, true)
	if first {
		log.WithField("contracts", applied).Info("ContractStore: initialized from snapshot")
	}

	if changed || first {
		s.bump()
	}

	return applied, errs
}

func (s *ContractStore) ApplyTradeTick(event *eventmodels.TradeTickEvent) ([]*eventmodels.ChangeEvent, error) {
	if !s.IsInitialized() {
		return nil, eventmodels.ErrStoreNotInitialized
	}

	key, err := event.ContractKey(s.DefaultExpiration())
	if err != nil {
		return nil, fmt.Errorf("ContractStore.ApplyTradeTick: %w", err)
	}

	changes, ok := s.merge(key, event.Patch(), true)
	if ok {
		s.bump()
	}

	return changes, nil
}

func (s *ContractStore) ApplyOrderBook(event *eventmodels.OrderBookEvent) ([]*eventmodels.ChangeEvent, error) {
	if !s.IsInitialized() {
		return nil, eventmodels.ErrStoreNotInitialized
	}

	key, err := event.ContractKey(s.DefaultExpiration())
	if err != nil {
		return nil, fmt.Errorf("ContractStore.ApplyOrderBook: %w", err)
	}

	changes, ok := s.merge(key, event.Patch(), true)
	if ok {
		s.bump()
	}

	return changes, nil
}

// ApplyExpirationMetadata replaces the announced expirations and strike
// ranges. Contract state is left untouched.
func (s *ContractStore) ApplyExpirationMetadata(event *eventmodels.ExpirationMetadataEvent) []error {
	metadata, errs := event.ToModel()

	announced := newExpirationTree()
	for _, exp := range metadata.Expirations {
		announced.ReplaceOrInsert(exp)
	}

	s.metaMu.Lock()
	s.metadata = metadata
	s.announced = announced
	s.hasMetadata = true
	s.metaMu.Unlock()

	s.bump()

	return errs
}

func (s *ContractStore) ApplySpotPrice(event *eventmodels.SpotPriceEvent) error {
	if !event.Price.Valid || event.Price.Value <= 0 {
		return fmt.Errorf("ContractStore.ApplySpotPrice: invalid price: %w", eventmodels.ErrSpotPriceUnknown)
	}

	price := event.Price.Value

	s.metaMu.Lock()
	unchanged := s.spot != nil && *s.spot == price
	s.spot = &price
	s.metaMu.Unlock()

	if !unchanged {
		s.bump()
	}

	return nil
}

// ApplyMarketInfo replaces the reference instrument quotes. They sit outside
// the chain, so the version is left unchanged.
func (s *ContractStore) ApplyMarketInfo(event *eventmodels.MarketInfoEvent) error {
	if len(event.Instruments) == 0 {
		return fmt.Errorf("ContractStore.ApplyMarketInfo: no instruments")
	}

	info := event.ToModel(s.clock.Now())

	s.metaMu.Lock()
	s.market = &info
	s.metaMu.Unlock()

	return nil
}

func (s *ContractStore) MarketInfo() (eventmodels.MarketInfo, bool) {
	s.metaMu.RLock()
	defer s.metaMu.RUnlock()

	if s.market == nil {
		return eventmodels.MarketInfo{}, false
	}

	return s.market.Clone(), true
}

// ApplyFuturesBars replaces the recent daily futures bars. A batch with no
// usable bar keeps the previous ones.
func (s *ContractStore) ApplyFuturesBars(event *eventmodels.FuturesBarsEvent) []error {
	bars, errs := event.ToModel()
	if len(bars) == 0 {
		return append(errs, fmt.Errorf("ContractStore.ApplyFuturesBars: no usable bars"))
	}

	s.metaMu.Lock()
	s.futuresBars = bars
	s.metaMu.Unlock()

	return errs
}

func (s *ContractStore) FuturesBars() []eventmodels.FuturesBar {
	s.metaMu.RLock()
	defer s.metaMu.RUnlock()

	return append([]eventmodels.FuturesBar{}, s.futuresBars...)
}

func (s *ContractStore) Spot() (float64, bool) {
	s.metaMu.RLock()
	defer s.metaMu.RUnlock()

	if s.spot == nil {
		return 0, false
	}

	return *s.spot, true
}

// Expirations is the union of the observed and the announced expirations,
// in ascending order.
func (s *ContractStore) Expirations() []eventmodels.ExpirationDate {
	s.metaMu.RLock()
	defer s.metaMu.RUnlock()

	return s.expirationsLocked()
}

func (s *ContractStore) expirationsLocked() []eventmodels.ExpirationDate {
	union := newExpirationTree()
	collect := func(exp eventmodels.ExpirationDate) bool {
		union.ReplaceOrInsert(exp)
		return true
	}
	s.observed.Ascend(collect)
	s.announced.Ascend(collect)

	out := make([]eventmodels.ExpirationDate, 0, union.Len())
	union.Ascend(func(exp eventmodels.ExpirationDate) bool {
		out = append(out, exp)
		return true
	})

	return out
}

// DefaultExpiration is the expiration announced by the metadata, used to key
// weekly instrument codes.
func (s *ContractStore) DefaultExpiration() eventmodels.ExpirationDate {
	s.metaMu.RLock()
	defer s.metaMu.RUnlock()

	return s.metadata.DefaultExpiration
}

// NearExpiration is the announced default, or the earliest known expiration
// before any metadata arrived.
func (s *ContractStore) NearExpiration() eventmodels.ExpirationDate {
	s.metaMu.RLock()
	defer s.metaMu.RUnlock()

	return s.nearExpirationLocked()
}

func (s *ContractStore) nearExpirationLocked() eventmodels.ExpirationDate {
	if s.hasMetadata && s.metadata.DefaultExpiration != "" {
		return s.metadata.DefaultExpiration
	}

	var near eventmodels.ExpirationDate
	for _, tree := range []*btree.BTreeG[eventmodels.ExpirationDate]{s.observed, s.announced} {
		if first, ok := tree.Min(); ok && (near == "" || first.Before(near)) {
			near = first
		}
	}

	return near
}

func (s *ContractStore) Get(key eventmodels.ContractKey) (eventmodels.ContractState, bool) {
	s.mu.RLock()
	e, ok := s.entries[key.ID()]
	s.mu.RUnlock()
	if !ok {
		return eventmodels.ContractState{}, false
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.state.Clone(), true
}

func (s *ContractStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Snapshot returns a deep copy of the chain. Version is read before copying,
// so a snapshot is never older than the version it reports.
func (s *ContractStore) Snapshot() *eventmodels.ChainSnapshot {
	version := s.version.Load()
	now := s.clock.Now()

	s.mu.RLock()
	entries := make([]*contractEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	contracts := make([]eventmodels.ContractState, 0, len(entries))
	for _, e := range entries {
		e.mu.RLock()
		contracts = append(contracts, e.state.Clone())
		e.mu.RUnlock()
	}

	snapshot := eventmodels.NewChainSnapshot(contracts)
	snapshot.Version = version
	snapshot.TakenAt = now

	s.metaMu.RLock()
	defer s.metaMu.RUnlock()

	snapshot.Expirations = s.expirationsLocked()
	snapshot.NearExpiration = s.nearExpirationLocked()
	snapshot.DefaultExpiration = s.metadata.DefaultExpiration
	for exp, strikes := range s.metadata.StrikesByExpiration {
		snapshot.StrikesByExpiration[exp] = append([]float64(nil), strikes...)
	}
	for exp, strikes := range s.metadata.DefaultSubset {
		snapshot.DefaultSubset[exp] = append([]float64(nil), strikes...)
	}
	if s.spot != nil {
		spot := *s.spot
		snapshot.Spot = &spot
	}

	return snapshot
}

// ActiveChanges lists the change events that have not expired at now.
func (s *ContractStore) ActiveChanges(now time.Time) []eventmodels.ChangeEvent {
	return s.flashes.Active(now)
}

func (s *ContractStore) Now() time.Time {
	return s.clock.Now()
}

// Close cancels the pending change expiry timers.
func (s *ContractStore) Close() {
	s.flashes.Stop()
}
