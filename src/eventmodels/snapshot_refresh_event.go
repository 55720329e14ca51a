package eventmodels

import "fmt"

type SnapshotRowDTO struct {
	Expiration string     `json:"expiration" csv:"expiration"`
	Strike     FeedNumber `json:"strike" csv:"strike"`
	CP         string     `json:"cp" csv:"cp"`
	Last       FeedNumber `json:"last" csv:"last"`
	Bid        FeedNumber `json:"bid" csv:"bid"`
	Ask        FeedNumber `json:"ask" csv:"ask"`
	Volume     FeedNumber `json:"volume" csv:"volume"`
	Chg        FeedNumber `json:"chg" csv:"chg"`
	OI         FeedNumber `json:"oi" csv:"oi"`
}

func (r *SnapshotRowDTO) ToModel() (ContractKey, ContractQuote, error) {
	if !r.Strike.Valid {
		return ContractKey{}, ContractQuote{}, fmt.Errorf("SnapshotRowDTO.ToModel: missing strike: %w", ErrInvalidContractKey)
	}

	key, err := NewContractKey(r.Expiration, r.Strike.Value, r.CP)
	if err != nil {
		return ContractKey{}, ContractQuote{}, fmt.Errorf("SnapshotRowDTO.ToModel: %w", err)
	}

	quote := ContractQuote{
		Last:         r.Last.Ptr(),
		ChangeRate:   r.Chg.Ptr(),
		TotalVolume:  r.Volume.Ptr(),
		OpenInterest: r.OI.Ptr(),
	}
	quote.Bid[0] = r.Bid.Ptr()
	quote.Ask[0] = r.Ask.Ptr()

	return key, quote, nil
}

// SnapshotRefreshEvent is a full chain snapshot. Contracts missing from the
// payload keep their current state.
type SnapshotRefreshEvent struct {
	ChainRows []SnapshotRowDTO `json:"chainRows"`
}
