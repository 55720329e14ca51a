package eventmodels

import "time"

type ContractState struct {
	Key ContractKey `json:"key"`
	ContractQuote
	UpdatedAt time.Time `json:"updated_at"`
}

func (s ContractState) Clone() ContractState {
	return ContractState{
		Key:           s.Key,
		ContractQuote: s.ContractQuote.Clone(),
		UpdatedAt:     s.UpdatedAt,
	}
}
