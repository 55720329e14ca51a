package eventmodels

import (
	"fmt"
	"strings"
)

type PositionSide string

const (
	PositionSideBuy  PositionSide = "BUY"
	PositionSideSell PositionSide = "SELL"
)

func (s PositionSide) Sign() float64 {
	if s == PositionSideSell {
		return -1
	}

	return 1
}

type PositionLegDTO struct {
	Side       string  `json:"side"`
	CP         string  `json:"cp"`
	Expiration string  `json:"exp"`
	Strike     float64 `json:"K"`
	Quantity   float64 `json:"qty"`
}

type PositionLeg struct {
	Side     PositionSide
	Key      ContractKey
	Quantity float64
}

func (d *PositionLegDTO) ToModel() (PositionLeg, error) {
	side := PositionSide(strings.ToUpper(strings.TrimSpace(d.Side)))
	if side != PositionSideBuy && side != PositionSideSell {
		return PositionLeg{}, fmt.Errorf("PositionLegDTO.ToModel: invalid side %q", d.Side)
	}

	key, err := NewContractKey(d.Expiration, d.Strike, d.CP)
	if err != nil {
		return PositionLeg{}, fmt.Errorf("PositionLegDTO.ToModel: %w", err)
	}

	return PositionLeg{
		Side:     side,
		Key:      key,
		Quantity: d.Quantity,
	}, nil
}
