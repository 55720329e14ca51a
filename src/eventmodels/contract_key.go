package eventmodels

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ContractKey identifies one option contract. Strike is kept as a decimal so
// equality is exact regardless of how the feed rendered the number.
type ContractKey struct {
	Expiration ExpirationDate  `json:"expiration"`
	Strike     decimal.Decimal `json:"strike"`
	Type       OptionType      `json:"cp"`
}

func NewContractKey(expiration string, strike float64, cp string) (ContractKey, error) {
	exp, err := NewExpirationDate(expiration)
	if err != nil {
		return ContractKey{}, fmt.Errorf("NewContractKey: %w", err)
	}

	optionType, err := ParseOptionType(cp)
	if err != nil {
		return ContractKey{}, fmt.Errorf("NewContractKey: %v: %w", err, ErrInvalidContractKey)
	}

	if strike <= 0 {
		return ContractKey{}, fmt.Errorf("NewContractKey: strike %v: %w", strike, ErrInvalidContractKey)
	}

	return ContractKey{
		Expiration: exp,
		Strike:     decimal.NewFromFloat(strike),
		Type:       optionType,
	}, nil
}

// ID is the canonical map key for the contract.
func (k ContractKey) ID() string {
	return fmt.Sprintf("%s_%s_%s", k.Expiration, k.Strike.String(), k.Type)
}

func (k ContractKey) Equal(other ContractKey) bool {
	return k.Expiration == other.Expiration && k.Type == other.Type && k.Strike.Equal(other.Strike)
}

func (k ContractKey) StrikeFloat() float64 {
	return k.Strike.InexactFloat64()
}

func (k ContractKey) String() string {
	return k.ID()
}
