package eventmodels

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	monthlyInstrumentCode = regexp.MustCompile(`^TXO(\d{8})(\d{5})([CP])$`)
	weeklyInstrumentCode  = regexp.MustCompile(`^TX[1245](\d{5})([A-Z])(\d)$`)
)

// InstrumentCode is the exchange code of an option contract, either the
// monthly form TXO2025011518000C or the weekly form TX118000A5.
type InstrumentCode string

// Decode resolves the code into a ContractKey. Weekly codes do not carry an
// expiration, so defaultExpiration is used for them.
func (c InstrumentCode) Decode(defaultExpiration ExpirationDate) (ContractKey, error) {
	if m := monthlyInstrumentCode.FindStringSubmatch(string(c)); m != nil {
		exp, err := NewExpirationDate(m[1])
		if err != nil {
			return ContractKey{}, fmt.Errorf("InstrumentCode.Decode: %s: %v: %w", c, err, ErrUndecodableInstrument)
		}

		return newDecodedKey(exp, m[2], OptionType(m[3]))
	}

	if m := weeklyInstrumentCode.FindStringSubmatch(string(c)); m != nil {
		if defaultExpiration == "" {
			return ContractKey{}, fmt.Errorf("InstrumentCode.Decode: %s: no default expiration: %w", c, ErrUndecodableInstrument)
		}

		optionType := OptionTypePut
		if m[2][0] <= 'L' {
			optionType = OptionTypeCall
		}

		return newDecodedKey(defaultExpiration, m[1], optionType)
	}

	return ContractKey{}, fmt.Errorf("InstrumentCode.Decode: %q: %w", string(c), ErrUndecodableInstrument)
}

func newDecodedKey(exp ExpirationDate, strikeDigits string, optionType OptionType) (ContractKey, error) {
	strike, err := strconv.Atoi(strikeDigits)
	if err != nil || strike <= 0 {
		return ContractKey{}, fmt.Errorf("InstrumentCode.Decode: strike %q: %w", strikeDigits, ErrUndecodableInstrument)
	}

	return NewContractKey(string(exp), float64(strike), string(optionType))
}

// resolveContractKey prefers the explicit key fields of a feed message and
// falls back to decoding its instrument code.
func resolveContractKey(code, expiration string, strike FeedNumber, cp string, defaultExpiration ExpirationDate) (ContractKey, error) {
	if expiration != "" && strike.Valid && cp != "" {
		key, err := NewContractKey(expiration, strike.Value, cp)
		if err == nil {
			return key, nil
		}

		if code == "" {
			return ContractKey{}, err
		}
	}

	if code == "" {
		return ContractKey{}, fmt.Errorf("resolveContractKey: missing key fields and instrument code: %w", ErrInvalidContractKey)
	}

	return InstrumentCode(code).Decode(defaultExpiration)
}
