package eventmodels

import (
	"fmt"
	"strings"
)

type OptionType string

func (o OptionType) Validate() error {
	if o != OptionTypeCall && o != OptionTypePut {
		return fmt.Errorf("OptionType: Validate: invalid option type: %s", o)
	}

	return nil
}

func (o OptionType) IsCall() bool {
	return o == OptionTypeCall
}

// ParseOptionType accepts the feed spellings: C, P, Call, Put (any case).
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "C", "CALL":
		return OptionTypeCall, nil
	case "P", "PUT":
		return OptionTypePut, nil
	}

	return "", fmt.Errorf("ParseOptionType: invalid option type: %q", s)
}

const (
	OptionTypeCall OptionType = "C"
	OptionTypePut  OptionType = "P"
)
