package eventmodels

type OptionMoneyness string

const (
	OptionMoneynessIntheMoney    OptionMoneyness = "in_the_money"
	OptionMoneynessOutOfTheMoney OptionMoneyness = "out_of_the_money"
)

// NewOptionMoneyness classifies a contract against spot. Only a strict
// inequality is in the money; strike == spot is out of the money.
func NewOptionMoneyness(optionType OptionType, strike, spot float64) OptionMoneyness {
	if optionType.IsCall() && strike < spot {
		return OptionMoneynessIntheMoney
	}

	if !optionType.IsCall() && strike > spot {
		return OptionMoneynessIntheMoney
	}

	return OptionMoneynessOutOfTheMoney
}

func (m OptionMoneyness) IsOTM() bool {
	return m == OptionMoneynessOutOfTheMoney
}
