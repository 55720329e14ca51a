package eventmodels

import "fmt"

type ContractField string

const (
	FieldLast         ContractField = "last"
	FieldChangeRate   ContractField = "change_rate"
	FieldTotalVolume  ContractField = "total_volume"
	FieldOpenInterest ContractField = "oi"
)

const BookDepth = 5

func BidField(level int) ContractField {
	return ContractField(fmt.Sprintf("bid%d", level))
}

func AskField(level int) ContractField {
	return ContractField(fmt.Sprintf("ask%d", level))
}

func BidVolumeField(level int) ContractField {
	return ContractField(fmt.Sprintf("bid_volume%d", level))
}

func AskVolumeField(level int) ContractField {
	return ContractField(fmt.Sprintf("ask_volume%d", level))
}

type contractFieldRef struct {
	name  ContractField
	value **float64
}
