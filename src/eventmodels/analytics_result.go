package eventmodels

type AnalyticsResult struct {
	Key          ContractKey     `json:"key"`
	Spot         float64         `json:"spot"`
	Price        float64         `json:"price"`
	YearFraction float64         `json:"year_fraction"`
	Moneyness    OptionMoneyness `json:"moneyness"`
	ImpliedVol   float64         `json:"iv"`
	Delta        float64         `json:"delta"`
	Gamma        float64         `json:"gamma"`
	Theta        float64         `json:"theta"`
	Vega         float64         `json:"vega"`
	Rho          float64         `json:"rho"`
	Defined      bool            `json:"defined"`
	Converged    bool            `json:"converged"`
	Iterations   int             `json:"iterations"`
}
