package eventmodels

type OTMSum struct {
	Expiration ExpirationDate `json:"expiration"`
	Spot       float64        `json:"spot"`
	Sum        float64        `json:"sum"`
	Contracts  int            `json:"contracts"`
}

type ProfitDistributionPoint struct {
	Price float64 `json:"x"`
	Call  float64 `json:"c"`
	Put   float64 `json:"p"`
	Total float64 `json:"y"`
}

type ProfitDistribution struct {
	Expiration   ExpirationDate            `json:"expiration"`
	Points       []ProfitDistributionPoint `json:"points"`
	MaxPain      float64                   `json:"max_pain"`
	MaxPainValue float64                   `json:"max_pain_value"`
	PainZoneLow  float64                   `json:"pain_zone_low"`
	PainZoneHigh float64                   `json:"pain_zone_high"`
	Defined      bool                      `json:"defined"`
}

type PayoffSeries struct {
	Expiration ExpirationDate `json:"expiration"`
	Values     []float64      `json:"values"`
}

type PayoffSimulation struct {
	Grid         []float64      `json:"grid"`
	ByExpiration []PayoffSeries `json:"by_expiration"`
	Total        []float64      `json:"total"`
}

type IVSmilePoint struct {
	Strike float64  `json:"strike"`
	CallIV *float64 `json:"call_iv"`
	PutIV  *float64 `json:"put_iv"`
}

type IVSmile struct {
	Expiration   ExpirationDate `json:"expiration"`
	Points       []IVSmilePoint `json:"points"`
	CallIVMean   float64        `json:"call_iv_mean"`
	CallIVMedian float64        `json:"call_iv_median"`
	PutIVMean    float64        `json:"put_iv_mean"`
	PutIVMedian  float64        `json:"put_iv_median"`
}

// VolumeBar holds call volume as a positive and put volume as a negative
// number so both sides plot around a zero axis.
type VolumeBar struct {
	Strike     float64 `json:"strike"`
	CallVolume float64 `json:"call_volume"`
	PutVolume  float64 `json:"put_volume"`
}

type VolumeHistogram struct {
	Expiration ExpirationDate `json:"expiration"`
	Bars       []VolumeBar    `json:"bars"`
}

type OTMSample struct {
	TradableMinutes int64   `json:"minutes"`
	Sum             float64 `json:"sum"`
}

type OTMSeries struct {
	Expiration ExpirationDate `json:"expiration"`
	Samples    []OTMSample    `json:"samples"`
}

// ChainViews is the bundle recomputed by the views worker after every store
// change.
type ChainViews struct {
	Version            uint64              `json:"version"`
	Clock              SessionClock        `json:"clock"`
	OTMSum             *OTMSum             `json:"otm_sum"`
	ProfitDistribution *ProfitDistribution `json:"profit_distribution"`
	IVSmile            *IVSmile            `json:"iv_smile"`
	VolumeHistogram    *VolumeHistogram    `json:"volume_histogram"`
	OTMSeries          *OTMSeries          `json:"otm_series"`
}
