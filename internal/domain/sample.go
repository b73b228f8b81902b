package domain

// SampleValue is a plain measurement, used for sunshine and gusts.
type SampleValue struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// RangedSample is a measurement with its uncertainty band, used for rainfall
// and temperature. Low <= Value <= High is the provider's responsibility.
type RangedSample struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
}

// WindSample is a wind strength with the direction in effect at that time.
type WindSample struct {
	Time      float64 `json:"time"`
	Strength  float64 `json:"strength"`
	Direction string  `json:"direction"`
}

// IconSample is a resolved weather icon path at a point in time.
type IconSample struct {
	Time float64 `json:"time"`
	Icon string  `json:"icon"`
}
