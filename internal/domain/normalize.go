package domain

// Normalize parses a provider payload and returns the per-day forecast with
// its long-range view.
func Normalize(payload []byte, opts BuildOptions) (Forecast, LongRangeView, error) {
	days, err := ParsePayload(payload)
	if err != nil {
		return nil, LongRangeView{}, err
	}
	fc, err := BuildForecast(days, opts)
	if err != nil {
		return nil, LongRangeView{}, err
	}
	return fc, NewLongRangeView(fc), nil
}
