// Package domain normalizes weather-provider forecast payloads into a strictly
// typed, time-aligned per-day forecast model.
//
// # Data Source
//
// The provider publishes one JSON document per location (postal code) holding
// an array of day objects, index 0 being today. The upstream fetcher publishes
// that array unchanged as the value of a message on the source topic, keyed by
// location.
//
// # Payload Conventions
//
// Series encoding:
//
//	Value series are arrays of [timestamp, value] pairs, e.g. [1588284000000, 2.4].
//	Range series are arrays of [timestamp, low, high] triples and run parallel to
//	their value series: variance_rain pairs with rainfall, variance_range with
//	temperature. Paired entries must carry the same timestamp.
//
// Numeric slots:
//
//	Any number may arrive as an integer literal (12) or a real literal (12.0).
//	Timestamps are epoch milliseconds and must be integer literals; a real in a
//	timestamp slot is a type mismatch, even when it holds a whole number.
//
// Weather symbols:
//
//	symbols carries {timestamp, weather_symbol_id}. Ids above 100 are the night
//	variant of id-100 and share its icon. Icons are resolved against an opaque
//	base path: 112 -> "<base>/12.pdf".
//
// Wind:
//
//	wind.data is a [timestamp, strength] series; wind.symbols is a sparser list of
//	{timestamp, symbol_id} direction changes whose first entry coincides with the
//	first measurement. Each measurement carries the latest direction at or before it.
//
// # Time Axis
//
// Timestamps are reduced to a fractional local hour of day (14:30 -> 14.5). Each
// day except the last receives one extra rainfall, sunshine and temperature sample
// copied from the next day's first entry at hour+24, so a single-day chart shows
// the start of the following day. The long-range view rebases all hours onto a
// continuous axis measured in days (0.0 = start of today).
//
// # Display Bounds
//
// Axis bounds keep at least half a unit of padding around the data: temperature
// lows are truncated and pushed down, highs are rounded up and pushed up, and the
// rainfall axis never shows less than 10 mm.
package domain
