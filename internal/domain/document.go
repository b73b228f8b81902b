package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// PayloadDigest is the hex SHA-256 of a raw payload.
func PayloadDigest(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// DocumentID derives a deterministic ID from the location and payload, so
// replaying the same payload produces the same ID.
func DocumentID(location string, payload []byte) string {
	short := PayloadDigest(payload)[:16]
	if location == "" {
		return short
	}
	return location + "-" + short
}

// SerializeForecast marshals a document into an output event keyed by location.
func SerializeForecast(doc ForecastDocument) (OutputEvent, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize forecast: %w", err)
	}
	return OutputEvent{
		Key:   []byte(doc.Location),
		Value: data,
		Headers: map[string]string{
			"location":     doc.Location,
			"build_id":     doc.BuildID,
			"days":         strconv.Itoa(len(doc.Days)),
			"processed_at": doc.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
