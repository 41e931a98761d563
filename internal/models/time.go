package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// the backend sends and expects JSON numbers for BigDecimal fields
	decimal.MarshalJSONWithoutQuotes = true
}

const localDateTime = "2006-01-02T15:04:05.999999999"

// Timestamp accepts both zoned RFC 3339 values and the zone-less
// LocalDateTime values the backend serializes.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(localDateTime))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		parsed, err = time.Parse(localDateTime, s)
		if err != nil {
			return err
		}
	}
	t.Time = parsed
	return nil
}
