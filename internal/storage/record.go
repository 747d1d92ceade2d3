package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

type Shift string

const (
	ShiftMorning   Shift = "Sabah"
	ShiftAfternoon Shift = "Öğle"
	ShiftEvening   Shift = "Akşam"
)

// Shifts returns the canonical shift order used by every report.
func Shifts() []Shift {
	return []Shift{ShiftMorning, ShiftAfternoon, ShiftEvening}
}

// Quantity is a produced piece count. Decoding never fails: numbers are
// truncated, numeric strings are parsed and anything else becomes 0.
type Quantity int64

func (q *Quantity) UnmarshalJSON(data []byte) error {
	*q = 0

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	*q = ParseQuantity(raw)
	return nil
}

// ParseQuantity coerces free text to a Quantity, 0 when it is not a number.
func ParseQuantity(raw string) Quantity {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Quantity(n)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && math.Abs(f) < math.MaxInt64 {
		return Quantity(int64(f))
	}
	return 0
}

type Record struct {
	ID         string    `json:"id"`
	Part       string    `json:"part"`
	Quantity   Quantity  `json:"quantity"`
	Machine    string    `json:"machine"`
	Operator   string    `json:"operator"`
	Supervisor string    `json:"supervisor"`
	Shift      Shift     `json:"shift"`
	User       string    `json:"user"`
	Timestamp  time.Time `json:"timestamp"`
}

// RecordInput is what the add and edit forms submit. Timestamp and user are
// never taken from the client.
type RecordInput struct {
	Part       string   `json:"part" validate:"required"`
	Quantity   Quantity `json:"quantity"`
	Machine    string   `json:"machine" validate:"required"`
	Operator   string   `json:"operator" validate:"required"`
	Supervisor string   `json:"supervisor" validate:"required"`
	Shift      Shift    `json:"shift" validate:"required"`
}

// RecordQuery narrows a record listing. Zero value lists everything.
type RecordQuery struct {
	Since    *time.Time
	Operator string
}
