package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Optional is a tri-state JSON field for partial updates: absent from the
// request body, explicitly null, or set to a value. Plain pointers cannot
// tell "absent" from "null", and update endpoints need the distinction.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// UnmarshalJSON marks the field as present and records whether it was null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Ptr returns the value as a pointer, nil when the field was null.
func (o Optional[T]) Ptr() *T {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

const dateOnlyFormat = "2006-01-02"

// Date is a timestamp that also accepts bare YYYY-MM-DD input. Date-only
// values land at midnight, matching how the store has always held them.
type Date struct {
	time.Time
}

// UnmarshalJSON parses either an RFC3339 timestamp or a YYYY-MM-DD date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(dateOnlyFormat, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected RFC3339 or YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

// MarshalJSON renders the date as RFC3339.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.Format(time.RFC3339))
}
