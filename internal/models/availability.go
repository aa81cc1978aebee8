package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/arviyanto/classweave/internal/scheduler"
)

// AvailabilityJSON stores a scheduler.Availability map as a single JSONB
// column rather than a normalized per-day, per-window table. Windows are
// read as a whole per entity on every conflict check, never filtered or
// joined in SQL, so normalizing would buy nothing but migration
// overhead; a single document matches the access pattern.
type AvailabilityJSON scheduler.Availability

func (a AvailabilityJSON) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	return json.Marshal(a)
}

func (a *AvailabilityJSON) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	raw, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("unsupported scan type for AvailabilityJSON: %T", value)
		}
		raw = []byte(str)
	}
	if len(raw) == 0 {
		*a = nil
		return nil
	}
	return json.Unmarshal(raw, a)
}

// ToEngine converts the persisted JSON form to the engine's native type.
func (a AvailabilityJSON) ToEngine() scheduler.Availability {
	return scheduler.Availability(a)
}
