package availability

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ResourceID identifies a bookable resource ("cancha").
// The booking server sends numeric ids in resource lists and string ids as map keys,
// so both JSON forms are accepted.
type ResourceID string

func (id *ResourceID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ResourceID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("resource id must be a string or a number: %w", err)
	}
	*id = ResourceID(n.String())
	return nil
}

// Resource is a bookable court as reported by the booking server.
// It is treated as an immutable value.
type Resource struct {
	ID        ResourceID      `json:"id"`
	Name      string          `json:"nombre"`
	Type      string          `json:"tipo"`
	Condition string          `json:"condicion"`
	Price     decimal.Decimal `json:"monto"` // per hour
}

// Slot is one free start time for a resource.
type Slot struct {
	Start string `json:"hora_inicio"`
	End   string `json:"hora_fin,omitempty"`
}

// Response is the availability of every resource for one date.
type Response struct {
	Resources []Resource            `json:"canchas"`
	Available map[ResourceID][]Slot `json:"horarios_disponibles"`
}

// IsAvailable reports whether the resource has a free slot starting at start.
// A resource missing from Available has no free slots.
func (r *Response) IsAvailable(id ResourceID, start string) bool {
	if r == nil {
		return false
	}
	for _, s := range r.Available[id] {
		if s.Start == start {
			return true
		}
	}
	return false
}

// Resource looks up a resource by id.
func (r *Response) Resource(id ResourceID) (Resource, bool) {
	if r == nil {
		return Resource{}, false
	}
	for _, res := range r.Resources {
		if res.ID == id {
			return res, true
		}
	}
	return Resource{}, false
}
