package types

// Address is the shipping/billing snapshot stored on orders as jsonb.
// It is copied from the request at order time and never follows later
// profile edits.
type Address struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country,omitempty"`
}

// JSONMap is a free-form jsonb payload (order item variants).
type JSONMap map[string]any
