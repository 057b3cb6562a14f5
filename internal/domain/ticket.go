package domain

import "fmt"

// TicketType is the fiscal flavour of a closed sale
type TicketType string

const (
	TicketTypeNormal TicketType = "normal"
	TicketTypeA      TicketType = "A"
	TicketTypeB      TicketType = "B"
)

// Valid reports whether t is a known ticket type
func (t TicketType) Valid() bool {
	switch t {
	case TicketTypeNormal, TicketTypeA, TicketTypeB:
		return true
	}
	return false
}

// TicketItem is one line of a ticket
type TicketItem struct {
	ProductID    string   `json:"productId"`
	ExternalID   string   `json:"externalId,omitempty"`
	Name         string   `json:"name"`
	Quantity     float64  `json:"quantity"`
	PricePerUnit float64  `json:"pricePerUnit"`
	UnitType     UnitType `json:"unitType"`
}

// ClosedTicket is an immutable record of a completed sale
type ClosedTicket struct {
	ID        string       `json:"id"`
	Timestamp int64        `json:"timestamp"` // unix milliseconds
	Items     []TicketItem `json:"items"`
	Total     float64      `json:"total"`
	Type      TicketType   `json:"type"`
	Client    *Customer    `json:"client,omitempty"`
}

// Validate checks the fields required to persist a ticket
func (t ClosedTicket) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidTicket)
	}
	if t.Items == nil {
		return fmt.Errorf("%w: missing items", ErrInvalidTicket)
	}
	if t.Type != "" && !t.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTicket, t.Type)
	}
	for i, item := range t.Items {
		if item.Quantity < 0 {
			return fmt.Errorf("%w: item %d has a negative quantity", ErrInvalidTicket, i)
		}
	}
	return nil
}
