// Package ticket holds the line-item arithmetic of an open register ticket.
package ticket

import (
	"errors"
	"math"

	"github.com/osse101/posrelay/internal/domain"
)

// SurchargeProductID identifies the card surcharge line
const SurchargeProductID = "tar-10"

// SurchargeRate is applied to the subtotal of every other line
const SurchargeRate = 0.10

// WeightPrecision is the number of decimals kept for weighed quantities
const WeightPrecision = 3

// ErrNegativeQuantity is returned when a quantity update would go below zero
var ErrNegativeQuantity = errors.New("negative quantity")

// ErrInvalidQuantity is returned for NaN or infinite quantities
var ErrInvalidQuantity = errors.New("invalid quantity")

// ErrUnknownProduct is returned when a line refers to a product not in the catalog
var ErrUnknownProduct = errors.New("unknown product")

// NormalizeQuantity rounds q for the given unit type.
// Unit lines round half away from zero to an integer, weight lines keep three decimals.
func NormalizeQuantity(unitType domain.UnitType, q float64) (float64, error) {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0, ErrInvalidQuantity
	}
	if q < 0 {
		return 0, ErrNegativeQuantity
	}
	if unitType == domain.UnitTypeUnit {
		return math.Round(q), nil
	}
	scale := math.Pow10(WeightPrecision)
	scaled := q * scale
	if math.IsInf(scaled, 0) {
		// already far coarser than the kept precision
		return q, nil
	}
	return math.Round(scaled) / scale, nil
}

// LineTotal is quantity times unit price
func LineTotal(item domain.TicketItem) float64 {
	return item.Quantity * item.PricePerUnit
}

// Ticket is an open sale being built at the register
type Ticket struct {
	items []domain.TicketItem
}

// New returns an empty open ticket
func New() *Ticket {
	return &Ticket{}
}

// Items returns a copy of the current lines in insertion order
func (t *Ticket) Items() []domain.TicketItem {
	out := make([]domain.TicketItem, len(t.items))
	copy(out, t.items)
	return out
}

// Len returns the number of lines
func (t *Ticket) Len() int {
	return len(t.items)
}

// Subtotal sums every line except the surcharge
func (t *Ticket) Subtotal() float64 {
	var sum float64
	for _, item := range t.items {
		if item.ProductID == SurchargeProductID {
			continue
		}
		sum += LineTotal(item)
	}
	return sum
}

// Total sums every line including the surcharge
func (t *Ticket) Total() float64 {
	var sum float64
	for _, item := range t.items {
		sum += LineTotal(item)
	}
	return sum
}

// HasSurcharge reports whether the surcharge line is present
func (t *Ticket) HasSurcharge() bool {
	return t.indexOf(SurchargeProductID) >= 0
}

// AddProduct adds one unit of p, or starts a line with quantity 1.
// Adding the surcharge product toggles the surcharge line on.
func (t *Ticket) AddProduct(p domain.Product) {
	if p.ID == SurchargeProductID {
		t.EnableSurcharge(p.Name)
		return
	}
	if i := t.indexOf(p.ID); i >= 0 {
		if t.items[i].UnitType == domain.UnitTypeUnit {
			t.items[i].Quantity++
		}
		t.recalcSurcharge()
		return
	}
	t.items = append(t.items, lineFor(p, 1))
	t.recalcSurcharge()
}

// AddWeight adds a weighed amount of p to its line
func (t *Ticket) AddWeight(p domain.Product, weight float64) error {
	q, err := NormalizeQuantity(domain.UnitTypeWeight, weight)
	if err != nil {
		return err
	}
	if i := t.indexOf(p.ID); i >= 0 {
		sum, err := NormalizeQuantity(domain.UnitTypeWeight, t.items[i].Quantity+q)
		if err != nil {
			return err
		}
		t.items[i].Quantity = sum
	} else {
		t.items = append(t.items, lineFor(p, q))
	}
	t.recalcSurcharge()
	return nil
}

// SetQuantity replaces the quantity of a line.
// A negative or non-finite value is rejected and leaves the line unchanged.
func (t *Ticket) SetQuantity(productID string, q float64) error {
	i := t.indexOf(productID)
	if i < 0 {
		return ErrUnknownProduct
	}
	if productID == SurchargeProductID {
		return nil
	}
	normalized, err := NormalizeQuantity(t.items[i].UnitType, q)
	if err != nil {
		return err
	}
	t.items[i].Quantity = normalized
	t.recalcSurcharge()
	return nil
}

// Remove decrements a unit line above 1, otherwise drops the line
func (t *Ticket) Remove(productID string) {
	i := t.indexOf(productID)
	if i < 0 {
		return
	}
	item := t.items[i]
	if item.UnitType == domain.UnitTypeUnit && item.Quantity > 1 && productID != SurchargeProductID {
		t.items[i].Quantity--
	} else {
		t.items = append(t.items[:i], t.items[i+1:]...)
	}
	t.recalcSurcharge()
}

// EnableSurcharge appends the surcharge line if it is not there yet
func (t *Ticket) EnableSurcharge(name string) {
	if t.HasSurcharge() {
		return
	}
	if name == "" {
		name = "Recargo tarjeta 10%"
	}
	t.items = append(t.items, domain.TicketItem{
		ProductID: SurchargeProductID,
		Name:      name,
		Quantity:  1,
		UnitType:  domain.UnitTypeUnit,
	})
	t.recalcSurcharge()
}

// DisableSurcharge removes the surcharge line
func (t *Ticket) DisableSurcharge() {
	t.Remove(SurchargeProductID)
}

// Clear empties the ticket
func (t *Ticket) Clear() {
	t.items = nil
}

// Close freezes the ticket into a ClosedTicket
func (t *Ticket) Close(id string, timestampMs int64, typ domain.TicketType, client *domain.Customer) (domain.ClosedTicket, error) {
	if typ == "" {
		typ = domain.TicketTypeNormal
	}
	closed := domain.ClosedTicket{
		ID:        id,
		Timestamp: timestampMs,
		Items:     t.Items(),
		Total:     t.Total(),
		Type:      typ,
		Client:    client,
	}
	if err := closed.Validate(); err != nil {
		return domain.ClosedTicket{}, err
	}
	return closed, nil
}

func (t *Ticket) recalcSurcharge() {
	i := t.indexOf(SurchargeProductID)
	if i < 0 {
		return
	}
	t.items[i].Quantity = 1
	t.items[i].PricePerUnit = t.Subtotal() * SurchargeRate
}

func (t *Ticket) indexOf(productID string) int {
	for i, item := range t.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func lineFor(p domain.Product, q float64) domain.TicketItem {
	return domain.TicketItem{
		ProductID:    p.ID,
		ExternalID:   p.ExternalID,
		Name:         p.Name,
		Quantity:     q,
		PricePerUnit: p.PricePerUnit,
		UnitType:     p.UnitType,
	}
}
