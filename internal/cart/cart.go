// Package cart holds the single-vendor shopping cart. A Cart is a value:
// every transition returns a new Cart and never mutates the receiver.
package cart

import (
	"errors"
	"fmt"
)

const (
	MinQuantity = 1
	MaxQuantity = 10
)

var (
	ErrInvalidQuantity = fmt.Errorf("quantity must be between %d and %d", MinQuantity, MaxQuantity)
	ErrLineNotFound    = errors.New("item is not in the cart")
)

type Line struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	UnitPrice  int64  `json:"unit_price"`
	Quantity   int    `json:"quantity"`
}

func (l Line) Total() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

type Cart struct {
	VendorID string `json:"vendor_id,omitempty"`
	Lines    []Line `json:"lines"`
}

// Add puts line into the cart. A line from another vendor replaces the whole
// cart; adding an item already present increases its quantity.
func (c Cart) Add(vendorID string, line Line) (Cart, error) {
	if line.Quantity < MinQuantity || line.Quantity > MaxQuantity {
		return c, ErrInvalidQuantity
	}

	next := c.clone()
	if next.VendorID != vendorID {
		next = Cart{VendorID: vendorID}
	}

	for i := range next.Lines {
		if next.Lines[i].MenuItemID != line.MenuItemID {
			continue
		}
		qty := next.Lines[i].Quantity + line.Quantity
		if qty > MaxQuantity {
			return c, ErrInvalidQuantity
		}
		next.Lines[i].Quantity = qty
		next.Lines[i].UnitPrice = line.UnitPrice
		next.Lines[i].Name = line.Name
		return next, nil
	}

	next.Lines = append(next.Lines, line)
	return next, nil
}

func (c Cart) Remove(menuItemID string) Cart {
	next := Cart{VendorID: c.VendorID}
	for _, l := range c.Lines {
		if l.MenuItemID != menuItemID {
			next.Lines = append(next.Lines, l)
		}
	}
	if len(next.Lines) == 0 {
		return Cart{}
	}
	return next
}

func (c Cart) SetQuantity(menuItemID string, quantity int) (Cart, error) {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return c, ErrInvalidQuantity
	}

	next := c.clone()
	for i := range next.Lines {
		if next.Lines[i].MenuItemID == menuItemID {
			next.Lines[i].Quantity = quantity
			return next, nil
		}
	}
	return c, ErrLineNotFound
}

func (c Cart) Clear() Cart {
	return Cart{}
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c Cart) Subtotal() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.Total()
	}
	return total
}

func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c Cart) clone() Cart {
	if len(c.Lines) == 0 {
		return Cart{VendorID: c.VendorID}
	}
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{VendorID: c.VendorID, Lines: lines}
}
