package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nasiGoreng(qty int) Line {
	return Line{MenuItemID: "m-1", Name: "Nasi Goreng", UnitPrice: 15000, Quantity: qty}
}

func esTeh(qty int) Line {
	return Line{MenuItemID: "m-2", Name: "Es Teh", UnitPrice: 5000, Quantity: qty}
}

func TestAdd_NewAndExistingLine(t *testing.T) {
	var c Cart

	c1, err := c.Add("v-1", nasiGoreng(2))
	require.NoError(t, err)
	c2, err := c1.Add("v-1", esTeh(1))
	require.NoError(t, err)
	c3, err := c2.Add("v-1", nasiGoreng(3))
	require.NoError(t, err)

	assert.True(t, c.IsEmpty(), "receiver must not change")
	assert.Len(t, c1.Lines, 1)
	assert.Equal(t, 2, c2.Lines[0].Quantity, "previous value must not change")

	require.Len(t, c3.Lines, 2)
	assert.Equal(t, "v-1", c3.VendorID)
	assert.Equal(t, 5, c3.Lines[0].Quantity)
	assert.Equal(t, int64(5*15000+5000), c3.Subtotal())
	assert.Equal(t, 6, c3.ItemCount())
}

func TestAdd_OtherVendorClearsCart(t *testing.T) {
	c, err := Cart{}.Add("v-1", nasiGoreng(2))
	require.NoError(t, err)

	c, err = c.Add("v-2", esTeh(1))
	require.NoError(t, err)

	assert.Equal(t, "v-2", c.VendorID)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "m-2", c.Lines[0].MenuItemID)
}

func TestAdd_QuantityBounds(t *testing.T) {
	_, err := Cart{}.Add("v-1", nasiGoreng(0))
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = Cart{}.Add("v-1", nasiGoreng(11))
	require.ErrorIs(t, err, ErrInvalidQuantity)

	c, err := Cart{}.Add("v-1", nasiGoreng(8))
	require.NoError(t, err)
	same, err := c.Add("v-1", nasiGoreng(3))
	require.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 8, same.Lines[0].Quantity)
}

func TestSetQuantity(t *testing.T) {
	c, err := Cart{}.Add("v-1", nasiGoreng(1))
	require.NoError(t, err)

	updated, err := c.SetQuantity("m-1", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Lines[0].Quantity)
	assert.Equal(t, 1, c.Lines[0].Quantity)

	_, err = c.SetQuantity("m-1", 11)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = c.SetQuantity("missing", 2)
	require.ErrorIs(t, err, ErrLineNotFound)
}

func TestRemoveAndClear(t *testing.T) {
	c, _ := Cart{}.Add("v-1", nasiGoreng(1))
	c, _ = c.Add("v-1", esTeh(2))

	removed := c.Remove("m-1")
	require.Len(t, removed.Lines, 1)
	assert.Equal(t, "v-1", removed.VendorID)
	assert.Len(t, c.Lines, 2)

	empty := removed.Remove("m-2")
	assert.True(t, empty.IsEmpty())
	assert.Empty(t, empty.VendorID, "empty cart is no longer bound to a vendor")

	assert.Equal(t, Cart{}, c.Clear())
}
