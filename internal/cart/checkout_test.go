package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlacer struct {
	ref   OrderRef
	err   error
	calls int
	got   []Item
}

func (f *fakePlacer) PlaceOrder(ctx context.Context, items []Item, addr ShippingAddress) (OrderRef, error) {
	f.calls++
	f.got = items
	if f.err != nil {
		return OrderRef{}, f.err
	}
	return f.ref, nil
}

func fullAddress() ShippingAddress {
	return ShippingAddress{
		Name:       "Анна Авдеева",
		Phone:      "+7 911 000-00-00",
		City:       "Санкт-Петербург",
		Street:     "Невский проспект",
		House:      "28",
		PostalCode: "191186",
	}
}

func TestCheckout_Success(t *testing.T) {
	s := NewStore(DefaultPolicy())
	_, err := s.Add(testCard("p-1"), "M", 1)
	require.NoError(t, err)

	placer := &fakePlacer{ref: OrderRef{ID: "ord-1", Status: "created"}}
	ref, err := s.Checkout(context.Background(), placer, fullAddress())
	require.NoError(t, err)

	assert.Equal(t, "ord-1", ref.ID)
	assert.Len(t, placer.got, 1)
	assert.Zero(t, s.Len(), "cart clears after a successful order")
}

func TestCheckout_MissingFieldsBlockOrder(t *testing.T) {
	s := NewStore(DefaultPolicy())
	_, err := s.Add(testCard("p-1"), "M", 1)
	require.NoError(t, err)

	addr := fullAddress()
	addr.Phone = ""
	addr.PostalCode = "   "

	placer := &fakePlacer{}
	_, err = s.Checkout(context.Background(), placer, addr)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"phone", "postalCode"}, vErr.Missing)
	assert.Zero(t, placer.calls, "no remote call for an invalid address")
	assert.Equal(t, 1, s.Len(), "cart keeps its lines")
}

func TestCheckout_ApartmentIsOptional(t *testing.T) {
	addr := fullAddress()
	addr.Apartment = ""
	assert.Empty(t, addr.MissingFields())
}

func TestCheckout_EmptyCart(t *testing.T) {
	s := NewStore(DefaultPolicy())

	placer := &fakePlacer{}
	_, err := s.Checkout(context.Background(), placer, fullAddress())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, placer.calls)
}

func TestCheckout_RemoteFailureKeepsCart(t *testing.T) {
	s := NewStore(DefaultPolicy())
	_, err := s.Add(testCard("p-1"), "M", 1)
	require.NoError(t, err)

	placer := &fakePlacer{err: errors.New("order service down")}
	_, err = s.Checkout(context.Background(), placer, fullAddress())

	require.Error(t, err)
	assert.Equal(t, 1, s.Len(), "a failed order must not drop the lines")
}
