package session

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylehub/storefront/internal/domain/cart"
	"github.com/stylehub/storefront/internal/domain/catalog"
	"github.com/stylehub/storefront/internal/domain/checkout"
	"github.com/stylehub/storefront/internal/domain/plugin"
	"github.com/stylehub/storefront/internal/domain/promo"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testProducts() []catalog.Product {
	discount := dec("80")
	return []catalog.Product{
		{
			ID:       "1",
			Name:     "Red Sweater",
			Price:    dec("100"),
			Category: "Sweaters",
			Colors:   []string{"Red"},
			Sizes:    []string{"S", "M", "L"},
			Images:   []string{"sweater.jpg"},
			InStock:  true,
		},
		{
			ID:            "2",
			Name:          "Denim Jacket",
			Price:         dec("130"),
			DiscountPrice: &discount,
			Category:      "Jackets",
			Colors:        []string{"Blue"},
			Sizes:         []string{"M", "L"},
			Images:        []string{"jacket.jpg"},
			InStock:       true,
		},
	}
}

func testSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	if cfg.Products == nil {
		cfg.Products = testProducts()
	}
	if cfg.Checkout.SettleDelay == 0 {
		cfg.Checkout.SettleDelay = time.Millisecond
	}
	s := New("test-session", cfg)
	t.Cleanup(s.Close)
	return s
}

func validAddress() checkout.ShippingAddress {
	return checkout.ShippingAddress{
		FullName: "Jane Doe",
		Address:  "123 Main St",
		City:     "Springfield",
	}
}

func TestSession_FilterIntents(t *testing.T) {
	s := testSession(t, Config{})

	cat := "Jackets"
	s.SetFilter(catalog.FilterPatch{Category: &cat})

	filtered := s.FilteredProducts()
	require.Len(t, filtered, 1)
	assert.Equal(t, "2", filtered[0].ID)
	assert.Equal(t, "Jackets", s.Filter().Category)

	s.ClearFilters()
	assert.Len(t, s.FilteredProducts(), 2)

	s.SetSearchQuery("sweater")
	filtered = s.FilteredProducts()
	require.Len(t, filtered, 1)
	assert.Equal(t, "1", filtered[0].ID)
}

func TestSession_FindProduct(t *testing.T) {
	s := testSession(t, Config{})

	p, err := s.FindProduct("1")
	require.NoError(t, err)
	assert.Equal(t, "Red Sweater", p.Name)

	_, err = s.FindProduct("missing")
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestSession_CartIntents(t *testing.T) {
	s := testSession(t, Config{})

	require.NoError(t, s.AddToCart("1", 2, "Red", "M"))
	require.NoError(t, s.AddToCart("2", 1, "Blue", "L"))

	snap := s.CartSnapshot()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, 3, snap.ItemCount)
	assert.True(t, dec("280").Equal(snap.Total), "total %s", snap.Total)

	require.NoError(t, s.UpdateQuantity(0, 1))
	snap = s.CartSnapshot()
	assert.True(t, dec("180").Equal(snap.Total))

	require.NoError(t, s.RemoveFromCart(1))
	snap = s.CartSnapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "1", snap.Items[0].Product.ID)

	s.ClearCart()
	assert.Empty(t, s.CartSnapshot().Items)
}

func TestSession_AddToCart_UnknownProduct(t *testing.T) {
	s := testSession(t, Config{})
	require.ErrorIs(t, s.AddToCart("missing", 1, "", ""), catalog.ErrNotFound)
}

func TestSession_CartErrorsPassThrough(t *testing.T) {
	s := testSession(t, Config{})
	require.ErrorIs(t, s.RemoveFromCart(5), cart.ErrIndexOutOfRange)
	require.ErrorIs(t, s.AddToCart("1", 0, "", ""), cart.ErrInvalidQuantity)
}

func TestSession_PluginsSeededAtCreation(t *testing.T) {
	s := testSession(t, Config{
		Plugins: []plugin.Plugin{{
			ID:   "offer-banner",
			Name: "Offer Banner",
			Kind: plugin.KindOfferBanner,
			Config: plugin.Config{
				Enabled:  true,
				Position: plugin.PositionTop,
			},
		}},
	})

	active := s.ActivePlugins(plugin.PositionTop)
	require.Len(t, active, 1)
	assert.Equal(t, "offer-banner", active[0].ID)

	require.NoError(t, s.TogglePlugin("offer-banner"))
	assert.Empty(t, s.ActivePlugins(plugin.PositionTop))

	s.UnregisterPlugin("offer-banner")
	assert.Empty(t, s.Plugins())
}

func TestSession_CheckoutGuardEmptyCart(t *testing.T) {
	s := testSession(t, Config{})

	require.ErrorIs(t, s.CheckoutGuard(), checkout.ErrEmptyCart)
	require.ErrorIs(t, s.SubmitShipping(validAddress()), checkout.ErrEmptyCart)
}

func TestSession_CheckoutEndToEnd(t *testing.T) {
	s := testSession(t, Config{})

	require.NoError(t, s.AddToCart("2", 2, "Blue", "M"))
	assert.Equal(t, checkout.StepShipping, s.CheckoutStep())

	require.NoError(t, s.SubmitShipping(validAddress()))
	assert.Equal(t, checkout.StepPayment, s.CheckoutStep())

	require.NoError(t, s.SubmitPayment(checkout.MethodCOD, checkout.PaymentInfo{}, ""))
	assert.Equal(t, checkout.StepProcessing, s.CheckoutStep())
	assert.Nil(t, s.Order())

	// Settlement runs on the flow's timer through the session dispatcher.
	require.Eventually(t, func() bool {
		return s.CheckoutStep() == checkout.StepCompleted
	}, time.Second, 5*time.Millisecond)

	o := s.Order()
	require.NotNil(t, o)
	assert.True(t, dec("160").Equal(o.Total), "total %s", o.Total)
	assert.Empty(t, s.CartSnapshot().Items)

	n := s.Notification()
	assert.True(t, n.Show)
	assert.Equal(t, NotifySuccess, n.Type)
	assert.Equal(t, "Order placed successfully!", n.Message)
}

func TestSession_CheckoutWithPromo(t *testing.T) {
	s := testSession(t, Config{
		Promos: promo.NewRuleSetValidator([]promo.Rule{
			{Code: "WELCOME10", Kind: promo.KindPercentage, Value: dec("10")},
		}),
	})

	require.NoError(t, s.AddToCart("1", 1, "Red", "M"))
	require.NoError(t, s.SubmitShipping(validAddress()))
	require.NoError(t, s.SubmitPayment(checkout.MethodPayPal, checkout.PaymentInfo{}, "WELCOME10"))

	require.Eventually(t, func() bool {
		return s.CheckoutStep() == checkout.StepCompleted
	}, time.Second, 5*time.Millisecond)

	o := s.Order()
	require.NotNil(t, o)
	assert.True(t, dec("90").Equal(o.Total), "total %s", o.Total)
	assert.Equal(t, "WELCOME10", o.PromoCode)
}

func TestSession_ShippingValidationSetsErrorNotification(t *testing.T) {
	s := testSession(t, Config{})
	require.NoError(t, s.AddToCart("1", 1, "Red", "M"))

	err := s.SubmitShipping(checkout.ShippingAddress{FullName: "Jane Doe"})

	var vErr *checkout.ValidationError
	require.ErrorAs(t, err, &vErr)
	n := s.Notification()
	assert.True(t, n.Show)
	assert.Equal(t, NotifyError, n.Type)
}

func TestSession_BackToShipping(t *testing.T) {
	s := testSession(t, Config{})
	require.NoError(t, s.AddToCart("1", 1, "Red", "M"))
	require.NoError(t, s.SubmitShipping(validAddress()))

	require.NoError(t, s.BackToShipping())
	assert.Equal(t, checkout.StepShipping, s.CheckoutStep())
}

func TestSession_CloseCancelsPendingSettle(t *testing.T) {
	s := New("short-lived", Config{
		Products: testProducts(),
		Checkout: checkout.FlowConfig{SettleDelay: 20 * time.Millisecond},
	})
	require.NoError(t, s.AddToCart("1", 1, "Red", "M"))
	require.NoError(t, s.SubmitShipping(validAddress()))
	require.NoError(t, s.SubmitPayment(checkout.MethodCOD, checkout.PaymentInfo{}, ""))

	s.Close()
	time.Sleep(50 * time.Millisecond)

	assert.Nil(t, s.Order())
	assert.NotEmpty(t, s.CartSnapshot().Items)
}

func TestSession_Notifications(t *testing.T) {
	s := testSession(t, Config{})

	s.ShowNotification(NotifyInfo, "Added to cart")
	n := s.Notification()
	assert.True(t, n.Show)
	assert.Equal(t, NotifyInfo, n.Type)
	assert.Equal(t, "Added to cart", n.Message)

	s.HideNotification()
	assert.False(t, s.Notification().Show)
}

func TestSession_RepeatOrderAfterCompletion(t *testing.T) {
	s := testSession(t, Config{})

	placeOrder := func(productID string) *checkout.Order {
		t.Helper()
		require.NoError(t, s.AddToCart(productID, 1, "", ""))
		require.NoError(t, s.SubmitShipping(validAddress()))
		require.NoError(t, s.SubmitPayment(checkout.MethodCOD, checkout.PaymentInfo{}, ""))
		require.Eventually(t, func() bool {
			return s.CheckoutStep() == checkout.StepCompleted
		}, time.Second, 5*time.Millisecond)
		o := s.Order()
		require.NotNil(t, o)
		return o
	}

	first := placeOrder("1")
	assert.True(t, dec("100").Equal(first.Total), "total %s", first.Total)

	// Refilling the cart and submitting again starts a fresh cycle instead
	// of rejecting the transition from the completed step.
	second := placeOrder("2")
	assert.True(t, dec("80").Equal(second.Total), "total %s", second.Total)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Empty(t, s.CartSnapshot().Items)
}
