package handler

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/stylehub/storefront/internal/domain/cart"
	"github.com/stylehub/storefront/internal/domain/catalog"
	"github.com/stylehub/storefront/internal/domain/checkout"
	"github.com/stylehub/storefront/internal/domain/plugin"
)

// --- Products ---

type productResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
	Category      string           `json:"category"`
	Colors        []string         `json:"colors"`
	Sizes         []string         `json:"sizes"`
	Images        []string         `json:"images"`
	InStock       bool             `json:"inStock"`
	Featured      bool             `json:"featured"`
	Rating        float64          `json:"rating"`
	Reviews       int              `json:"reviews"`
}

func toProductResponse(p *catalog.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		Category:      p.Category,
		Colors:        p.Colors,
		Sizes:         p.Sizes,
		Images:        p.Images,
		InStock:       p.InStock,
		Featured:      p.Featured,
		Rating:        p.Rating,
		Reviews:       p.Reviews,
	}
}

func toProductResponses(products []catalog.Product) []productResponse {
	out := make([]productResponse, len(products))
	for i := range products {
		out[i] = toProductResponse(&products[i])
	}
	return out
}

// --- Filter ---

// The price bounds are raw messages so an explicit null (remove the bound)
// stays distinguishable from an absent field (leave the bound alone).
type filterRequest struct {
	Category     *string         `json:"category"`
	Color        *string         `json:"color"`
	MinPrice     json.RawMessage `json:"minPrice"`
	MaxPrice     json.RawMessage `json:"maxPrice"`
	DiscountOnly *bool           `json:"discountOnly"`
	SearchQuery  *string         `json:"searchQuery"`
}

func (r *filterRequest) toPatch() (catalog.FilterPatch, error) {
	minBound, err := priceBound(r.MinPrice)
	if err != nil {
		return catalog.FilterPatch{}, errors.Wrap(err, "minPrice")
	}
	maxBound, err := priceBound(r.MaxPrice)
	if err != nil {
		return catalog.FilterPatch{}, errors.Wrap(err, "maxPrice")
	}
	return catalog.FilterPatch{
		Category:     r.Category,
		Color:        r.Color,
		MinPrice:     minBound,
		MaxPrice:     maxBound,
		DiscountOnly: r.DiscountOnly,
		SearchQuery:  r.SearchQuery,
	}, nil
}

func priceBound(raw json.RawMessage) (catalog.PriceBound, error) {
	if len(raw) == 0 {
		return catalog.PriceBound{}, nil
	}
	if string(raw) == "null" {
		return catalog.Unbound(), nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return catalog.PriceBound{}, err
	}
	return catalog.Bound(d), nil
}

type filterResponse struct {
	Category     string           `json:"category,omitempty"`
	Color        string           `json:"color,omitempty"`
	MinPrice     *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice     *decimal.Decimal `json:"maxPrice,omitempty"`
	DiscountOnly bool             `json:"discountOnly,omitempty"`
	SearchQuery  string           `json:"searchQuery,omitempty"`
}

type searchRequest struct {
	Query string `json:"query"`
}

// --- Cart ---

type addToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartItemResponse struct {
	Product  productResponse `json:"product"`
	Quantity int             `json:"quantity"`
	Color    string          `json:"selectedColor"`
	Size     string          `json:"selectedSize"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type cartResponse struct {
	Items     []cartItemResponse `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	ItemCount int                `json:"itemCount"`
}

func toCartResponse(snap cart.Snapshot) cartResponse {
	items := make([]cartItemResponse, len(snap.Items))
	for i := range snap.Items {
		li := &snap.Items[i]
		items[i] = cartItemResponse{
			Product:  toProductResponse(li.Product),
			Quantity: li.Quantity,
			Color:    li.Color,
			Size:     li.Size,
			Subtotal: li.Subtotal(),
		}
	}
	return cartResponse{
		Items:     items,
		Total:     snap.Total,
		ItemCount: snap.ItemCount,
	}
}

// --- Checkout ---

type shippingRequest struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
}

func (r *shippingRequest) toAddress() checkout.ShippingAddress {
	return checkout.ShippingAddress{
		FullName: r.FullName,
		Address:  r.Address,
		City:     r.City,
		State:    r.State,
		ZipCode:  r.ZipCode,
		Country:  r.Country,
		Phone:    r.Phone,
	}
}

type paymentRequest struct {
	Method     string `json:"method" validate:"required,oneof=credit_card paypal cod"`
	CardNumber string `json:"cardNumber"`
	CardName   string `json:"cardName"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
	PromoCode  string `json:"promoCode"`
}

type checkoutResponse struct {
	Step    string `json:"step"`
	OrderID string `json:"orderId,omitempty"`
}

type orderResponse struct {
	ID              string             `json:"id"`
	Items           []cartItemResponse `json:"items"`
	ShippingAddress shippingRequest    `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	Discount        decimal.Decimal    `json:"discount"`
	PromoCode       string             `json:"promoCode,omitempty"`
	Total           decimal.Decimal    `json:"total"`
	Status          string             `json:"status"`
	CreatedAt       string             `json:"createdAt"`
}

func toOrderResponse(o *checkout.Order) orderResponse {
	items := make([]cartItemResponse, len(o.Items))
	for i := range o.Items {
		li := &o.Items[i]
		items[i] = cartItemResponse{
			Product:  toProductResponse(li.Product),
			Quantity: li.Quantity,
			Color:    li.Color,
			Size:     li.Size,
			Subtotal: li.Subtotal(),
		}
	}
	addr := o.ShippingAddress
	return orderResponse{
		ID:    o.ID,
		Items: items,
		ShippingAddress: shippingRequest{
			FullName: addr.FullName,
			Address:  addr.Address,
			City:     addr.City,
			State:    addr.State,
			ZipCode:  addr.ZipCode,
			Country:  addr.Country,
			Phone:    addr.Phone,
		},
		PaymentMethod: string(o.PaymentMethod),
		Subtotal:      o.Subtotal,
		Discount:      o.Discount,
		PromoCode:     o.PromoCode,
		Total:         o.Total,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// --- Plugins ---

type pluginConfigBody struct {
	Enabled  *bool             `json:"enabled"`
	Position *string           `json:"position" validate:"omitempty,oneof=top middle bottom"`
	Extra    map[string]string `json:"extra"`
}

type registerPluginRequest struct {
	ID       string            `json:"id" validate:"required"`
	Name     string            `json:"name" validate:"required"`
	Kind     string            `json:"kind" validate:"required,oneof=offer_banner newsletter_signup recently_viewed"`
	Enabled  bool              `json:"enabled"`
	Position string            `json:"position" validate:"required,oneof=top middle bottom"`
	Extra    map[string]string `json:"extra"`
}

func (r *registerPluginRequest) toPlugin() plugin.Plugin {
	return plugin.Plugin{
		ID:   r.ID,
		Name: r.Name,
		Kind: plugin.Kind(r.Kind),
		Config: plugin.Config{
			Enabled:  r.Enabled,
			Position: plugin.Position(r.Position),
			Extra:    r.Extra,
		},
	}
}

type pluginResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Kind     string            `json:"kind"`
	Enabled  bool              `json:"enabled"`
	Position string            `json:"position"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func toPluginResponses(plugins []plugin.Plugin) []pluginResponse {
	out := make([]pluginResponse, len(plugins))
	for i, p := range plugins {
		out[i] = pluginResponse{
			ID:       p.ID,
			Name:     p.Name,
			Kind:     string(p.Kind),
			Enabled:  p.Config.Enabled,
			Position: string(p.Config.Position),
			Extra:    p.Config.Extra,
		}
	}
	return out
}

// --- Notification ---

type notificationResponse struct {
	Show    bool   `json:"show"`
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
}
