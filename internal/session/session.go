// Package session ties the four stores together under one explicitly owned
// session object. Every mutation and read goes through the session mutex,
// so each operation is atomic from the caller's perspective and no reader
// can observe a half-updated derived field.
package session

import (
	"sync"

	"github.com/go-faster/errors"

	"github.com/stylehub/storefront/internal/domain/cart"
	"github.com/stylehub/storefront/internal/domain/catalog"
	"github.com/stylehub/storefront/internal/domain/checkout"
	"github.com/stylehub/storefront/internal/domain/plugin"
	"github.com/stylehub/storefront/internal/domain/promo"
)

// NotificationType classifies a transient user notification.
type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyInfo    NotificationType = "info"
	NotifyWarning NotificationType = "warning"
)

// Notification is the transient message record views render and dismiss.
type Notification struct {
	Show    bool
	Message string
	Type    NotificationType
}

// Config carries the per-session collaborators built once at startup.
type Config struct {
	// Products is the shared immutable catalog.
	Products []catalog.Product
	// Promos validates promo codes during checkout; nil disables them.
	Promos promo.Validator
	// Plugins are registered into every new session at creation.
	Plugins []plugin.Plugin
	// Checkout tunes the checkout flow (settle delay, clock, id source).
	Checkout checkout.FlowConfig
}

// Session owns one visitor's catalog view, cart, plugin registry and
// checkout flow. All state is in-memory and lives exactly as long as the
// session.
type Session struct {
	id string

	mu           sync.Mutex
	catalog      *catalog.Store
	cart         *cart.Cart
	plugins      *plugin.Registry
	flow         *checkout.Flow
	notification Notification
}

// New creates a session over the shared product set.
func New(id string, cfg Config) *Session {
	s := &Session{
		id:      id,
		catalog: catalog.NewStore(cfg.Products),
		cart:    cart.New(),
		plugins: plugin.NewRegistry(),
	}

	flowCfg := cfg.Checkout
	flowCfg.Promos = cfg.Promos
	// The settle callback re-acquires the session lock so settlement is
	// atomic with every other session mutation.
	flowCfg.Dispatch = func(fn func()) {
		s.mu.Lock()
		defer s.mu.Unlock()
		fn()
	}
	s.flow = checkout.NewFlow(s.cart, (*sessionNotifier)(s), flowCfg)

	for _, p := range cfg.Plugins {
		s.plugins.Register(p)
	}

	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Close tears the session down, cancelling any pending settlement.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flow.Stop()
}

// --- Catalog / filter intents ---

// Products returns the full catalog.
func (s *Session) Products() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Products()
}

// FilteredProducts returns the current derived filtered view.
func (s *Session) FilteredProducts() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Filtered()
}

// Filter returns the active filter.
func (s *Session) Filter() catalog.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Filter()
}

// FindProduct looks a product up by id.
func (s *Session) FindProduct(id string) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.catalog.FindByID(id)
	if p == nil {
		return nil, errors.Wrapf(catalog.ErrNotFound, "id %q", id)
	}
	return p, nil
}

// SetFilter merges the patch into the active filter.
func (s *Session) SetFilter(p catalog.FilterPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog.SetFilter(p)
}

// SetSearchQuery updates the search query.
func (s *Session) SetSearchQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog.SetSearchQuery(q)
}

// ClearFilters resets the filter.
func (s *Session) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog.ClearFilters()
}

// --- Cart intents ---

// AddToCart resolves the product and adds it to the cart.
func (s *Session) AddToCart(productID string, quantity int, color, size string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.catalog.FindByID(productID)
	if p == nil {
		return errors.Wrapf(catalog.ErrNotFound, "id %q", productID)
	}
	return s.cart.Add(p, quantity, color, size)
}

// RemoveFromCart removes the row at the given position.
func (s *Session) RemoveFromCart(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Remove(index)
}

// UpdateQuantity sets the row's quantity; zero or less removes the row.
func (s *Session) UpdateQuantity(index, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.SetQuantity(index, quantity)
}

// ClearCart empties the cart.
func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

// CartSnapshot returns the cart read model.
func (s *Session) CartSnapshot() cart.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

// --- Plugin intents ---

// RegisterPlugin upserts a plugin.
func (s *Session) RegisterPlugin(p plugin.Plugin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plugins.Register(p)
}

// UnregisterPlugin removes a plugin.
func (s *Session) UnregisterPlugin(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plugins.Unregister(id)
}

// TogglePlugin flips a plugin's enabled state.
func (s *Session) TogglePlugin(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plugins.Toggle(id)
}

// UpdatePluginConfig shallow-merges a config patch.
func (s *Session) UpdatePluginConfig(id string, patch plugin.ConfigPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plugins.UpdateConfig(id, patch)
}

// ActivePlugins returns the plugins active for the given render slot.
func (s *Session) ActivePlugins(pos plugin.Position) []plugin.Plugin {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plugins.ActiveFor(pos)
}

// Plugins returns all registered plugins.
func (s *Session) Plugins() []plugin.Plugin {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plugins.Plugins()
}

// --- Checkout intents ---

// CheckoutStep returns the flow's current step.
func (s *Session) CheckoutStep() checkout.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flow.Step()
}

// CheckoutGuard reports whether checkout may be entered with the current
// cart; an ErrEmptyCart result means "redirect to the cart view".
func (s *Session) CheckoutGuard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flow.Guard()
}

// SubmitShipping runs the shipping gate. A submit arriving after a
// completed checkout starts a fresh cycle, so a visitor who refills the
// cart can place another order in the same session.
func (s *Session) SubmitShipping(addr checkout.ShippingAddress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flow.Step() == checkout.StepCompleted {
		if err := s.flow.Reset(); err != nil {
			return err
		}
	}
	return s.flow.SubmitShipping(addr)
}

// SubmitPayment runs the payment gate and enters processing.
func (s *Session) SubmitPayment(method checkout.PaymentMethod, info checkout.PaymentInfo, promoCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flow.SubmitPayment(method, info, promoCode)
}

// BackToShipping returns from payment to shipping.
func (s *Session) BackToShipping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flow.Back()
}

// Order returns the completed order, or nil.
func (s *Session) Order() *checkout.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flow.Order()
}

// --- Notification ---

// Notification returns the current transient notification record.
func (s *Session) Notification() Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notification
}

// ShowNotification sets the transient notification.
func (s *Session) ShowNotification(t NotificationType, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notification = Notification{Show: true, Message: message, Type: t}
}

// HideNotification dismisses the notification.
func (s *Session) HideNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notification = Notification{}
}

// sessionNotifier adapts the session's notification record to the flow's
// Notifier port. The flow only runs while the session lock is held, so the
// writes happen lock-free on purpose.
type sessionNotifier Session

func (n *sessionNotifier) Success(message string) {
	n.notification = Notification{Show: true, Message: message, Type: NotifySuccess}
}

func (n *sessionNotifier) Error(message string) {
	n.notification = Notification{Show: true, Message: message, Type: NotifyError}
}
