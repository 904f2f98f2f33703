// Package checkout implements the two-step checkout flow: shipping and
// payment forms gated by validation, a simulated asynchronous settlement,
// and the terminal order record.
package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stylehub/storefront/internal/domain/cart"
	"github.com/stylehub/storefront/internal/domain/promo"
)

// Step identifies the current position in the checkout flow.
type Step string

const (
	StepShipping   Step = "shipping"
	StepPayment    Step = "payment"
	StepProcessing Step = "processing"
	StepCompleted  Step = "completed"
)

// PaymentMethod enumerates the accepted payment methods.
type PaymentMethod string

const (
	MethodCreditCard PaymentMethod = "credit_card"
	MethodPayPal     PaymentMethod = "paypal"
	MethodCOD        PaymentMethod = "cod"
)

// OrderStatus is the lifecycle status recorded on an order.
type OrderStatus string

const (
	StatusCompleted OrderStatus = "completed"
)

// Sentinel errors for flow misuse and guards.
var (
	// ErrEmptyCart means the flow was entered (or advanced) with nothing in
	// the cart; callers recover by redirecting to the cart view.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidTransition means the requested event is not defined for the
	// current step.
	ErrInvalidTransition = errors.New("invalid checkout transition")
	// ErrSettleInProgress means a submission arrived while settlement is
	// already pending.
	ErrSettleInProgress = errors.New("payment settlement in progress")
	// ErrUnsupportedMethod means the payment method is not one of the
	// accepted values.
	ErrUnsupportedMethod = errors.New("unsupported payment method")
)

// ValidationError reports which required fields failed a step's gate. The
// flow stays on the current step and a user-visible notification has
// already been emitted when this is returned.
type ValidationError struct {
	Step   Step
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s step: invalid fields: %s", e.Step, strings.Join(e.Fields, ", "))
}

// ShippingAddress is the shipping-step payload. Only FullName, Address and
// City gate the transition; the rest is collected as-is.
type ShippingAddress struct {
	FullName string
	Address  string
	City     string
	State    string
	ZipCode  string
	Country  string
	Phone    string
}

// PaymentInfo is the card form payload, only required for credit cards.
type PaymentInfo struct {
	CardNumber string
	CardName   string
	ExpiryDate string
	CVV        string
}

// Order is the write-once record produced by a completed checkout.
type Order struct {
	ID              string
	Items           []cart.LineItem
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal
	PromoCode       string
	Total           decimal.Decimal
	Status          OrderStatus
	CreatedAt       time.Time
}

// CartPort is the slice of the cart engine the flow needs.
type CartPort interface {
	Snapshot() cart.Snapshot
	Clear()
}

// Notifier receives the user-visible messages the flow emits.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// FlowConfig tunes a Flow. Zero values fall back to production defaults.
type FlowConfig struct {
	// Promos validates promo codes entered on the payment step. Nil
	// disables promo support.
	Promos promo.Validator
	// SettleDelay is the simulated settlement latency.
	SettleDelay time.Duration
	// Now is the clock used for order timestamps and card expiry checks.
	Now func() time.Time
	// NewOrderID generates order identifiers.
	NewOrderID func() string
	// Dispatch runs the deferred settle callback. The owning session
	// installs a dispatcher that re-acquires its lock so settlement is
	// atomic with any other session mutation.
	Dispatch func(fn func())
	// OnComplete is invoked with the finished order after settlement, for
	// handing the order id to the confirmation view.
	OnComplete func(*Order)
}

const defaultSettleDelay = 2500 * time.Millisecond

// Flow is the checkout state machine. It is not safe for concurrent use on
// its own; the owning session serializes all calls, including the deferred
// settle dispatch.
type Flow struct {
	cart   CartPort
	notify Notifier
	cfg    FlowConfig

	step      Step
	shipping  ShippingAddress
	method    PaymentMethod
	promoCode string
	order     *Order

	settleTimer *time.Timer
	closed      bool
}

// NewFlow creates a Flow starting at the shipping step.
func NewFlow(c CartPort, n Notifier, cfg FlowConfig) *Flow {
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = defaultSettleDelay
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewOrderID == nil {
		cfg.NewOrderID = func() string { return "ORD-" + uuid.New().String() }
	}
	if cfg.Dispatch == nil {
		cfg.Dispatch = func(fn func()) { fn() }
	}
	return &Flow{
		cart:   c,
		notify: n,
		cfg:    cfg,
		step:   StepShipping,
	}
}

// Step returns the current step.
func (f *Flow) Step() Step {
	return f.step
}

// Shipping returns the collected shipping address.
func (f *Flow) Shipping() ShippingAddress {
	return f.shipping
}

// Order returns the completed order, or nil before settlement.
func (f *Flow) Order() *Order {
	return f.order
}

// Guard reports whether the flow may be entered or advanced: an empty cart
// on the form steps must bounce back to the cart view. Processing and the
// completed confirmation run after the cart has been drained, so they pass.
func (f *Flow) Guard() error {
	switch f.step {
	case StepProcessing, StepCompleted:
		return nil
	}
	if f.cart.Snapshot().ItemCount == 0 {
		return ErrEmptyCart
	}
	return nil
}

// SubmitShipping validates the shipping gate and advances to the payment
// step. On a validation failure the flow stays on shipping and an error
// notification is emitted.
func (f *Flow) SubmitShipping(addr ShippingAddress) error {
	if f.step != StepShipping {
		return errors.Wrapf(ErrInvalidTransition, "submit shipping from %s", f.step)
	}
	if err := f.Guard(); err != nil {
		return err
	}

	var missing []string
	if strings.TrimSpace(addr.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(addr.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(addr.City) == "" {
		missing = append(missing, "city")
	}
	if len(missing) > 0 {
		f.notify.Error("Please fill in all required fields")
		return &ValidationError{Step: StepShipping, Fields: missing}
	}

	f.shipping = addr
	f.step = StepPayment
	return nil
}

// Reset starts a new checkout cycle after a completed one: the flow
// returns to the shipping step with blank forms. The finished order stays
// readable until the next settlement replaces it, so the confirmation view
// keeps working while the visitor shops again.
func (f *Flow) Reset() error {
	if f.step != StepCompleted {
		return errors.Wrapf(ErrInvalidTransition, "reset from %s", f.step)
	}
	f.shipping = ShippingAddress{}
	f.method = ""
	f.promoCode = ""
	f.step = StepShipping
	return nil
}

// Back returns from the payment step to shipping. Entered payment fields
// are transient and not preserved; the form is reset on re-entry.
func (f *Flow) Back() error {
	if f.step != StepPayment {
		return errors.Wrapf(ErrInvalidTransition, "back from %s", f.step)
	}
	f.method = ""
	f.promoCode = ""
	f.step = StepShipping
	return nil
}

// SubmitPayment validates the method-specific payment gate, then enters
// processing and schedules the asynchronous settlement. Re-entrant
// submissions while settlement is pending are rejected.
func (f *Flow) SubmitPayment(method PaymentMethod, info PaymentInfo, promoCode string) error {
	if f.step == StepProcessing {
		return ErrSettleInProgress
	}
	if f.step != StepPayment {
		return errors.Wrapf(ErrInvalidTransition, "submit payment from %s", f.step)
	}
	if err := f.Guard(); err != nil {
		return err
	}

	switch method {
	case MethodCreditCard:
		if err := f.validateCard(info); err != nil {
			return err
		}
	case MethodPayPal, MethodCOD:
		// No extra fields required.
	default:
		return errors.Wrapf(ErrUnsupportedMethod, "%q", method)
	}

	if promoCode != "" {
		if f.cfg.Promos == nil {
			f.notify.Error("Promo codes are not available")
			return promo.ErrInvalidCode
		}
		if _, err := f.cfg.Promos.Validate(promoCode, f.promoItems()); err != nil {
			f.notify.Error("Invalid promo code")
			return err
		}
	}

	f.method = method
	f.promoCode = promoCode
	f.step = StepProcessing
	f.settleTimer = time.AfterFunc(f.cfg.SettleDelay, func() {
		f.cfg.Dispatch(f.settle)
	})
	return nil
}

// validateCard checks presence of all four card fields, then runs the card
// validators: Luhn on the number, MM/YY window on the expiry, brand-aware
// CVV length.
func (f *Flow) validateCard(info PaymentInfo) error {
	var missing []string
	if strings.TrimSpace(info.CardNumber) == "" {
		missing = append(missing, "cardNumber")
	}
	if strings.TrimSpace(info.CardName) == "" {
		missing = append(missing, "cardName")
	}
	if strings.TrimSpace(info.ExpiryDate) == "" {
		missing = append(missing, "expiryDate")
	}
	if strings.TrimSpace(info.CVV) == "" {
		missing = append(missing, "cvv")
	}
	if len(missing) > 0 {
		f.notify.Error("Please fill in all payment details")
		return &ValidationError{Step: StepPayment, Fields: missing}
	}

	var invalid []string
	if !ValidCardNumber(info.CardNumber) {
		invalid = append(invalid, "cardNumber")
	}
	if !ValidExpiry(info.ExpiryDate, f.cfg.Now()) {
		invalid = append(invalid, "expiryDate")
	}
	if !ValidCVV(info.CVV, DetectCardBrand(info.CardNumber)) {
		invalid = append(invalid, "cvv")
	}
	if len(invalid) > 0 {
		f.notify.Error("Please check your card details")
		return &ValidationError{Step: StepPayment, Fields: invalid}
	}
	return nil
}

// settle completes the pending payment: it snapshots the cart into a
// write-once order, clears the cart, emits the success notification, and
// moves to the completed step. Runs via the configured dispatcher.
func (f *Flow) settle() {
	if f.closed || f.step != StepProcessing {
		return
	}

	snap := f.cart.Snapshot()
	subtotal := snap.Total
	discount := decimal.Zero
	if f.promoCode != "" && f.cfg.Promos != nil {
		if d, err := f.cfg.Promos.Validate(f.promoCode, f.promoItems()); err == nil {
			discount = d.Amount
		}
	}
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	f.order = &Order{
		ID:              f.cfg.NewOrderID(),
		Items:           snap.Items,
		ShippingAddress: f.shipping,
		PaymentMethod:   f.method,
		Subtotal:        subtotal,
		Discount:        discount,
		PromoCode:       f.promoCode,
		Total:           total.Round(2),
		Status:          StatusCompleted,
		CreatedAt:       f.cfg.Now(),
	}

	f.cart.Clear()
	f.step = StepCompleted
	f.notify.Success("Order placed successfully!")

	if f.cfg.OnComplete != nil {
		f.cfg.OnComplete(f.order)
	}
}

// promoItems converts the current cart snapshot into promo line items
// priced at the effective product price.
func (f *Flow) promoItems() []promo.Item {
	snap := f.cart.Snapshot()
	items := make([]promo.Item, len(snap.Items))
	for i := range snap.Items {
		items[i] = promo.Item{
			ProductID: snap.Items[i].Product.ID,
			Price:     snap.Items[i].Product.EffectivePrice(),
			Quantity:  snap.Items[i].Quantity,
		}
	}
	return items
}

// Stop is the view-teardown hook: it cancels any pending settlement so a
// result is never acted on after the initiating view is gone.
func (f *Flow) Stop() {
	f.closed = true
	if f.settleTimer != nil {
		f.settleTimer.Stop()
		f.settleTimer = nil
	}
}
