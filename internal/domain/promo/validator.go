package promo

import (
	"github.com/bits-and-blooms/bloom/v3"
)

// Validator validates a promo code against the order items and returns the
// computed discount.
type Validator interface {
	Validate(code string, items []Item) (*Discount, error)
}

const bloomFPR = 0.001

// RuleSetValidator validates codes against a fixed in-memory rule set. A
// bloom filter over the known codes is consulted first, so the common case
// of a mistyped code is rejected without touching the rule map.
type RuleSetValidator struct {
	rules  map[string]*Rule
	filter *bloom.BloomFilter
}

// NewRuleSetValidator builds a validator over the given rules. Codes are
// matched case-insensitively.
func NewRuleSetValidator(rules []Rule) *RuleSetValidator {
	n := uint(len(rules))
	if n == 0 {
		n = 1
	}
	filter := bloom.NewWithEstimates(n, bloomFPR)

	byCode := make(map[string]*Rule, len(rules))
	for i := range rules {
		code := normalizeCode(rules[i].Code)
		byCode[code] = &rules[i]
		filter.AddString(code)
	}

	return &RuleSetValidator{
		rules:  byCode,
		filter: filter,
	}
}

// Validate looks up the rule for the given code and computes its discount.
// Unknown codes and orders that fail the rule's eligibility both return
// ErrInvalidCode.
func (v *RuleSetValidator) Validate(code string, items []Item) (*Discount, error) {
	code = normalizeCode(code)

	if !v.filter.TestString(code) {
		return nil, ErrInvalidCode
	}
	rule, ok := v.rules[code]
	if !ok {
		// Bloom false positive.
		return nil, ErrInvalidCode
	}

	d, err := Compute(rule, items)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
