package order

import (
	"regexp"
	"sort"
	"strings"

	"github.com/morislaflame/clo-client/internal/domain"
)

// Form is what the checkout page collects before submission.
type Form struct {
	RecipientName  string
	RecipientPhone string
	RecipientEmail string
	Address        string
	PaymentMethod  domain.PaymentMethod
}

// ValidationErrors is a field-keyed error map. It implements error so the
// engine can return it without a separate result type; no network call is
// made when validation fails.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}

// Non-space segments around @ and a dotted domain. Deliberately loose; the
// server does full verification.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validate applies the client-side rules. Guest submissions additionally
// require phone and email, since the server has no account to pull them from.
func validate(form Form, guest bool) ValidationErrors {
	errs := ValidationErrors{}

	if strings.TrimSpace(form.RecipientName) == "" {
		errs["recipientName"] = "recipient name is required"
	}
	if !form.PaymentMethod.Valid() {
		errs["paymentMethod"] = "unknown payment method"
	}
	if guest {
		if strings.TrimSpace(form.RecipientPhone) == "" {
			errs["recipientPhone"] = "phone is required"
		}
		if !emailPattern.MatchString(form.RecipientEmail) {
			errs["recipientEmail"] = "valid email is required"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
