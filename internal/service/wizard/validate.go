package wizard

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/flightclaim/internal/domain"
	"github.com/Domenick1991/flightclaim/internal/payment"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("cardnumber", func(fl validator.FieldLevel) bool {
		return payment.ValidNumber(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	v.RegisterStructValidationCtx(cardNotExpired, domain.CardInfo{})
	return v
}

type validationTimeKey struct{}

// cardNotExpired reports card.expiry_year when the card expired before the month of the
// validation time. Malformed month or year values are left to their field rules.
func cardNotExpired(ctx context.Context, sl validator.StructLevel) {
	now, ok := ctx.Value(validationTimeKey{}).(time.Time)
	if !ok {
		return
	}
	card, ok := sl.Current().Interface().(domain.CardInfo)
	if !ok {
		return
	}
	month, err := strconv.Atoi(card.ExpiryMonth)
	if err != nil || month < 1 || month > 12 {
		return
	}
	year, err := strconv.Atoi(card.ExpiryYear)
	if err != nil {
		return
	}
	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		sl.ReportError(card.ExpiryYear, "expiry_year", "ExpiryYear", "expired", "")
	}
}

func validateFlight(f domain.FlightInfo) error {
	return toValidationError(validate.Struct(f), "")
}

func validatePersonal(p domain.PersonalInfo, now time.Time) error {
	ctx := context.WithValue(context.Background(), validationTimeKey{}, now)

	var fields []FieldError
	if err := toValidationError(validate.StructCtx(ctx, p), ""); err != nil {
		fields = append(fields, err.(*ValidationError).Fields...)
	}
	if !p.SameAsPersonal {
		if err := toValidationError(validate.Struct(p.Billing), "billing_address"); err != nil {
			fields = append(fields, err.(*ValidationError).Fields...)
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// toValidationError returns nil or a *ValidationError; other validator failures are
// reported as a single field error on the struct itself.
func toValidationError(err error, prefix string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Fields: []FieldError{{Field: prefix, Rule: err.Error()}}}
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Namespace()
		// drop the root struct name
		if i := strings.Index(name, "."); i >= 0 {
			name = name[i+1:]
		}
		if prefix != "" {
			name = prefix + "." + name
		}
		fields = append(fields, FieldError{Field: name, Rule: fe.Tag()})
	}
	return &ValidationError{Fields: fields}
}
