package dashboard

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"StockDash/internal/model"
)

const (
	MinDays = 7
	MaxDays = 90
)

// Controls are the user's choices for one forecast action. There is no
// confidence-interval control: no computation would consume it.
type Controls struct {
	Ticker string       `validate:"required,ticker"`
	Days   int          `validate:"min=7,max=90"`
	Method model.Method `validate:"method"`
}

func newValidator(tickers []string) *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("ticker", func(fl validator.FieldLevel) bool {
		return slices.Contains(tickers, fl.Field().String())
	})
	_ = v.RegisterValidation("method", func(fl validator.FieldLevel) bool {
		return model.Method(fl.Field().Int()).Valid()
	})
	return v
}

// validationError turns validator output into an ErrInvalidControl with a
// message a user can act on.
func validationError(err error, tickers []string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", model.ErrInvalidControl, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "Ticker":
			msgs = append(msgs, fmt.Sprintf("ticker %q is not one of %s", fe.Value(), strings.Join(tickers, ", ")))
		case "Days":
			msgs = append(msgs, fmt.Sprintf("days must be between %d and %d, got %v", MinDays, MaxDays, fe.Value()))
		case "Method":
			msgs = append(msgs, "unknown forecast method")
		default:
			msgs = append(msgs, fe.Error())
		}
	}
	return fmt.Errorf("%w: %s", model.ErrInvalidControl, strings.Join(msgs, "; "))
}
