package order

import (
	"errors"
	"strings"
	"sync"

	"storefront/domain/order"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the "ordercode" rule to gin's validator
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("ordercode", func(fl validator.FieldLevel) bool {
				return order.IsValidCode(fl.Field().String())
			})
		}
	})
}

// fieldErrors flattens validator errors into field -> rule, keyed by the
// struct namespace without the root type (items[0].Quantity).
func fieldErrors(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		out[ns] = fe.Tag()
	}
	return out
}
