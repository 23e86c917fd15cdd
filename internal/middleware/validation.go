package middleware

import (
	"fmt"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the ledger's custom binding rules to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("accounttype", validateAccountType)
}

// validateAccountType accepts any casing of the five account types.
func validateAccountType(fl validator.FieldLevel) bool {
	_, ok := domain.ParseAccountType(fl.Field().String())
	return ok
}
