package domain

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// UnknownFieldMessage is reported for any field outside the writable set.
const UnknownFieldMessage = "Unknown validation error occurred."

// fieldRule pairs a validator tag with the message reported when it fails.
type fieldRule struct {
	tag     string
	message string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("price", validatePrice); err != nil {
		// ALLOW-PANIC: tag registration only fails on programming errors
		panic(err)
	}
	return v
}

// validatePrice accepts decimal literals, exponent forms included, whose
// magnitude fits a finite float64. SQLite keeps prices as REAL, so anything
// larger would be stored as infinity.
func validatePrice(fl validator.FieldLevel) bool {
	return IsValidPrice(fl.Field().String())
}

// IsValidPrice reports whether s is a price the catalog can store.
func IsValidPrice(s string) bool {
	if _, err := decimal.NewFromString(s); err != nil {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return !errors.Is(err, strconv.ErrRange)
}

var productRules = map[ProductField]fieldRule{
	FieldEANCodes: {
		tag:     "min=13",
		message: "EAN Code(s) can't be shorter than 13 digits.",
	},
	FieldName: {
		tag:     "required",
		message: "Product name can't be blank.",
	},
	FieldManufacturer: {
		tag:     "required",
		message: "Product manufacturer's name can't be blank.",
	},
	FieldCategory: {
		tag:     "required",
		message: "Product category can't be blank.",
	},
	FieldPrice: {
		tag:     "required,price",
		message: "Product price must be numeric value.",
	},
}

// ValidateProduct checks every field in changes, in the order the fields were
// supplied, and returns one message per violated rule. Rules do not short
// circuit. An empty result means the change set is valid.
func ValidateProduct(changes ProductChanges) []string {
	var messages []string

	for _, field := range changes.Keys() {
		rule, ok := productRules[field]
		if !ok {
			messages = append(messages, UnknownFieldMessage)
			continue
		}

		value, _ := changes.Value(field)
		if err := validate.Var(value, rule.tag); err != nil {
			messages = append(messages, rule.message)
		}
	}

	return messages
}

// ValidateProductChanges wraps ValidateProduct, returning a *ValidationError
// when any rule fails and nil otherwise.
func ValidateProductChanges(changes ProductChanges) error {
	if messages := ValidateProduct(changes); len(messages) > 0 {
		return NewValidationError(messages)
	}
	return nil
}
