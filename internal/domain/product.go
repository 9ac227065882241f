package domain

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// ProductField names a writable product attribute by its JSON key.
type ProductField string

// Writable product fields.
const (
	FieldEANCodes     ProductField = "productEANCodes"
	FieldName         ProductField = "productName"
	FieldManufacturer ProductField = "productManufacturer"
	FieldCategory     ProductField = "productCategory"
	FieldPrice        ProductField = "productPrice"
)

// ProductFields lists the writable fields in schema order.
var ProductFields = []ProductField{
	FieldEANCodes,
	FieldName,
	FieldManufacturer,
	FieldCategory,
	FieldPrice,
}

// Known reports whether f is one of the writable product fields.
func (f ProductField) Known() bool {
	return slices.Contains(ProductFields, f)
}

// Product is a catalog entry as persisted by the store.
// The ID is assigned by the store and never changes.
type Product struct {
	ID           int64
	EANCodes     string
	Name         string
	Manufacturer string
	Category     string
	Price        decimal.Decimal
}

// ProductChanges is a set of product field values, each independently
// present or absent. It remembers the order in which fields were set,
// including fields that are not writable, so validation can report
// problems in the order the client supplied them.
type ProductChanges struct {
	EANCodes     *string
	Name         *string
	Manufacturer *string
	Category     *string
	Price        *string

	keys []ProductField
}

// Set records a value for field. Setting a field twice keeps its original
// position and replaces the value. Unknown fields are only recorded by name.
func (c *ProductChanges) Set(field ProductField, value string) {
	if !slices.Contains(c.keys, field) {
		c.keys = append(c.keys, field)
	}

	v := value
	switch field {
	case FieldEANCodes:
		c.EANCodes = &v
	case FieldName:
		c.Name = &v
	case FieldManufacturer:
		c.Manufacturer = &v
	case FieldCategory:
		c.Category = &v
	case FieldPrice:
		c.Price = &v
	}
}

// Value returns the value of a writable field and whether it was set.
func (c ProductChanges) Value(field ProductField) (string, bool) {
	var p *string
	switch field {
	case FieldEANCodes:
		p = c.EANCodes
	case FieldName:
		p = c.Name
	case FieldManufacturer:
		p = c.Manufacturer
	case FieldCategory:
		p = c.Category
	case FieldPrice:
		p = c.Price
	}
	if p == nil {
		return "", false
	}
	return *p, true
}

// Keys returns the fields in the order they were first set.
func (c ProductChanges) Keys() []ProductField {
	return slices.Clone(c.keys)
}

// Len returns the number of distinct fields that were set.
func (c ProductChanges) Len() int {
	return len(c.keys)
}

// Complete returns a change set holding exactly the writable fields in schema
// order. Fields that were not set become empty strings and unknown fields are
// dropped. It is the shape used to create a product.
func (c ProductChanges) Complete() ProductChanges {
	var full ProductChanges
	for _, field := range ProductFields {
		value, _ := c.Value(field)
		full.Set(field, value)
	}
	return full
}

// PriceDecimal parses the price value. It fails when the price is absent or
// not a price IsValidPrice accepts.
func (c ProductChanges) PriceDecimal() (decimal.Decimal, error) {
	if c.Price == nil {
		return decimal.Zero, fmt.Errorf("%w: price not set", ErrInvalidPrice)
	}

	price, err := decimal.NewFromString(*c.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidPrice, err)
	}
	if !IsValidPrice(*c.Price) {
		return decimal.Zero, fmt.Errorf("%w: %q is out of range", ErrInvalidPrice, *c.Price)
	}
	return price, nil
}

// NewProductChanges builds a change set from a fully populated product, in
// schema order. It is mostly useful for seeding and tests.
func NewProductChanges(eanCodes, name, manufacturer, category string, price decimal.Decimal) ProductChanges {
	var c ProductChanges
	c.Set(FieldEANCodes, eanCodes)
	c.Set(FieldName, name)
	c.Set(FieldManufacturer, manufacturer)
	c.Set(FieldCategory, category)
	c.Set(FieldPrice, price.String())
	return c
}
