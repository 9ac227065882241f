// Package domain contains the core business entities of the product API:
// products, the partial change sets used to write them, API users, and the
// field validation rules applied before anything reaches the store.
package domain
