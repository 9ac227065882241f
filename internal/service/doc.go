// Package service contains the application use cases. It orchestrates domain
// validation and the repositories defined in internal/store to implement the
// product catalog operations exposed by the API.
//
// Error handling principles:
//  1. Service methods return sentinel errors for expected conditions
//     (ErrProductNotFound, ErrNoChanges) and *domain.ValidationError for
//     rejected payloads.
//  2. Unexpected errors are wrapped in *ProductServiceError.
//  3. Callers use errors.Is/errors.As; the API layer maps them to HTTP statuses.
package service
