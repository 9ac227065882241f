// Package api handles incoming HTTP requests, routing, request decoding,
// and response formatting. It acts as an adapter between API clients and
// the product service, translating HTTP concerns to catalog operations.
package api
