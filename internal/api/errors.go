package api

import "fmt"

// Client-facing messages. Store failures are always reported with one of the
// fixed "database error" messages; the cause only reaches the logs.
const (
	msgUnknownEndpoint  = "Unknown endpoint."
	msgUnknownRequest   = "Unknown request received."
	msgIDNotNumeric     = "Product ID must be numeric."
	msgNoProductData    = "No product data supplied in request."
	msgInvalidJSON      = "Product data must be a valid JSON object."
	msgValidationFailed = "Validation of product data failed."

	msgUpdateNeedsID = "Product ID must be supplied for update requests."
	msgDeleteNeedsID = "Product ID must be supplied for delete requests."

	msgListFailed   = "Could not return products due to database error."
	msgGetFailed    = "Could not return product due to database error."
	msgCreateFailed = "Product could not be created due to database error."
	msgUpdateFailed = "Product could not be updated due to database error."
	msgDeleteFailed = "Product could not be deleted due to database error."
)

func msgProductNotFound(id string) string {
	return fmt.Sprintf("Could not find product with ID %s in database.", id)
}

func msgUpdateNotFound(id string) string {
	return fmt.Sprintf("Product with ID %s could not be updated.", id)
}

func msgDeleteNotFound(id string) string {
	return fmt.Sprintf("Product with ID %s could not be deleted.", id)
}

func msgDeleted(id string) string {
	return fmt.Sprintf("Product with ID %s successfully deleted.", id)
}
