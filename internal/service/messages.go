package service

// Result messages returned to clients. Clients may match on these, keep them stable.
const (
	MsgOperationSucceeded  = "Operation completed successfully"
	MsgProductCreated      = "Product created successfully"
	MsgProductUpdated      = "Product updated successfully"
	MsgProductDeleted      = "Product deleted successfully"
	MsgProductNotFound     = "Product not found"
	MsgProductStockUpdated = "Product stock updated successfully"
	MsgProductActivated    = "Product activated successfully"
	MsgProductDeactivated  = "Product deactivated successfully"
	MsgCategoryNotFound    = "Category not found"
	MsgCategoryExists      = "Category with this name already exists"
	MsgCategoryHasProducts = "Cannot delete category that contains products"
	MsgValidationFailed    = "Validation failed"
	MsgBadRequest          = "Bad request"
	MsgInternalServerError = "An internal server error occurred"
	MsgResourceNotFound    = "Resource not found"
)

// Validation messages.
const (
	MsgProductNameRequired        = "Product name is required"
	MsgProductNameTooLong         = "Product name cannot exceed 200 characters"
	MsgProductDescriptionRequired = "Product description is required"
	MsgProductDescriptionTooLong  = "Product description cannot exceed 1000 characters"
	MsgProductPricePositive       = "Product price must be greater than 0"
	MsgProductPricePrecision      = "Product price cannot have more than 2 decimal places"
	MsgProductPriceTooLarge       = "Product price must be less than 10000000000000000"
	MsgCurrencyRequired           = "Currency is required"
	MsgCurrencyLength             = "Currency must be 3 characters long"
	MsgCurrencyLetters            = "Currency must contain only letters"
	MsgStockNegative              = "Stock cannot be negative"
	MsgCategoryIDRequired         = "Valid category ID is required"
	MsgProductIDRequired          = "Valid product ID is required"
)
