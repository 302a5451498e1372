package handler

// Fixed response messages. Nothing about internal failures crosses the
// boundary, and login/refresh errors are deliberately indistinct.
const (
	errInternalServer      = "Internal server error"
	errUnauthorized        = "Unauthorized"
	errEmailTaken          = "Email already registered"
	errUsernameTaken       = "Username already taken"
	errPasswordTooLong     = "Password must be at most 72 bytes"
	errInvalidCredentials  = "Invalid credentials"
	errInvalidResetToken   = "Invalid or expired token"
	errUserNotFound        = "User not found"
	errEmailInUse          = "Email already in use"
	errCategoryExists      = "Category already exists"
	errCategoryNotFound    = "Category not found"
	errTransactionNotFound = "Transaction not found"
	errBudgetNotFound      = "Budget not found"
	errBudgetExists        = "Budget already exists for this category and month"
)
