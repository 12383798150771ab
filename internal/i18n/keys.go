// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAdminAccessDenied      = "admin.access_denied"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// Collateral types
	KeyTypeCreated     = "collateral_type.created"
	KeyTypeUpdated     = "collateral_type.updated"
	KeyTypeDeactivated = "collateral_type.deactivated"
	KeyTypeDeleted     = "collateral_type.deleted"
	KeyTypeNotFound    = "collateral_type.not_found"

	// Collateral items
	KeyCollateralRegistered = "collateral.registered"
	KeyCollateralValuated   = "collateral.valuated"
	KeyCollateralLienPlaced = "collateral.lien_placed"
	KeyCollateralReleased   = "collateral.released"
	KeyCollateralLiquidated = "collateral.liquidated"
	KeyCollateralDefaulted  = "collateral.defaulted"
	KeyCollateralDeleted    = "collateral.deleted"
	KeyCollateralNotFound   = "collateral.not_found"

	// Insurance policies
	KeyPolicyAdded    = "insurance.added"
	KeyPolicyDeleted  = "insurance.deleted"
	KeyPolicyUpdated  = "insurance.updated"
	KeyPolicyNotFound = "insurance.not_found"

	// Loans (boundary)
	KeyLoanNotFound = "loan.not_found"
)
