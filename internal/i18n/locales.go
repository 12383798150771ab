// internal/i18n/locales.go
package i18n

var en = map[string]string{
	"success": "Success",
	"error":   "Error",

	"auth.required":            "Authentication required",
	"auth.invalid_token":       "Invalid authentication token",
	"auth.token_expired":       "Authentication token expired",
	"auth.invalid_credentials": "Invalid username or password",
	"auth.login_success":       "Logged in successfully",
	"admin.access_denied":      "Administrator access required",

	"validation.invalid": "Invalid %s",

	"collateral_type.created":     "Collateral type created",
	"collateral_type.updated":     "Collateral type updated",
	"collateral_type.deactivated": "Collateral type deactivated",
	"collateral_type.deleted":     "Collateral type deleted",
	"collateral_type.not_found":   "Collateral type not found",

	"collateral.registered":  "Collateral item registered",
	"collateral.valuated":    "Valuation recorded",
	"collateral.lien_placed": "Lien placed on collateral",
	"collateral.released":    "Collateral released",
	"collateral.liquidated":  "Collateral liquidated",
	"collateral.defaulted":   "Collateral marked as defaulted",
	"collateral.deleted":     "Collateral item deleted",
	"collateral.not_found":   "Collateral item not found",

	"insurance.added":     "Insurance policy added",
	"insurance.deleted":   "Insurance policy deleted",
	"insurance.updated":   "Insurance policy updated",
	"insurance.not_found": "Insurance policy not found",

	"loan.not_found": "Loan not found",
}

var sw = map[string]string{
	"success": "Imefanikiwa",
	"error":   "Hitilafu",

	"auth.required":            "Uthibitisho unahitajika",
	"auth.invalid_token":       "Tokeni ya uthibitisho si sahihi",
	"auth.token_expired":       "Tokeni ya uthibitisho imeisha muda",
	"auth.invalid_credentials": "Jina la mtumiaji au nenosiri si sahihi",
	"auth.login_success":       "Umeingia kwa mafanikio",
	"admin.access_denied":      "Huduma hii inahitaji msimamizi",

	"validation.invalid": "%s si sahihi",

	"collateral_type.created":     "Aina ya dhamana imeundwa",
	"collateral_type.updated":     "Aina ya dhamana imesasishwa",
	"collateral_type.deactivated": "Aina ya dhamana imezimwa",
	"collateral_type.deleted":     "Aina ya dhamana imefutwa",
	"collateral_type.not_found":   "Aina ya dhamana haipatikani",

	"collateral.registered":  "Dhamana imesajiliwa",
	"collateral.valuated":    "Thamani imerekodiwa",
	"collateral.lien_placed": "Dhamana imefungwa kwa mkopo",
	"collateral.released":    "Dhamana imeachiliwa",
	"collateral.liquidated":  "Dhamana imeuzwa",
	"collateral.defaulted":   "Dhamana imewekwa katika hali ya kushindwa kulipa",
	"collateral.deleted":     "Dhamana imefutwa",
	"collateral.not_found":   "Dhamana haipatikani",

	"insurance.added":     "Bima imeongezwa",
	"insurance.deleted":   "Bima imefutwa",
	"insurance.updated":   "Bima imesasishwa",
	"insurance.not_found": "Bima haipatikani",

	"loan.not_found": "Mkopo haupatikani",
}
