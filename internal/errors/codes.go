package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// Frontends map these codes to localized messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // code does not match
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // JWT expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed or tampered JWT
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token blacklisted by logout
	AuthCodeInvalid        = "AUTH_CODE_INVALID"        // wrong verification code
	AuthCodeExpired        = "AUTH_CODE_EXPIRED"        // verification code expired
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email
	AuthPhoneAlreadyExists = "AUTH_PHONE_EXISTS"        // duplicate phone
	AuthAccountRestricted  = "AUTH_ACCOUNT_RESTRICTED"  // blocked/disabled/suspended account

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // no access
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED"  // no permission for operation
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // role info missing from token
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // admin-only endpoint
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // resource owner only

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed request body
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // non-numeric or missing ID
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // wrong field format
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // out of range
	ValidationRequired      = "VALIDATION_REQUIRED"       // required field missing

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"       // generic missing resource
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"  // generic duplicate
	ResourceConflict      = "RESOURCE_CONFLICT"        // state conflict

	// ==================== Seller (SELLER_) ====================
	SellerNotFound            = "SELLER_NOT_FOUND"             // no seller profile
	SellerAlreadyApplied      = "SELLER_ALREADY_APPLIED"       // application already exists
	SellerNotApproved         = "SELLER_NOT_APPROVED"          // profile not in approved state
	SellerNotRejected         = "SELLER_NOT_REJECTED"          // resubmission requires rejected state
	SellerGSTNumberExists     = "SELLER_GST_NUMBER_EXISTS"     // duplicate GST number
	SellerStoreSlugExists     = "SELLER_STORE_SLUG_EXISTS"     // duplicate store slug
	SellerInvalidStatus       = "SELLER_INVALID_STATUS"        // unknown target status
	SellerApplicationDeleted  = "SELLER_APPLICATION_DELETED"   // application withdrawn

	// ==================== Cart (CART_) ====================
	CartNotFound            = "CART_NOT_FOUND"             // cart missing
	CartItemNotFound        = "CART_ITEM_NOT_FOUND"        // line item missing
	CartInvalidQuantity     = "CART_INVALID_QUANTITY"      // quantity < 1
	CartInvalidTransition   = "CART_INVALID_TRANSITION"    // disallowed status change
	CartAlreadyActive       = "CART_ALREADY_ACTIVE"        // user already has an active cart

	// ==================== Wishlist (WISHLIST_) ====================
	WishlistNotFound = "WISHLIST_NOT_FOUND" // wishlist entry missing

	// ==================== Product (PRODUCT_) ====================
	ProductNotFound     = "PRODUCT_NOT_FOUND"      // product missing
	ProductSKUExists    = "PRODUCT_SKU_EXISTS"     // duplicate SKU
	ProductOutOfStock   = "PRODUCT_OUT_OF_STOCK"   // requested qty exceeds stock
	ProductInactive     = "PRODUCT_INACTIVE"       // product delisted

	// ==================== Category (CATEGORY_) ====================
	CategoryNotFound   = "CATEGORY_NOT_FOUND"    // category missing
	CategorySlugExists = "CATEGORY_SLUG_EXISTS"  // duplicate category slug

	// ==================== Address (ADDRESS_) ====================
	AddressNotFound = "ADDRESS_NOT_FOUND" // address missing

	// ==================== Review (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"       // review missing
	ReviewInvalidRating = "REVIEW_INVALID_RATING"  // rating outside 1-5
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS"  // one review per product per user

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // unsupported content type
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // exceeds size limit
	UploadFailed          = "UPLOAD_FAILED"            // storage error

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // generic server error
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB error
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // downstream service error
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"   // configuration error
)
