package request

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Code    string  `json:"code" binding:"max=32"`
	Name    string  `json:"name" binding:"max=255"`
	TaxID   *string `json:"tax_id" binding:"omitempty,max=32"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=32"`
	Address *string `json:"address"`
}

// CustomerFilterRequest represents customer search parameters
type CustomerFilterRequest struct {
	Search string `form:"q"`
	Limit  int    `form:"limit"`
}
