package handler

import "time"

// errorResponse documents the error envelope for swagger; the api package
// renders it.
type errorResponse struct {
	Message string `json:"message" example:"authentication required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type accountResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type loginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      accountResponse `json:"user"`
}

// --- Items ---

type itemRequest struct {
	Name     string  `json:"name"     validate:"required,max=200"`
	Category string  `json:"category" validate:"required,max=100"`
	Quantity int     `json:"quantity" validate:"gte=0,lte=2147483647"`
	Price    float64 `json:"price"    validate:"gte=0,lte=99999999.99"`
	Status   string  `json:"status"   validate:"omitempty,oneof='In Stock' 'Low Stock' 'Out of Stock'"`
}

type itemResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type summaryResponse struct {
	TotalItems    int     `json:"total_items"`
	TotalQuantity int     `json:"total_quantity"`
	TotalValue    float64 `json:"total_value"`
	LowStock      int     `json:"low_stock"`
	OutOfStock    int     `json:"out_of_stock"`
}
