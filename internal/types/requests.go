package types

// CreateRecipeRequest is the POST /api/recipes body. Rating and Ingredients
// are decoded loosely on purpose: rating may arrive as a number or a numeric
// string and must distinguish "absent" from "present but zero", and a
// non-array ingredients value is normalized to an empty list rather than
// rejected. The service owns the coercion rules.
type CreateRecipeRequest struct {
	Title       string      `json:"title"`
	Caption     string      `json:"caption"`
	Image       string      `json:"image"`
	Rating      interface{} `json:"rating"`
	Ingredients interface{} `json:"ingredients"`
}

// RegisterRequest is the POST /api/auth/register body
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the POST /api/auth/login body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
