package identity

// AuthRequest is the body of register and login.
type AuthRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by login.
type AuthResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// RegisterResponse is returned by register.
type RegisterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
