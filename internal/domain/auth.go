package domain

// UserName holds the optional name parts of an account.
type UserName struct {
	First   string `json:"first,omitempty"`
	Last    string `json:"last,omitempty"`
	Display string `json:"display,omitempty"`
}

// UserInfo is the public view of an account. It is replaced wholesale on every fetch.
type UserInfo struct {
	ID      string   `json:"id"`
	LoginID string   `json:"login_id"`
	Email   string   `json:"email"`
	Name    UserName `json:"name"`
}

// TokenResponse is returned by login, register and refresh.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// LoginRequest payload.
type LoginRequest struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

// LoginResponse payload.
type LoginResponse struct {
	User   UserInfo      `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}

// RegisterRequest payload.
type RegisterRequest struct {
	LoginID  string   `json:"login_id"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Name     UserName `json:"name"`
}

// RegisterResponse payload.
type RegisterResponse struct {
	Message string        `json:"message"`
	User    UserInfo      `json:"user"`
	Tokens  TokenResponse `json:"tokens"`
}

// MeResponse payload.
type MeResponse struct {
	User  UserInfo `json:"user"`
	Roles []string `json:"roles"`
}

// MessageResponse is the acknowledgement body of mutating calls without a resource result.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
