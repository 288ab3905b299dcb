package domain

// TokenPair is what login, OTP verification and refresh return.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"` // always "bearer"
	ExpiresIn    int64  `json:"expires_in"` // access token lifetime in seconds
}
