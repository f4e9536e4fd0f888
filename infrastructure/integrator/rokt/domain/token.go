package roktdomain

import "time"

// TokenResponse representa a resposta do endpoint OAuth2 da Rokt.
// ExpiresIn é ponteiro para distinguir ausência de zero.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   *int64 `json:"expires_in"`
}

// AccessToken é o par (valor, expiração) mantido em cache pelo TokenManager.
// ExpiresAt já considera a margem de segurança.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}

// ValidAt informa se o token pode ser usado no instante now
func (t *AccessToken) ValidAt(now time.Time) bool {
	return t != nil && t.Value != "" && now.Before(t.ExpiresAt)
}
