package roktclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	roktdomain "github.com/vfg2006/rokt-tap/infrastructure/integrator/rokt/domain"
	"github.com/vfg2006/rokt-tap/pkg/utils"
)

const (
	// DefaultTokenLifetimeSeconds é usado quando a resposta não traz expires_in
	DefaultTokenLifetimeSeconds int64 = 3600

	// TokenExpiryMarginSeconds é descontado do tempo de vida informado pelo
	// servidor para renovar o token antes que ele seja rejeitado
	TokenExpiryMarginSeconds int64 = 60

	maxErrorBodyLength = 2048
)

// RequestClientCredentialsToken troca client_id/client_secret por um access
// token usando o grant client_credentials com autenticação HTTP Basic
func RequestClientCredentialsToken(ctx context.Context, httpClient *http.Client, tokenURL, clientID, clientSecret string) (*roktdomain.TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &roktdomain.AuthenticationError{Reason: "erro ao criar a requisição de token", Cause: err}
	}
	req.SetBasicAuth(clientID, clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &roktdomain.AuthenticationError{Reason: "erro ao obter token", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &roktdomain.AuthenticationError{Reason: "erro ao ler resposta do token", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &roktdomain.AuthenticationError{
			StatusCode: resp.StatusCode,
			Body:       utils.Truncate(string(body), maxErrorBodyLength),
		}
	}

	var tokenResp roktdomain.TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, &roktdomain.AuthenticationError{Reason: "erro ao decodificar resposta do token", Cause: err}
	}

	if tokenResp.AccessToken == "" {
		return nil, &roktdomain.AuthenticationError{Reason: "resposta do endpoint de token sem access_token"}
	}

	return &tokenResp, nil
}

// CalculateTokenExpiration calcula a expiração efetiva: issuedAt + expires_in - 60s.
// expires_in ausente vale 3600; tempos de vida menores que a margem resultam
// em expiração imediata, e o token só serve para a requisição corrente.
func CalculateTokenExpiration(issuedAt time.Time, expiresIn *int64) time.Time {
	lifetime := DefaultTokenLifetimeSeconds
	if expiresIn != nil {
		lifetime = *expiresIn
	}

	safeLifetime := lifetime - TokenExpiryMarginSeconds
	if safeLifetime < 0 {
		safeLifetime = 0
	}

	return issuedAt.Add(time.Duration(safeLifetime) * time.Second)
}

// FormatDuration formata a duração em segundos para um formato legível
func FormatDuration(seconds int64) string {
	duration := time.Duration(seconds) * time.Second
	hours := duration / time.Hour
	minutes := (duration % time.Hour) / time.Minute
	secs := (duration % time.Minute) / time.Second

	return fmt.Sprintf("%dh%02dm%02ds", hours, minutes, secs)
}
