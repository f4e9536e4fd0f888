package roktclient

import (
	"context"
	"net/http"
	"sync"
	"time"

	roktdomain "github.com/vfg2006/rokt-tap/infrastructure/integrator/rokt/domain"
	"github.com/vfg2006/rokt-tap/internal/config"
	"github.com/vfg2006/rokt-tap/pkg/clock"
	"github.com/vfg2006/rokt-tap/pkg/log"
)

// TokenManager gerencia o access token OAuth2 da Rokt. Leitura, verificação e
// renovação do token acontecem sob o mesmo mutex, então um único TokenManager
// pode ser compartilhado entre o agendador e disparos manuais.
type TokenManager struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client
	clock        clock.Clock
	logger       log.Logger

	mu    sync.Mutex
	token *roktdomain.AccessToken
}

// NewTokenManager cria uma nova instância do gerenciador de tokens
func NewTokenManager(cfg config.Rokt, httpClient *http.Client, clk clock.Clock, logger log.Logger) *TokenManager {
	if clk == nil {
		clk = clock.System()
	}
	if logger == nil {
		logger = log.L
	}

	return &TokenManager{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		tokenURL:     cfg.TokenURL,
		httpClient:   httpClient,
		clock:        clk,
		logger:       logger.WithField("component", "rokt_token_manager"),
	}
}

// EnsureValidToken retorna o token em cache enquanto now < expiresAt; caso
// contrário faz uma nova troca client_credentials e substitui o par inteiro
func (tm *TokenManager) EnsureValidToken(ctx context.Context) (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.token.ValidAt(tm.clock.Now()) {
		return tm.token.Value, nil
	}

	return tm.refreshTokenLocked(ctx)
}

// RefreshToken força a obtenção de um novo token
func (tm *TokenManager) RefreshToken(ctx context.Context) (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	return tm.refreshTokenLocked(ctx)
}

func (tm *TokenManager) refreshTokenLocked(ctx context.Context) (string, error) {
	if tm.token != nil {
		tm.logger.WithField("expired_at", tm.token.ExpiresAt.Format(time.RFC3339)).Debug("Token expirado, renovando")
	}

	// o par antigo é descartado antes da troca: se ela falhar a próxima
	// chamada recomeça do zero
	tm.token = nil

	tokenResp, err := RequestClientCredentialsToken(ctx, tm.httpClient, tm.tokenURL, tm.clientID, tm.clientSecret)
	if err != nil {
		tm.logger.WithError(err).Error("Erro ao obter access token da Rokt")
		return "", err
	}

	issuedAt := tm.clock.Now()
	tm.token = &roktdomain.AccessToken{
		Value:     tokenResp.AccessToken,
		ExpiresAt: CalculateTokenExpiration(issuedAt, tokenResp.ExpiresIn),
	}

	lifetime := DefaultTokenLifetimeSeconds
	if tokenResp.ExpiresIn != nil {
		lifetime = *tokenResp.ExpiresIn
	}
	tm.logger.WithFields(log.Fields{
		"expires_in": FormatDuration(lifetime),
		"expires_at": tm.token.ExpiresAt.Format(time.RFC3339),
	}).Info("Access token da Rokt obtido com sucesso")

	return tm.token.Value, nil
}

// Invalidate descarta o token em cache
func (tm *TokenManager) Invalidate() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.token = nil
}

// ExpiresAt retorna a expiração efetiva do token atual, ou zero se não houver token
func (tm *TokenManager) ExpiresAt() time.Time {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.token == nil {
		return time.Time{}
	}
	return tm.token.ExpiresAt
}
