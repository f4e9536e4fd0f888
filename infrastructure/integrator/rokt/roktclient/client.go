package roktclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	roktdomain "github.com/vfg2006/rokt-tap/infrastructure/integrator/rokt/domain"
	"github.com/vfg2006/rokt-tap/internal/config"
	"github.com/vfg2006/rokt-tap/pkg/log"
	"github.com/vfg2006/rokt-tap/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// APIVersionPrefix é a raiz versionada da API de relatórios
const APIVersionPrefix = "/v1"

//go:generate mockgen -source=client.go -destination=../mocks/mock_client.go -package=mocks

type Client interface {
	Post(ctx context.Context, path string, body any) (roktdomain.Response, error)
	EnsureValidToken(ctx context.Context) (string, error)
	Close()
}

type RoktClient struct {
	apiBase      string
	httpClient   *http.Client
	TokenManager *TokenManager
	logger       log.Logger
}

// NewHTTPClient cria a sessão HTTP compartilhada entre a troca de token e as
// consultas. timeout é o prazo máximo de cada requisição.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

func NewClient(cfg config.Rokt, tokenManager *TokenManager, httpClient *http.Client, logger log.Logger) *RoktClient {
	if logger == nil {
		logger = log.L
	}

	return &RoktClient{
		apiBase:      strings.TrimRight(cfg.APIBase, "/"),
		httpClient:   httpClient,
		TokenManager: tokenManager,
		logger:       logger.WithField("component", "rokt_client"),
	}
}

// EnsureValidToken verifica se o token atual é válido e o renova se necessário
func (c *RoktClient) EnsureValidToken(ctx context.Context) (string, error) {
	return c.TokenManager.EnsureValidToken(ctx)
}

// NormalizePath garante que o caminho comece com /v1/ sem duplicar o prefixo
func NormalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path == APIVersionPrefix || strings.HasPrefix(path, APIVersionPrefix+"/") {
		return path
	}
	return APIVersionPrefix + path
}

// Post envia body como JSON para apiBase + path autenticado com Bearer token e
// retorna o JSON decodificado. Status fora de 2xx vira RequestError.
func (c *RoktClient) Post(ctx context.Context, path string, body any) (roktdomain.Response, error) {
	token, err := c.TokenManager.EnsureValidToken(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar corpo da requisição: %w", err)
	}

	url := c.apiBase + NormalizePath(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		c.logger.WithError(err).Error("Erro ao criar a requisição")
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.WithFields(log.Fields{
		"method": http.MethodPost,
		"url":    url,
	}).Info("Enviando requisição para a API da Rokt")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("Erro ao fazer a requisição")
		return nil, fmt.Errorf("erro ao fazer a requisição para %s: %w", url, err)
	}
	defer resp.Body.Close()

	return c.HandleResponse(resp, url, time.Since(startTime))
}

// HandleResponse lê o corpo, converte status de erro em RequestError e decodifica o JSON
func (c *RoktClient) HandleResponse(resp *http.Response, url string, elapsed time.Duration) (roktdomain.Response, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	c.logger.WithFields(log.Fields{
		"url":         url,
		"status_code": resp.StatusCode,
		"duration_ms": elapsed.Milliseconds(),
		"bytes":       len(raw),
	}).Info("Resposta recebida da API da Rokt")
	c.logger.Debugf("Corpo da resposta: %s", utils.Truncate(utils.PrettyJson(raw), 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &roktdomain.RequestError{
			Method:     http.MethodPost,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       utils.Truncate(string(raw), maxErrorBodyLength),
		}
	}

	var response roktdomain.Response
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, &roktdomain.MalformedResponseError{Reason: "corpo da resposta não é um objeto JSON", Cause: err}
	}
	if response == nil {
		return nil, &roktdomain.MalformedResponseError{Reason: "corpo da resposta vazio ou nulo"}
	}

	return response, nil
}

// Close libera as conexões ociosas da sessão HTTP ao fim da sincronização
func (c *RoktClient) Close() {
	c.httpClient.CloseIdleConnections()
}
