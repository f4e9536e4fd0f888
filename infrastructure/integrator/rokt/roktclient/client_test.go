package roktclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	roktdomain "github.com/vfg2006/rokt-tap/infrastructure/integrator/rokt/domain"
	"github.com/vfg2006/rokt-tap/internal/config"
	"github.com/vfg2006/rokt-tap/pkg/clock"
	"github.com/vfg2006/rokt-tap/pkg/log"
)

// fakeRokt simula o endpoint de token e a API de relatórios no mesmo servidor
type fakeRokt struct {
	*httptest.Server
	tokenCalls atomic.Int32
	apiCalls   atomic.Int32
	tokenFn    func(w http.ResponseWriter, r *http.Request)
	apiFn      func(w http.ResponseWriter, r *http.Request)
}

func newFakeRokt(t *testing.T) *fakeRokt {
	t.Helper()
	f := &fakeRokt{
		tokenFn: func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"access_token":"tok","expires_in":3600}`)
		},
		apiFn: func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data":[]}`)
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		f.tokenFn(w, r)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		f.apiCalls.Add(1)
		f.apiFn(w, r)
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeRokt) newClient() *RoktClient {
	cfg := config.Rokt{
		ClientID:     "id",
		ClientSecret: "secret",
		TokenURL:     f.URL + "/auth/oauth2/token",
		APIBase:      f.URL + "/",
	}
	httpClient := NewHTTPClient(5 * time.Second)
	tm := NewTokenManager(cfg, httpClient, clock.NewFake(issuedAt), log.Discard())
	return NewClient(cfg, tm, httpClient, log.Discard())
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "/query/accounts/A1/campaigns/", expected: "/v1/query/accounts/A1/campaigns/"},
		{input: "/v1/query/accounts/A1/campaigns/", expected: "/v1/query/accounts/A1/campaigns/"},
		{input: "query/accounts", expected: "/v1/query/accounts"},
		{input: "/v10/query", expected: "/v1/v10/query"},
		{input: "/v1", expected: "/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePath(tt.input))
		})
	}
}

func TestPost_EnviaBearerEJSON(t *testing.T) {
	f := newFakeRokt(t)
	f.apiFn = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/query/accounts/A1/campaigns/", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"interval":"day"}`, string(body))

		fmt.Fprint(w, `{"data":[{"campaign_id":"c1"}],"meta":{"total":1}}`)
	}

	client := f.newClient()
	resp, err := client.Post(context.Background(), "/query/accounts/A1/campaigns/", map[string]string{"interval": "day"})
	require.NoError(t, err)

	data, ok := resp["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 1)
	assert.Equal(t, int32(1), f.tokenCalls.Load())
}

func TestPost_CaminhoJaPrefixadoNaoDuplica(t *testing.T) {
	f := newFakeRokt(t)
	var path string
	f.apiFn = func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		fmt.Fprint(w, `{}`)
	}

	_, err := f.newClient().Post(context.Background(), "/v1/query/x", nil)
	require.NoError(t, err)
	assert.Equal(t, "/v1/query/x", path)
}

func TestPost_ReusaTokenEntreRequisicoes(t *testing.T) {
	f := newFakeRokt(t)
	client := f.newClient()

	for i := 0; i < 3; i++ {
		_, err := client.Post(context.Background(), "/query", nil)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), f.tokenCalls.Load())
	assert.Equal(t, int32(3), f.apiCalls.Load())
}

func TestPost_FalhaDeAutenticacaoNaoChamaAPI(t *testing.T) {
	f := newFakeRokt(t)
	f.tokenFn = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"invalid_client"}`)
	}

	_, err := f.newClient().Post(context.Background(), "/query/accounts/A1/campaigns/", nil)

	var authErr *roktdomain.AuthenticationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Equal(t, int32(0), f.apiCalls.Load())
}

func TestPost_StatusDeErroViraRequestError(t *testing.T) {
	f := newFakeRokt(t)
	f.apiFn = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message":"invalid metric"}`)
	}

	_, err := f.newClient().Post(context.Background(), "/query", nil)

	var reqErr *roktdomain.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusBadRequest, reqErr.StatusCode)
	assert.Contains(t, reqErr.Body, "invalid metric")
	assert.Equal(t, f.URL+"/v1/query", reqErr.URL)
}

func TestPost_CorpoInvalido(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "não é JSON", body: `<html>`},
		{name: "array no topo", body: `[1,2]`},
		{name: "nulo", body: `null`},
		{name: "vazio", body: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeRokt(t)
			f.apiFn = func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}

			_, err := f.newClient().Post(context.Background(), "/query", nil)

			var malformed *roktdomain.MalformedResponseError
			assert.True(t, errors.As(err, &malformed), "erro obtido: %v", err)
		})
	}
}

func TestPost_ContextoCancelado(t *testing.T) {
	f := newFakeRokt(t)
	client := f.newClient()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Post(ctx, "/query", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
