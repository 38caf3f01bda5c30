package csrf

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paineladmin/api-usuarios/internal/apperrors"
)

const segredoTeste = "segredo-de-teste"

func novaRequisicao(t *testing.T, token, origin, host, referer string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "http://"+host+"/usuarios", strings.NewReader("{}"))
	r.Host = host
	if token != "" {
		r.Header.Set(HeaderToken, token)
	}
	if origin != "" {
		r.Header.Set("Origin", origin)
	}
	if referer != "" {
		r.Header.Set("Referer", referer)
	}
	return r
}

func TestGuardAceitaOrigemPropria(t *testing.T) {
	tokens := NewTokens(segredoTeste)
	guard := NewGuard(tokens)

	token, err := tokens.Gerar()
	require.NoError(t, err)

	r := novaRequisicao(t, token, "http://localhost:3000", "localhost:3000", "")
	assert.NoError(t, guard.Validar(r))
}

func TestGuardRejeitaOrigemExterna(t *testing.T) {
	tokens := NewTokens(segredoTeste)
	guard := NewGuard(tokens)

	token, err := tokens.Gerar()
	require.NoError(t, err)

	r := novaRequisicao(t, token, "http://evil-site.com", "localhost:3000", "")
	assert.ErrorIs(t, guard.Validar(r), apperrors.ErrOrigemInvalida)
}

func TestGuardRejeitaSemToken(t *testing.T) {
	guard := NewGuard(NewTokens(segredoTeste))

	// Sem o token a requisição é tratada como HTTP cru de outro site,
	// mesmo com origem aparentemente válida.
	r := novaRequisicao(t, "", "http://localhost:3000", "localhost:3000", "")
	assert.ErrorIs(t, guard.Validar(r), apperrors.ErrNaoEhAcaoDoServidor)
}

func TestGuardRejeitaTokenForjado(t *testing.T) {
	guard := NewGuard(NewTokens(segredoTeste))

	outroEmissor := NewTokens("outro-segredo")
	forjado, err := outroEmissor.Gerar()
	require.NoError(t, err)

	r := novaRequisicao(t, forjado, "http://localhost:3000", "localhost:3000", "")
	assert.ErrorIs(t, guard.Validar(r), apperrors.ErrTokenCSRFInvalido)
}

func TestGuardAceitaHostDeDesenvolvimento(t *testing.T) {
	tokens := NewTokens(segredoTeste)
	guard := NewGuard(tokens)

	token, err := tokens.Gerar()
	require.NoError(t, err)

	// Origin na lista de hosts locais mesmo sem bater com o Host
	r := novaRequisicao(t, token, "http://127.0.0.1:3001", "painel.example.com", "")
	assert.NoError(t, guard.Validar(r))
}

func TestGuardValidaReferer(t *testing.T) {
	tokens := NewTokens(segredoTeste)
	guard := NewGuard(tokens)

	token, err := tokens.Gerar()
	require.NoError(t, err)

	r := novaRequisicao(t, token, "", "painel.example.com", "http://painel.example.com/usuarios/novo")
	assert.NoError(t, guard.Validar(r))

	r = novaRequisicao(t, token, "", "painel.example.com", "http://localhost:3000/usuarios/novo")
	assert.NoError(t, guard.Validar(r))

	r = novaRequisicao(t, token, "", "painel.example.com", "http://evil-site.com/form")
	assert.ErrorIs(t, guard.Validar(r), apperrors.ErrRefererInvalido)
}

func TestMiddlewareBloqueiaAntesDoHandler(t *testing.T) {
	guard := NewGuard(NewTokens(segredoTeste))

	chamado := false
	protegido := guard.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chamado = true
	}))

	rec := httptest.NewRecorder()
	protegido.ServeHTTP(rec, novaRequisicao(t, "", "", "localhost:3000", ""))

	assert.False(t, chamado)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not a Server Action")
}

func TestTokenHandlerEmiteTokenVerificavel(t *testing.T) {
	tokens := NewTokens(segredoTeste)

	rec := httptest.NewRecorder()
	tokens.TokenHandler(rec, httptest.NewRequest(http.MethodGet, "/csrf-token", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	corpo := rec.Body.String()
	require.Contains(t, corpo, "token")

	token, err := tokens.Gerar()
	require.NoError(t, err)
	assert.NoError(t, tokens.Verificar(token))
}
