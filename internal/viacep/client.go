package viacep

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/paineladmin/api-usuarios/internal/apperrors"
	"github.com/paineladmin/api-usuarios/internal/cache"
	"github.com/paineladmin/api-usuarios/internal/logger"
)

// Endereco é o payload retornado pelo ViaCEP.
type Endereco struct {
	Cep         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	Uf          string `json:"uf"`
	Erro        bool   `json:"erro,omitempty"`
}

// Resultado consultado fica em cache por 1 hora.
const cacheTTL = 1 * time.Hour

type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      cache.Store
}

func NewClient(baseURL string, store cache.Store) *Client {
	if store == nil {
		store = cache.Noop{}
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		cache:      store,
	}
}

// BuscarEndereco normaliza o CEP para 8 dígitos e consulta o ViaCEP.
// CEP sintaticamente válido porém inexistente retorna (nil, nil), não erro.
func (c *Client) BuscarEndereco(ctx context.Context, cep string) (*Endereco, error) {
	limpo := somenteDigitos(cep)
	if len(limpo) != 8 {
		return nil, &apperrors.ErroValidacao{Mensagem: "CEP deve ter 8 dígitos"}
	}

	chave := "viacep:" + limpo
	var cached Endereco
	ok, err := c.cache.Get(ctx, chave, &cached)
	if err != nil {
		logger.Logger.Warn().Str("cep", limpo).Err(err).Msg("falha ao ler cache de endereço")
	}
	if ok {
		return &cached, nil
	}

	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, limpo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &apperrors.ErroServicoExterno{Mensagem: "Erro ao buscar endereço pelo CEP", Causa: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		erro := &apperrors.ErroServicoExterno{Mensagem: "Erro ao buscar endereço pelo CEP", Causa: err}
		logger.LogError(erro, "BuscarEndereco")
		return nil, erro
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		erro := &apperrors.ErroServicoExterno{
			Mensagem: "Serviço de CEP temporariamente indisponível",
			Causa:    fmt.Errorf("status %d", resp.StatusCode),
		}
		logger.LogError(erro, "BuscarEndereco")
		return nil, erro
	}

	var endereco Endereco
	if err := json.NewDecoder(resp.Body).Decode(&endereco); err != nil {
		erro := &apperrors.ErroServicoExterno{Mensagem: "Erro ao buscar endereço pelo CEP", Causa: err}
		logger.LogError(erro, "BuscarEndereco")
		return nil, erro
	}

	// CEP válido mas não atribuído
	if endereco.Erro {
		return nil, nil
	}

	if err := c.cache.Set(ctx, chave, endereco, cacheTTL); err != nil {
		logger.Logger.Warn().Str("cep", limpo).Err(err).Msg("falha ao cachear endereço")
	}

	return &endereco, nil
}

func somenteDigitos(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
