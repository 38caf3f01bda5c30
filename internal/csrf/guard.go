package csrf

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/paineladmin/api-usuarios/internal/apperrors"
)

// Hosts de desenvolvimento sempre aceitos como origem.
var hostsPermitidos = []string{
	"localhost:3000",
	"localhost:3001",
	"127.0.0.1:3000",
	"127.0.0.1:3001",
}

// Guard valida que uma requisição de mutação partiu do front-end confiável.
// Deve rodar antes de qualquer leitura ou escrita no banco.
type Guard struct {
	tokens *Tokens
}

func NewGuard(tokens *Tokens) *Guard {
	return &Guard{tokens: tokens}
}

// Validar aplica as checagens em ordem:
//  1. o token anti-forgery assinado precisa estar presente e válido;
//  2. com Origin e Host presentes, o host do Origin precisa bater com o Host
//     da requisição ou constar na lista de hosts de desenvolvimento;
//  3. sem Origin mas com Referer, o host do Referer precisa bater com o Host
//     ou conter "localhost".
func (g *Guard) Validar(r *http.Request) error {
	token := r.Header.Get(HeaderToken)
	if token == "" {
		return apperrors.ErrNaoEhAcaoDoServidor
	}
	if err := g.tokens.Verificar(token); err != nil {
		return apperrors.ErrTokenCSRFInvalido
	}

	origin := r.Header.Get("Origin")
	referer := r.Header.Get("Referer")
	host := r.Host
	if host == "" {
		host = r.Header.Get("Host")
	}

	if origin != "" && host != "" {
		originURL, err := url.Parse(origin)
		if err != nil {
			return apperrors.ErrOrigemInvalida
		}
		if originURL.Host != host && !hostPermitido(originURL.Host) {
			return apperrors.ErrOrigemInvalida
		}
		return nil
	}

	if referer != "" && host != "" {
		refererURL, err := url.Parse(referer)
		if err != nil {
			return apperrors.ErrRefererInvalido
		}
		if refererURL.Host != host && !strings.Contains(refererURL.Host, "localhost") {
			return apperrors.ErrRefererInvalido
		}
	}

	return nil
}

func hostPermitido(h string) bool {
	for _, permitido := range hostsPermitidos {
		if h == permitido {
			return true
		}
	}
	return false
}
