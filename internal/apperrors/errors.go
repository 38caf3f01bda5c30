package apperrors

import (
	"errors"
	"net/http"
)

// Taxonomia de erros da aplicação. Cada entrada carrega a mensagem exata
// exibida ao usuário; causas internas ficam embrulhadas para o log.

// Rejeições da guarda anti-forgery, antes de qualquer acesso ao banco.
var (
	ErrNaoEhAcaoDoServidor = errors.New("Invalid request: Not a Server Action")
	ErrTokenCSRFInvalido   = errors.New("CSRF validation failed: Invalid token")
	ErrOrigemInvalida      = errors.New("CSRF validation failed: Invalid origin")
	ErrRefererInvalido     = errors.New("CSRF validation failed: Invalid referer")
)

var (
	ErrReferenciaInvalida   = errors.New("Referência inválida. Verifique os dados e tente novamente.")
	ErrUsuarioNaoEncontrado = errors.New("Usuário não encontrado")
	ErrPossuiVinculos       = errors.New("Não é possível deletar este usuário pois ele possui vínculos")
)

// ErroValidacao reúne todas as falhas de campo de uma submissão. Os campos
// são verificados de forma independente; nenhum deles interrompe os demais.
type ErroValidacao struct {
	Mensagem string
	Campos   map[string]string
}

func (e *ErroValidacao) Error() string {
	if e.Mensagem != "" {
		return e.Mensagem
	}
	return "Dados inválidos"
}

func NovaValidacao(campos map[string]string) *ErroValidacao {
	return &ErroValidacao{Campos: campos}
}

// ErroCampoDuplicado indica colisão de constraint única, com o campo que colidiu.
type ErroCampoDuplicado struct {
	Campo    string
	Mensagem string
}

func (e *ErroCampoDuplicado) Error() string { return e.Mensagem }

// ErroServicoExterno cobre falhas de transporte ou de parse na consulta de CEP.
type ErroServicoExterno struct {
	Mensagem string
	Causa    error
}

func (e *ErroServicoExterno) Error() string { return e.Mensagem }
func (e *ErroServicoExterno) Unwrap() error { return e.Causa }

// ErroOperacao é o degrau genérico: falha de store não reconhecida, sem vazar
// detalhe interno para o cliente.
type ErroOperacao struct {
	Mensagem string
	Causa    error
}

func (e *ErroOperacao) Error() string { return e.Mensagem }
func (e *ErroOperacao) Unwrap() error { return e.Causa }

// StatusHTTP mapeia a taxonomia para o status de resposta.
func StatusHTTP(err error) int {
	var (
		val *ErroValidacao
		dup *ErroCampoDuplicado
		ext *ErroServicoExterno
	)
	switch {
	case errors.As(err, &val):
		return http.StatusBadRequest
	case errors.As(err, &dup):
		return http.StatusConflict
	case errors.As(err, &ext):
		return http.StatusBadGateway
	case errors.Is(err, ErrNaoEhAcaoDoServidor),
		errors.Is(err, ErrTokenCSRFInvalido),
		errors.Is(err, ErrOrigemInvalida),
		errors.Is(err, ErrRefererInvalido):
		return http.StatusForbidden
	case errors.Is(err, ErrUsuarioNaoEncontrado):
		return http.StatusNotFound
	case errors.Is(err, ErrPossuiVinculos):
		return http.StatusConflict
	case errors.Is(err, ErrReferenciaInvalida):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
