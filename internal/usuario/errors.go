package usuario

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/paineladmin/api-usuarios/internal/apperrors"
)

// Códigos de erro do Postgres pattern-matched na tradução.
const (
	codigoUnicidade        = "23505"
	codigoChaveEstrangeira = "23503"
)

// traduzErroEscrita converte falhas do store na taxonomia da aplicação.
// fkBloqueiaDelete distingue a violação de FK num DELETE (registro ainda
// referenciado) da violação num INSERT de vínculo (referência inexistente).
func traduzErroEscrita(err error, msgGenerica string, fkBloqueiaDelete bool) error {
	if errors.Is(err, apperrors.ErrReferenciaInvalida) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrUsuarioNaoEncontrado
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codigoUnicidade:
			return erroDuplicado(pgErr.ConstraintName)
		case codigoChaveEstrangeira:
			if fkBloqueiaDelete {
				return apperrors.ErrPossuiVinculos
			}
			return apperrors.ErrReferenciaInvalida
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return erroDuplicado("")
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		if fkBloqueiaDelete {
			return apperrors.ErrPossuiVinculos
		}
		return apperrors.ErrReferenciaInvalida
	}

	return &apperrors.ErroOperacao{Mensagem: msgGenerica, Causa: err}
}

func erroDuplicado(constraint string) error {
	switch {
	case strings.Contains(constraint, "email"):
		return &apperrors.ErroCampoDuplicado{Campo: "email", Mensagem: "Este email já está cadastrado"}
	case strings.Contains(constraint, "cpf"):
		return &apperrors.ErroCampoDuplicado{Campo: "cpf", Mensagem: "Este CPF já está cadastrado"}
	default:
		return &apperrors.ErroCampoDuplicado{Mensagem: "Já existe um registro com estes dados"}
	}
}
