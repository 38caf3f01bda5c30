package usuario

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/paineladmin/api-usuarios/internal/apperrors"
)

func erroPostgres(codigo, constraint string) error {
	return fmt.Errorf("escrita falhou: %w", &pgconn.PgError{
		Code:           codigo,
		ConstraintName: constraint,
	})
}

func TestTraduzUnicidadePorConstraint(t *testing.T) {
	err := traduzErroEscrita(erroPostgres(codigoUnicidade, "idx_usuarios_email"), "Erro genérico", false)
	var dup *apperrors.ErroCampoDuplicado
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "email", dup.Campo)
	assert.Equal(t, "Este email já está cadastrado", dup.Mensagem)

	err = traduzErroEscrita(erroPostgres(codigoUnicidade, "idx_usuarios_cpf"), "Erro genérico", false)
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "cpf", dup.Campo)
	assert.Equal(t, "Este CPF já está cadastrado", dup.Mensagem)

	err = traduzErroEscrita(erroPostgres(codigoUnicidade, "outra_constraint"), "Erro genérico", false)
	require.True(t, errors.As(err, &dup))
	assert.Empty(t, dup.Campo)
	assert.Equal(t, "Já existe um registro com estes dados", dup.Mensagem)
}

func TestTraduzChaveEstrangeiraPorContexto(t *testing.T) {
	errFK := erroPostgres(codigoChaveEstrangeira, "fk_consultor_clientes_consultor")

	// Num INSERT de vínculo o id apontado não existe.
	assert.ErrorIs(t, traduzErroEscrita(errFK, "Erro genérico", false), apperrors.ErrReferenciaInvalida)
	// Num DELETE o registro ainda é referenciado por vínculos.
	assert.ErrorIs(t, traduzErroEscrita(errFK, "Erro genérico", true), apperrors.ErrPossuiVinculos)
}

func TestTraduzRegistroAusente(t *testing.T) {
	err := traduzErroEscrita(gorm.ErrRecordNotFound, "Erro genérico", false)
	assert.ErrorIs(t, err, apperrors.ErrUsuarioNaoEncontrado)
}

func TestTraduzFalhaDesconhecida(t *testing.T) {
	causa := errors.New("timeout no pool")
	err := traduzErroEscrita(causa, "Erro ao criar usuário. Tente novamente.", false)

	var op *apperrors.ErroOperacao
	require.True(t, errors.As(err, &op))
	assert.Equal(t, "Erro ao criar usuário. Tente novamente.", op.Mensagem)
	assert.ErrorIs(t, err, causa)
}

func TestTraduzPreservaReferenciaInvalida(t *testing.T) {
	err := traduzErroEscrita(apperrors.ErrReferenciaInvalida, "Erro genérico", false)
	assert.ErrorIs(t, err, apperrors.ErrReferenciaInvalida)
}
