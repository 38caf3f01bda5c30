package csrf

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// HeaderToken transporta o token anti-forgery em toda chamada de mutação.
const HeaderToken = "X-CSRF-Token"

// Tempo de vida do token anti-forgery
const TokenTTL = 1 * time.Hour

// Tokens encapsula emissão e verificação do token assinado (HS256). Sem um
// token válido a requisição é tratada como HTTP cru de outro site e rejeitada
// antes de tocar o banco.
type Tokens struct {
	secret []byte
}

func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret)}
}

// Gerar emite um token anti-forgery com exp, iat e jti.
func (t *Tokens) Gerar() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
		ID:        uuid.NewString(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("assinar token: %w", err)
	}
	return signed, nil
}

// Verificar valida assinatura e expiração.
func (t *Tokens) Verificar(tokenStr string) error {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	_, err := parser.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		if len(t.secret) == 0 {
			return nil, errors.New("segredo anti-forgery não configurado")
		}
		return t.secret, nil
	})
	return err
}
