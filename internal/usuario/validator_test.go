package usuario

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paineladmin/api-usuarios/internal/apperrors"
)

func requestValido() *UsuarioRequest {
	return &UsuarioRequest{
		Name:     "Maria Silva",
		Email:    "maria.silva@email.com",
		UserType: "CLIENTE",
	}
}

func TestValidarCPF(t *testing.T) {
	casos := []struct {
		cpf    string
		valido bool
	}{
		{"123.456.789-09", true},
		{"12345678909", true},
		{"111.111.111-11", false},
		{"11111111111", false},
		{"000.000.000-00", false},
		{"999.999.999-99", false},
		{"123.456.789-00", false},
		{"123.456.789", false},
		{"", false},
	}
	for _, c := range casos {
		assert.Equal(t, c.valido, ValidarCPF(c.cpf), "cpf %q", c.cpf)
	}
}

func TestValidarCPFIndependeDePontuacao(t *testing.T) {
	// O resultado do checksum não muda entre entrada crua e pontuada.
	assert.Equal(t, ValidarCPF("123.456.789-09"), ValidarCPF("12345678909"))
	assert.Equal(t, ValidarCPF("111.111.111-11"), ValidarCPF("11111111111"))
}

func errosDeCampo(t *testing.T, err error) map[string]string {
	t.Helper()
	var val *apperrors.ErroValidacao
	require.True(t, errors.As(err, &val), "esperava ErroValidacao, veio %v", err)
	return val.Campos
}

func TestValidarNome(t *testing.T) {
	req := requestValido()
	req.Name = "Ab"
	_, err := Validar(req)
	assert.Equal(t, "Nome deve ter no mínimo 3 caracteres", errosDeCampo(t, err)["name"])

	req = requestValido()
	req.Name = "Nome123"
	_, err = Validar(req)
	assert.Equal(t, "Nome deve conter apenas letras", errosDeCampo(t, err)["name"])

	req = requestValido()
	req.Name = "José Antônio Araújo"
	_, err = Validar(req)
	assert.NoError(t, err)
}

func TestValidarEmailNormalizaMinusculo(t *testing.T) {
	req := requestValido()
	req.Email = "Maria.SILVA@Email.com"
	norm, err := Validar(req)
	require.NoError(t, err)
	assert.Equal(t, "maria.silva@email.com", norm.Email)

	// normalização idempotente
	norm2, err := Validar(norm)
	require.NoError(t, err)
	assert.Equal(t, norm.Email, norm2.Email)
}

func TestValidarEmailInvalido(t *testing.T) {
	req := requestValido()
	req.Email = "nao-e-email"
	_, err := Validar(req)
	assert.Equal(t, "Email inválido", errosDeCampo(t, err)["email"])
}

func TestValidarTelefone(t *testing.T) {
	aceitos := []string{"(11) 98765-4321", "(11) 8765-4321", "(11)98765-4321"}
	for _, tel := range aceitos {
		req := requestValido()
		req.Phone = tel
		_, err := Validar(req)
		assert.NoError(t, err, "telefone %q", tel)
	}

	req := requestValido()
	req.Phone = "11 98765-4321"
	_, err := Validar(req)
	assert.Equal(t, "Telefone inválido. Use o formato (XX) XXXXX-XXXX", errosDeCampo(t, err)["phone"])
}

func TestValidarTipoUsuario(t *testing.T) {
	req := requestValido()
	req.UserType = "ADMIN"
	_, err := Validar(req)
	assert.Equal(t, "Tipo de usuário inválido", errosDeCampo(t, err)["userType"])
}

func TestValidarCPFNoFormulario(t *testing.T) {
	req := requestValido()
	req.CPF = "12345678909"
	_, err := Validar(req)
	assert.Equal(t, "CPF inválido. Use o formato XXX.XXX.XXX-XX", errosDeCampo(t, err)["cpf"])

	req = requestValido()
	req.CPF = "111.111.111-11"
	_, err = Validar(req)
	assert.Equal(t, "CPF inválido", errosDeCampo(t, err)["cpf"])

	req = requestValido()
	req.CPF = "123.456.789-09"
	_, err = Validar(req)
	assert.NoError(t, err)
}

func TestValidarIdade(t *testing.T) {
	idade := func(v float64) *float64 { return &v }

	req := requestValido()
	req.Age = idade(25.5)
	_, err := Validar(req)
	assert.Equal(t, "Idade deve ser um número inteiro", errosDeCampo(t, err)["age"])

	req = requestValido()
	req.Age = idade(17)
	_, err = Validar(req)
	assert.Equal(t, "Idade mínima é 18 anos", errosDeCampo(t, err)["age"])

	req = requestValido()
	req.Age = idade(121)
	_, err = Validar(req)
	assert.Equal(t, "Idade máxima é 120 anos", errosDeCampo(t, err)["age"])

	for _, v := range []float64{18, 45, 120} {
		req = requestValido()
		req.Age = idade(v)
		_, err = Validar(req)
		assert.NoError(t, err, "idade %v", v)
	}
}

func TestValidarCEPEstadoEnderecoComplemento(t *testing.T) {
	req := requestValido()
	req.CEP = "01310-100"
	req.State = "SP"
	req.Address = "Av. Paulista, 1000"
	req.Complement = "Apto 501"
	_, err := Validar(req)
	assert.NoError(t, err)

	req = requestValido()
	req.CEP = "1310-100"
	_, err = Validar(req)
	assert.Equal(t, "CEP inválido. Use o formato XXXXX-XXX", errosDeCampo(t, err)["cep"])

	req = requestValido()
	req.State = "SPO"
	_, err = Validar(req)
	assert.Equal(t, "Estado deve ter 2 caracteres", errosDeCampo(t, err)["state"])

	req = requestValido()
	req.Address = "Rua"
	_, err = Validar(req)
	assert.Equal(t, "Endereço deve ter entre 5 e 200 caracteres", errosDeCampo(t, err)["address"])
}

func TestValidarColetaTodosOsCampos(t *testing.T) {
	// Campos são independentes: uma falha não esconde as outras.
	req := &UsuarioRequest{
		Name:     "Ab",
		Email:    "x",
		UserType: "OUTRO",
		CPF:      "111.111.111-11",
	}
	_, err := Validar(req)
	campos := errosDeCampo(t, err)
	assert.Len(t, campos, 4)
	assert.Contains(t, campos, "name")
	assert.Contains(t, campos, "email")
	assert.Contains(t, campos, "userType")
	assert.Contains(t, campos, "cpf")
}

func TestValidarClientIdsPadraoVazio(t *testing.T) {
	norm, err := Validar(requestValido())
	require.NoError(t, err)
	assert.NotNil(t, norm.ClientIds)
	assert.Empty(t, norm.ClientIds)
}
