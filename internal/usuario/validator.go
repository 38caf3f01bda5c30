package usuario

import (
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/paineladmin/api-usuarios/internal/apperrors"
)

var (
	regexNome       = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s]+$`)
	regexTelefone   = regexp.MustCompile(`^\(\d{2}\)\s?\d{4,5}-?\d{4}$`)
	regexCEP        = regexp.MustCompile(`^\d{5}-?\d{3}$`)
	regexCPFFormato = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Reporta os campos pelo nome da tag json, igual ao contrato do formulário.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterValidation("nomevalido", func(fl validator.FieldLevel) bool {
		return regexNome.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("telefonebr", func(fl validator.FieldLevel) bool {
		return regexTelefone.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("cepbr", func(fl validator.FieldLevel) bool {
		return regexCEP.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("cpfformato", func(fl validator.FieldLevel) bool {
		return regexCPFFormato.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("cpfdigitos", func(fl validator.FieldLevel) bool {
		return ValidarCPF(fl.Field().String())
	})
}

// ValidarCPF aplica o algoritmo de dígitos verificadores do CPF: rejeita
// sequências de 11 dígitos idênticos e confere os dois dígitos pelo módulo 11.
func ValidarCPF(cpf string) bool {
	limpo := somenteDigitos(cpf)
	if len(limpo) != 11 {
		return false
	}

	repetido := true
	for i := 1; i < 11; i++ {
		if limpo[i] != limpo[0] {
			repetido = false
			break
		}
	}
	if repetido {
		return false
	}

	soma := 0
	for i := 0; i < 9; i++ {
		soma += int(limpo[i]-'0') * (10 - i)
	}
	digito := 11 - soma%11
	if digito >= 10 {
		digito = 0
	}
	if digito != int(limpo[9]-'0') {
		return false
	}

	soma = 0
	for i := 0; i < 10; i++ {
		soma += int(limpo[i]-'0') * (11 - i)
	}
	digito = 11 - soma%11
	if digito >= 10 {
		digito = 0
	}
	return digito == int(limpo[10]-'0')
}

// Validar normaliza e valida o payload do formulário. Os campos são checados
// de forma independente e todas as falhas voltam juntas, uma mensagem por
// campo. Em caso de sucesso o request retorna normalizado (email minúsculo,
// clientIds nunca nulo).
func Validar(req *UsuarioRequest) (*UsuarioRequest, error) {
	req.Email = strings.ToLower(req.Email)

	campos := map[string]string{}

	if err := validate.Struct(req); err != nil {
		erros, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, &apperrors.ErroOperacao{Mensagem: "Dados inválidos", Causa: err}
		}
		for _, fe := range erros {
			if _, visto := campos[fe.Field()]; !visto {
				campos[fe.Field()] = mensagemCampo(fe)
			}
		}
	}

	// Idade chega como número JSON; inteireza é um erro distinto da faixa.
	if req.Age != nil {
		switch {
		case *req.Age != math.Trunc(*req.Age):
			campos["age"] = "Idade deve ser um número inteiro"
		case *req.Age < 18:
			campos["age"] = "Idade mínima é 18 anos"
		case *req.Age > 120:
			campos["age"] = "Idade máxima é 120 anos"
		}
	}

	if len(campos) > 0 {
		return nil, apperrors.NovaValidacao(campos)
	}

	if req.ClientIds == nil {
		req.ClientIds = []string{}
	}
	return req, nil
}

func mensagemCampo(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		switch fe.Tag() {
		case "max":
			return "Nome deve ter no máximo 100 caracteres"
		case "nomevalido":
			return "Nome deve conter apenas letras"
		default:
			return "Nome deve ter no mínimo 3 caracteres"
		}
	case "email":
		switch fe.Tag() {
		case "min":
			return "Email deve ter no mínimo 5 caracteres"
		case "max":
			return "Email deve ter no máximo 100 caracteres"
		default:
			return "Email inválido"
		}
	case "phone":
		return "Telefone inválido. Use o formato (XX) XXXXX-XXXX"
	case "userType":
		return "Tipo de usuário inválido"
	case "cpf":
		if fe.Tag() == "cpfformato" {
			return "CPF inválido. Use o formato XXX.XXX.XXX-XX"
		}
		return "CPF inválido"
	case "cep":
		return "CEP inválido. Use o formato XXXXX-XXX"
	case "state":
		return "Estado deve ter 2 caracteres"
	case "address":
		return "Endereço deve ter entre 5 e 200 caracteres"
	case "complement":
		return "Complemento deve ter no máximo 100 caracteres"
	}
	return "Campo inválido"
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
