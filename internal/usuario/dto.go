package usuario

import "time"

// UsuarioRequest é o payload de criação/atualização vindo do formulário.
// ClientIds nulo significa "não informado"; lista vazia significa "remover
// todos os vínculos" na atualização.
type UsuarioRequest struct {
	Name       string   `json:"name" validate:"min=3,max=100,nomevalido"`
	Email      string   `json:"email" validate:"required,email,min=5,max=100"`
	Phone      string   `json:"phone" validate:"omitempty,telefonebr"`
	UserType   string   `json:"userType" validate:"required,oneof=CLIENTE CONSULTOR"`
	CPF        string   `json:"cpf" validate:"omitempty,cpfformato,cpfdigitos"`
	Age        *float64 `json:"age" validate:"-"`
	CEP        string   `json:"cep" validate:"omitempty,cepbr"`
	State      string   `json:"state" validate:"omitempty,len=2"`
	Address    string   `json:"address" validate:"omitempty,min=5,max=200"`
	Complement string   `json:"complement" validate:"omitempty,max=100"`
	ClientIds  []string `json:"clientIds"`
}

// MutacaoResponse é o envelope de sucesso das mutações.
type MutacaoResponse struct {
	Success bool     `json:"success"`
	User    *Usuario `json:"user,omitempty"`
	Message string   `json:"message"`
}

// Filtro restringe listagem e estatísticas de clientes.
type Filtro struct {
	Consultor string
	Email     string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
}

// ListaClientes é a página da tabela do dashboard.
type ListaClientes struct {
	Clients     []Usuario `json:"clients"`
	TotalCount  int64     `json:"totalCount"`
	CurrentPage int       `json:"currentPage"`
}

// ConsultorLinha é uma linha da tabela de consultores, com a contagem de
// clientes vinculados resolvida na própria consulta.
type ConsultorLinha struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone,omitempty"`
	CPF           *string   `json:"cpf,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	TotalClientes int64     `json:"totalClientes"`
}

// ListaConsultores é a página da tabela de consultores.
type ListaConsultores struct {
	Consultors  []ConsultorLinha `json:"consultors"`
	TotalCount  int64            `json:"totalCount"`
	CurrentPage int              `json:"currentPage"`
}

// OpcaoUsuario alimenta os selects do formulário.
type OpcaoUsuario struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Estatisticas são os totais do cartão do dashboard.
type Estatisticas struct {
	TotalClientes        int64 `json:"totalClientes"`
	ClientesUltimos7Dias int64 `json:"clientesUltimos7Dias"`
}

// EstatisticasConsultores são os totais do cartão de consultores.
type EstatisticasConsultores struct {
	TotalConsultores        int64 `json:"totalConsultores"`
	ConsultoresUltimos7Dias int64 `json:"consultoresUltimos7Dias"`
}
