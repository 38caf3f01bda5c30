package usuario

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TipoUsuario discrimina as duas variantes de usuário.
type TipoUsuario string

const (
	TipoCliente   TipoUsuario = "CLIENTE"
	TipoConsultor TipoUsuario = "CONSULTOR"
)

// Usuario representa um Cliente ou um Consultor do painel.
type Usuario struct {
	ID         string      `json:"id" gorm:"primaryKey;size:36"`
	Name       string      `json:"name" gorm:"size:100;not null"`
	Email      string      `json:"email" gorm:"size:100;not null;uniqueIndex"`
	Phone      *string     `json:"phone,omitempty" gorm:"size:20"`
	UserType   TipoUsuario `json:"userType" gorm:"size:10;not null;index"`
	CPF        *string     `json:"cpf,omitempty" gorm:"size:14;uniqueIndex"`
	Age        *int        `json:"age,omitempty"`
	CEP        *string     `json:"cep,omitempty" gorm:"size:9"`
	State      *string     `json:"state,omitempty" gorm:"size:2"`
	Address    *string     `json:"address,omitempty" gorm:"size:200"`
	Complement *string     `json:"complement,omitempty" gorm:"size:100"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`

	// Vínculos nas duas direções da relação muitos-para-muitos.
	ConsultorClientes  []ConsultorCliente `json:"consultorClients,omitempty" gorm:"foreignKey:ConsultorID"`
	ClienteConsultores []ConsultorCliente `json:"clientConsultors,omitempty" gorm:"foreignKey:ClienteID"`
}

func (Usuario) TableName() string { return "usuarios" }

// BeforeCreate gera o identificador opaco e imutável do registro.
func (u *Usuario) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// ConsultorCliente é a linha de junção entre um Consultor e um Cliente.
// O lado consultor é garantido pela origem do ID; o lado cliente é checado
// explicitamente pelo repositório antes da inserção.
type ConsultorCliente struct {
	ConsultorID string `json:"consultorId" gorm:"primaryKey;size:36"`
	ClienteID   string `json:"clientId" gorm:"primaryKey;size:36"`

	Consultor *Usuario `json:"consultor,omitempty" gorm:"foreignKey:ConsultorID;constraint:OnDelete:RESTRICT"`
	Cliente   *Usuario `json:"client,omitempty" gorm:"foreignKey:ClienteID;constraint:OnDelete:RESTRICT"`
}

func (ConsultorCliente) TableName() string { return "consultor_clientes" }
