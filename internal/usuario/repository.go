package usuario

import (
	"time"

	"gorm.io/gorm"

	"github.com/paineladmin/api-usuarios/internal/apperrors"
)

// Tamanho da página da tabela de clientes.
const itensPorPagina = 20

type Repository interface {
	Criar(db *gorm.DB, u *Usuario) error
	Atualizar(db *gorm.DB, id string, novosDados *Usuario) (*Usuario, error)
	Deletar(db *gorm.DB, id string) error
	BuscarPorID(db *gorm.DB, id string) (*Usuario, error)
	ListarClientes(db *gorm.DB, f Filtro) ([]Usuario, int64, error)
	ListarConsultores(db *gorm.DB, page int) ([]ConsultorLinha, int64, error)
	Estatisticas(db *gorm.DB, f Filtro) (*Estatisticas, error)
	EstatisticasConsultores(db *gorm.DB) (*EstatisticasConsultores, error)
	OpcoesConsultores(db *gorm.DB) ([]OpcaoUsuario, error)
	OpcoesClientes(db *gorm.DB) ([]OpcaoUsuario, error)
	SubstituirVinculos(db *gorm.DB, consultorID string, clienteIDs []string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, u *Usuario) error {
	return db.Create(u).Error
}

// Atualizar sobrescreve os campos escalares do registro. Save grava também
// os ponteiros nulos, então campos opcionais podem ser limpos.
func (r *repositoryImpl) Atualizar(db *gorm.DB, id string, novosDados *Usuario) (*Usuario, error) {
	var existente Usuario
	if err := db.First(&existente, "id = ?", id).Error; err != nil {
		return nil, err
	}

	existente.Name = novosDados.Name
	existente.Email = novosDados.Email
	existente.Phone = novosDados.Phone
	existente.UserType = novosDados.UserType
	existente.CPF = novosDados.CPF
	existente.Age = novosDados.Age
	existente.CEP = novosDados.CEP
	existente.State = novosDados.State
	existente.Address = novosDados.Address
	existente.Complement = novosDados.Complement

	if err := db.Save(&existente).Error; err != nil {
		return nil, err
	}
	return &existente, nil
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id string) error {
	res := db.Delete(&Usuario{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*Usuario, error) {
	var u Usuario
	err := db.
		Preload("ConsultorClientes.Cliente").
		Preload("ClienteConsultores.Consultor").
		First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func aplicarFiltro(db *gorm.DB, f Filtro) *gorm.DB {
	q := db.Model(&Usuario{}).Where("user_type = ?", TipoCliente)

	if f.StartDate != nil {
		q = q.Where("created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("created_at <= ?", *f.EndDate)
	}
	if f.Consultor != "" {
		q = q.Where(`EXISTS (SELECT 1 FROM consultor_clientes cc
			JOIN usuarios co ON co.id = cc.consultor_id
			WHERE cc.cliente_id = usuarios.id AND co.name ILIKE ?)`, "%"+f.Consultor+"%")
	}
	if f.Email != "" {
		q = q.Where(`EXISTS (SELECT 1 FROM consultor_clientes cc
			JOIN usuarios co ON co.id = cc.consultor_id
			WHERE cc.cliente_id = usuarios.id AND co.email ILIKE ?)`, "%"+f.Email+"%")
	}
	return q
}

// ListarClientes retorna uma página da tabela do dashboard com o total para a
// paginação, mais recente primeiro.
func (r *repositoryImpl) ListarClientes(db *gorm.DB, f Filtro) ([]Usuario, int64, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}

	var total int64
	if err := aplicarFiltro(db, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clientes []Usuario
	err := aplicarFiltro(db, f).
		Preload("ClienteConsultores.Consultor").
		Order("created_at DESC").
		Order("id DESC").
		Offset((page - 1) * itensPorPagina).
		Limit(itensPorPagina).
		Find(&clientes).Error
	if err != nil {
		return nil, 0, err
	}
	return clientes, total, nil
}

// ListarConsultores retorna uma página da tabela de consultores, mais recente
// primeiro, com a contagem de clientes de cada um resolvida por subconsulta.
func (r *repositoryImpl) ListarConsultores(db *gorm.DB, page int) ([]ConsultorLinha, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := db.Model(&Usuario{}).
		Where("user_type = ?", TipoConsultor).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var linhas []ConsultorLinha
	err := db.Model(&Usuario{}).
		Select(`id, name, email, phone, cpf, created_at, updated_at,
			(SELECT count(*) FROM consultor_clientes cc WHERE cc.consultor_id = usuarios.id) AS total_clientes`).
		Where("user_type = ?", TipoConsultor).
		Order("created_at DESC").
		Order("id DESC").
		Offset((page - 1) * itensPorPagina).
		Limit(itensPorPagina).
		Find(&linhas).Error
	if err != nil {
		return nil, 0, err
	}
	return linhas, total, nil
}

func (r *repositoryImpl) Estatisticas(db *gorm.DB, f Filtro) (*Estatisticas, error) {
	var total int64
	if err := aplicarFiltro(db, f).Count(&total).Error; err != nil {
		return nil, err
	}

	seteDiasAtras := time.Now().AddDate(0, 0, -7)
	var ultimos7 int64
	if err := aplicarFiltro(db, f).Where("created_at >= ?", seteDiasAtras).Count(&ultimos7).Error; err != nil {
		return nil, err
	}

	return &Estatisticas{TotalClientes: total, ClientesUltimos7Dias: ultimos7}, nil
}

func (r *repositoryImpl) EstatisticasConsultores(db *gorm.DB) (*EstatisticasConsultores, error) {
	var total int64
	if err := db.Model(&Usuario{}).
		Where("user_type = ?", TipoConsultor).
		Count(&total).Error; err != nil {
		return nil, err
	}

	seteDiasAtras := time.Now().AddDate(0, 0, -7)
	var ultimos7 int64
	if err := db.Model(&Usuario{}).
		Where("user_type = ?", TipoConsultor).
		Where("created_at >= ?", seteDiasAtras).
		Count(&ultimos7).Error; err != nil {
		return nil, err
	}

	return &EstatisticasConsultores{TotalConsultores: total, ConsultoresUltimos7Dias: ultimos7}, nil
}

func (r *repositoryImpl) OpcoesConsultores(db *gorm.DB) ([]OpcaoUsuario, error) {
	var opcoes []OpcaoUsuario
	err := db.Model(&Usuario{}).
		Select("id, name, email").
		Where("user_type = ?", TipoConsultor).
		Order("name ASC").
		Find(&opcoes).Error
	return opcoes, err
}

func (r *repositoryImpl) OpcoesClientes(db *gorm.DB) ([]OpcaoUsuario, error) {
	var opcoes []OpcaoUsuario
	err := db.Model(&Usuario{}).
		Select("id, name").
		Where("user_type = ?", TipoCliente).
		Order("name ASC").
		Find(&opcoes).Error
	return opcoes, err
}

// SubstituirVinculos troca o conjunto inteiro de vínculos de um consultor:
// apaga todos os existentes e recria a partir da lista, nunca um diff. Cada
// id precisa referenciar um usuário existente do tipo CLIENTE.
func (r *repositoryImpl) SubstituirVinculos(db *gorm.DB, consultorID string, clienteIDs []string) error {
	if err := db.Where("consultor_id = ?", consultorID).Delete(&ConsultorCliente{}).Error; err != nil {
		return err
	}
	if len(clienteIDs) == 0 {
		return nil
	}

	var clientes int64
	if err := db.Model(&Usuario{}).
		Where("id IN ? AND user_type = ?", clienteIDs, TipoCliente).
		Count(&clientes).Error; err != nil {
		return err
	}
	if clientes != int64(len(clienteIDs)) {
		return apperrors.ErrReferenciaInvalida
	}

	vinculos := make([]ConsultorCliente, 0, len(clienteIDs))
	for _, clienteID := range clienteIDs {
		vinculos = append(vinculos, ConsultorCliente{
			ConsultorID: consultorID,
			ClienteID:   clienteID,
		})
	}
	return db.Create(&vinculos).Error
}
