package usuario

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/paineladmin/api-usuarios/internal/cache"
	"github.com/paineladmin/api-usuarios/internal/logger"
)

// Service orquestra as mutações de usuário: validação, escrita transacional
// do registro e dos vínculos, tradução de erros do store e invalidação das
// leituras cacheadas. A guarda anti-forgery roda antes, no middleware da rota.
type Service struct {
	DB          *gorm.DB
	Repo        Repository
	Cache       cache.Store
	Invalidator cache.Invalidator
}

func NewService(db *gorm.DB, repo Repository, store cache.Store, inval cache.Invalidator) *Service {
	if store == nil {
		store = cache.Noop{}
	}
	if inval == nil {
		inval = cache.Noop{}
	}
	return &Service{DB: db, Repo: repo, Cache: store, Invalidator: inval}
}

// Criar insere o usuário e, para consultores, os vínculos com clientes, tudo
// numa única transação.
func (s *Service) Criar(ctx context.Context, req *UsuarioRequest) (*Usuario, error) {
	norm, err := Validar(req)
	if err != nil {
		return nil, err
	}

	u := paraModelo(norm)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.Criar(tx, u); err != nil {
			return err
		}
		if u.UserType == TipoConsultor && len(norm.ClientIds) > 0 {
			return s.Repo.SubstituirVinculos(tx, u.ID, norm.ClientIds)
		}
		return nil
	})
	if err != nil {
		logger.LogError(err, "criarUsuario")
		return nil, traduzErroEscrita(err, "Erro ao criar usuário. Tente novamente.", false)
	}

	s.invalidar(ctx, "")
	return u, nil
}

// Atualizar sobrescreve os campos escalares e, quando o consultor informa a
// lista de clientes (mesmo vazia), substitui o conjunto inteiro de vínculos.
// A troca delete-e-recria roda na mesma transação da atualização do registro,
// então duas atualizações concorrentes do mesmo consultor não intercalam as
// fases de delete e insert.
func (s *Service) Atualizar(ctx context.Context, id string, req *UsuarioRequest) (*Usuario, error) {
	vinculosInformados := req.ClientIds != nil

	norm, err := Validar(req)
	if err != nil {
		return nil, err
	}

	var atualizado *Usuario
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		atualizado, err = s.Repo.Atualizar(tx, id, paraModelo(norm))
		if err != nil {
			return err
		}
		if atualizado.UserType == TipoConsultor && vinculosInformados {
			return s.Repo.SubstituirVinculos(tx, id, norm.ClientIds)
		}
		return nil
	})
	if err != nil {
		logger.LogError(err, "atualizarUsuario")
		return nil, traduzErroEscrita(err, "Erro ao atualizar usuário. Tente novamente.", false)
	}

	s.invalidar(ctx, id)
	return atualizado, nil
}

// Deletar remove o usuário. Vínculos remanescentes apontando para ele barram
// a exclusão via integridade referencial.
func (s *Service) Deletar(ctx context.Context, id string) error {
	if err := s.Repo.Deletar(s.DB.WithContext(ctx), id); err != nil {
		logger.LogError(err, "deletarUsuario")
		return traduzErroEscrita(err, "Erro ao deletar usuário. Tente novamente.", true)
	}

	s.invalidar(ctx, "")
	return nil
}

func (s *Service) BuscarPorID(ctx context.Context, id string) (*Usuario, error) {
	u, err := s.Repo.BuscarPorID(s.DB.WithContext(ctx), id)
	if err != nil {
		logger.LogError(err, "buscarUsuario")
		return nil, traduzErroEscrita(err, "Falha ao carregar dados do usuário", false)
	}
	return u, nil
}

// ListarClientes serve a tabela do dashboard, com cache curto por página e
// combinação de filtros.
func (s *Service) ListarClientes(ctx context.Context, f Filtro) (*ListaClientes, error) {
	chave := chaveFiltro("clientes:tabela", f)
	var cached ListaClientes
	if s.lerCache(ctx, chave, &cached) {
		return &cached, nil
	}

	clientes, total, err := s.Repo.ListarClientes(s.DB.WithContext(ctx), f)
	if err != nil {
		logger.LogError(err, "listarClientes")
		return nil, traduzErroEscrita(err, "Falha ao carregar lista de clientes", false)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	lista := &ListaClientes{Clients: clientes, TotalCount: total, CurrentPage: page}
	s.cachear(ctx, chave, lista, 60*time.Second, cache.TagUsers, cache.TagClients, cache.TagClientsTable)
	return lista, nil
}

// ListarConsultores serve a tabela de consultores, paginada e com a contagem
// de clientes vinculados de cada um.
func (s *Service) ListarConsultores(ctx context.Context, page int) (*ListaConsultores, error) {
	if page < 1 {
		page = 1
	}

	chave := fmt.Sprintf("consultores:tabela:p%d", page)
	var cached ListaConsultores
	if s.lerCache(ctx, chave, &cached) {
		return &cached, nil
	}

	consultores, total, err := s.Repo.ListarConsultores(s.DB.WithContext(ctx), page)
	if err != nil {
		logger.LogError(err, "listarConsultores")
		return nil, traduzErroEscrita(err, "Falha ao carregar lista de consultores", false)
	}

	lista := &ListaConsultores{Consultors: consultores, TotalCount: total, CurrentPage: page}
	s.cachear(ctx, chave, lista, 60*time.Second, cache.TagUsers, cache.TagConsultors)
	return lista, nil
}

func (s *Service) Estatisticas(ctx context.Context, f Filtro) (*Estatisticas, error) {
	chave := chaveFiltro("estatisticas", f)
	var cached Estatisticas
	if s.lerCache(ctx, chave, &cached) {
		return &cached, nil
	}

	stats, err := s.Repo.Estatisticas(s.DB.WithContext(ctx), f)
	if err != nil {
		logger.LogError(err, "estatisticas")
		return nil, traduzErroEscrita(err, "Falha ao carregar estatísticas", false)
	}

	s.cachear(ctx, chave, stats, 60*time.Second, cache.TagUsers, cache.TagClientes, cache.TagStats, cache.TagDashboardStats)
	return stats, nil
}

func (s *Service) EstatisticasConsultores(ctx context.Context) (*EstatisticasConsultores, error) {
	var cached EstatisticasConsultores
	if s.lerCache(ctx, "consultores:estatisticas", &cached) {
		return &cached, nil
	}

	stats, err := s.Repo.EstatisticasConsultores(s.DB.WithContext(ctx))
	if err != nil {
		logger.LogError(err, "estatisticasConsultores")
		return nil, traduzErroEscrita(err, "Falha ao carregar estatísticas de consultores", false)
	}

	s.cachear(ctx, "consultores:estatisticas", stats, 5*time.Minute, cache.TagUsers, cache.TagConsultors, cache.TagStats)
	return stats, nil
}

func (s *Service) OpcoesConsultores(ctx context.Context) ([]OpcaoUsuario, error) {
	var cached []OpcaoUsuario
	if s.lerCache(ctx, "consultores:opcoes", &cached) {
		return cached, nil
	}

	opcoes, err := s.Repo.OpcoesConsultores(s.DB.WithContext(ctx))
	if err != nil {
		logger.LogError(err, "opcoesConsultores")
		return nil, traduzErroEscrita(err, "Falha ao carregar lista de consultores", false)
	}

	s.cachear(ctx, "consultores:opcoes", opcoes, 15*time.Minute, cache.TagUsers, cache.TagConsultors)
	return opcoes, nil
}

func (s *Service) OpcoesClientes(ctx context.Context) ([]OpcaoUsuario, error) {
	var cached []OpcaoUsuario
	if s.lerCache(ctx, "clientes:opcoes", &cached) {
		return cached, nil
	}

	opcoes, err := s.Repo.OpcoesClientes(s.DB.WithContext(ctx))
	if err != nil {
		logger.LogError(err, "opcoesClientes")
		return nil, traduzErroEscrita(err, "Falha ao carregar lista de clientes", false)
	}

	s.cachear(ctx, "clientes:opcoes", opcoes, 10*time.Minute, cache.TagUsers, cache.TagClientes)
	return opcoes, nil
}

// invalidar dispara o sinal de invalidação das leituras dependentes. É
// fire-and-forget: o sucesso da mutação já foi decidido pela transação.
func (s *Service) invalidar(ctx context.Context, id string) {
	s.Invalidator.Invalidate(ctx,
		cache.TagUsers,
		cache.TagClients,
		cache.TagStats,
		cache.TagClientsTable,
		cache.TagDashboardStats,
	)
	paths := []string{cache.PathDashboard, cache.PathNovoUsuario}
	if id != "" {
		paths = append(paths, "/usuarios/"+id+"/editar")
	}
	s.Invalidator.InvalidatePaths(ctx, paths...)
}

// lerCache tenta servir a leitura do cache. Falha de leitura vira miss, mas
// fica no log: um Redis quebrado não pode passar despercebido.
func (s *Service) lerCache(ctx context.Context, chave string, dest interface{}) bool {
	ok, err := s.Cache.Get(ctx, chave, dest)
	if err != nil {
		logger.Logger.Warn().Str("chave", chave).Err(err).Msg("falha ao ler cache de leitura")
		return false
	}
	return ok
}

func (s *Service) cachear(ctx context.Context, chave string, valor interface{}, ttl time.Duration, tags ...string) {
	if err := s.Cache.Set(ctx, chave, valor, ttl, tags...); err != nil {
		logger.Logger.Warn().Str("chave", chave).Err(err).Msg("falha ao gravar cache de leitura")
	}
}

func chaveFiltro(prefixo string, f Filtro) string {
	inicio, fim := "", ""
	if f.StartDate != nil {
		inicio = f.StartDate.Format(time.RFC3339)
	}
	if f.EndDate != nil {
		fim = f.EndDate.Format(time.RFC3339)
	}
	return fmt.Sprintf("%s:p%d:c%s:e%s:i%s:f%s", prefixo, f.Page, f.Consultor, f.Email, inicio, fim)
}

// paraModelo converte o request normalizado no modelo persistido; opcionais
// vazios viram NULL.
func paraModelo(req *UsuarioRequest) *Usuario {
	u := &Usuario{
		Name:       req.Name,
		Email:      req.Email,
		UserType:   TipoUsuario(req.UserType),
		Phone:      opcional(req.Phone),
		CPF:        opcional(req.CPF),
		CEP:        opcional(req.CEP),
		State:      opcional(req.State),
		Address:    opcional(req.Address),
		Complement: opcional(req.Complement),
	}
	if req.Age != nil {
		idade := int(*req.Age)
		u.Age = &idade
	}
	return u
}

func opcional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
