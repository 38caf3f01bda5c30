package usuario

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/paineladmin/api-usuarios/internal/apperrors"
)

// Servico é a porta consumida pelo handler; em testes entra um fake.
type Servico interface {
	Criar(ctx context.Context, req *UsuarioRequest) (*Usuario, error)
	Atualizar(ctx context.Context, id string, req *UsuarioRequest) (*Usuario, error)
	Deletar(ctx context.Context, id string) error
	BuscarPorID(ctx context.Context, id string) (*Usuario, error)
	ListarClientes(ctx context.Context, f Filtro) (*ListaClientes, error)
	ListarConsultores(ctx context.Context, page int) (*ListaConsultores, error)
	Estatisticas(ctx context.Context, f Filtro) (*Estatisticas, error)
	EstatisticasConsultores(ctx context.Context) (*EstatisticasConsultores, error)
	OpcoesConsultores(ctx context.Context) ([]OpcaoUsuario, error)
	OpcoesClientes(ctx context.Context) ([]OpcaoUsuario, error)
}

type Handler struct {
	Servico Servico
}

func NewHandler(servico Servico) *Handler {
	return &Handler{Servico: servico}
}

// CriarUsuario cadastra um novo usuário (Cliente ou Consultor).
func (h *Handler) CriarUsuario(w http.ResponseWriter, r *http.Request) {
	var req UsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	u, err := h.Servico.Criar(r.Context(), &req)
	if err != nil {
		escreverErro(w, err)
		return
	}

	escreverJSON(w, http.StatusCreated, MutacaoResponse{
		Success: true,
		User:    u,
		Message: "Usuário criado com sucesso!",
	})
}

// AtualizarUsuario altera um usuário existente e, quando informado, o
// conjunto de clientes vinculados.
func (h *Handler) AtualizarUsuario(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	u, err := h.Servico.Atualizar(r.Context(), id, &req)
	if err != nil {
		escreverErro(w, err)
		return
	}

	escreverJSON(w, http.StatusOK, MutacaoResponse{
		Success: true,
		User:    u,
		Message: "Usuário atualizado com sucesso!",
	})
}

// DeletarUsuario remove um usuário sem vínculos pendentes.
func (h *Handler) DeletarUsuario(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Servico.Deletar(r.Context(), id); err != nil {
		escreverErro(w, err)
		return
	}

	escreverJSON(w, http.StatusOK, MutacaoResponse{
		Success: true,
		Message: "Usuário deletado com sucesso!",
	})
}

func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	u, err := h.Servico.BuscarPorID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		escreverErro(w, err)
		return
	}
	escreverJSON(w, http.StatusOK, u)
}

// ListarClientes retorna a página da tabela do dashboard.
func (h *Handler) ListarClientes(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Servico.ListarClientes(r.Context(), filtroDaQuery(r))
	if err != nil {
		escreverErro(w, err)
		return
	}
	escreverJSON(w, http.StatusOK, lista)
}

func (h *Handler) Estatisticas(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Servico.Estatisticas(r.Context(), filtroDaQuery(r))
	if err != nil {
		escreverErro(w, err)
		return
	}
	escreverJSON(w, http.StatusOK, stats)
}

// ListarConsultores retorna a página da tabela de consultores.
func (h *Handler) ListarConsultores(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	lista, err := h.Servico.ListarConsultores(r.Context(), page)
	if err != nil {
		escreverErro(w, err)
		return
	}
	escreverJSON(w, http.StatusOK, lista)
}

func (h *Handler) EstatisticasConsultores(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Servico.EstatisticasConsultores(r.Context())
	if err != nil {
		escreverErro(w, err)
		return
	}
	escreverJSON(w, http.StatusOK, stats)
}

func (h *Handler) ListarConsultoresOpcoes(w http.ResponseWriter, r *http.Request) {
	opcoes, err := h.Servico.OpcoesConsultores(r.Context())
	if err != nil {
		escreverErro(w, err)
		return
	}
	escreverJSON(w, http.StatusOK, opcoes)
}

func (h *Handler) ListarClientesOpcoes(w http.ResponseWriter, r *http.Request) {
	opcoes, err := h.Servico.OpcoesClientes(r.Context())
	if err != nil {
		escreverErro(w, err)
		return
	}
	escreverJSON(w, http.StatusOK, opcoes)
}

func filtroDaQuery(r *http.Request) Filtro {
	q := r.URL.Query()
	f := Filtro{
		Consultor: q.Get("consultor"),
		Email:     q.Get("email"),
		Page:      1,
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		f.Page = p
	}
	if t, err := time.Parse("2006-01-02", q.Get("startDate")); err == nil {
		f.StartDate = &t
	}
	if t, err := time.Parse("2006-01-02", q.Get("endDate")); err == nil {
		f.EndDate = &t
	}
	return f
}

func escreverJSON(w http.ResponseWriter, status int, corpo interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(corpo)
}

func escreverErro(w http.ResponseWriter, err error) {
	corpo := map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	}

	var val *apperrors.ErroValidacao
	if errors.As(err, &val) && val.Campos != nil {
		corpo["fields"] = val.Campos
	}
	var dup *apperrors.ErroCampoDuplicado
	if errors.As(err, &dup) && dup.Campo != "" {
		corpo["field"] = dup.Campo
	}

	escreverJSON(w, apperrors.StatusHTTP(err), corpo)
}
