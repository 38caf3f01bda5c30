package cache

import (
	"context"
	"time"
)

// Store é o cache de leitura com chaves indexadas por tag. As consultas do
// dashboard gravam seus resultados aqui e as mutações derrubam tudo que
// depende das tags afetadas.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration, tags ...string) error
}

// Invalidator é o sinal de invalidação disparado após cada mutação bem
// sucedida. É fire-and-forget: falha de invalidação não desfaz a mutação.
type Invalidator interface {
	Invalidate(ctx context.Context, tags ...string)
	InvalidatePaths(ctx context.Context, paths ...string)
}

// Tags e paths revalidados pelas mutações de usuário.
const (
	TagUsers          = "users"
	TagClients        = "clients"
	TagClientes       = "clientes"
	TagConsultors     = "consultors"
	TagStats          = "stats"
	TagClientsTable   = "clients-table"
	TagDashboardStats = "dashboard-stats"

	PathDashboard   = "/dashboard"
	PathNovoUsuario = "/usuarios/novo"
)

// Noop ignora todas as operações; usado em testes e quando o Redis está
// desabilitado.
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, interface{}, time.Duration, ...string) error {
	return nil
}
func (Noop) Invalidate(context.Context, ...string)      {}
func (Noop) InvalidatePaths(context.Context, ...string) {}
