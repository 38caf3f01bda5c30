package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func novoRedisDeTeste(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisWithClient(rdb, zerolog.Nop()), mr
}

func TestSetGetRoundTrip(t *testing.T) {
	c, _ := novoRedisDeTeste(t)
	ctx := context.Background()

	type carga struct {
		Nome  string `json:"nome"`
		Total int    `json:"total"`
	}

	require.NoError(t, c.Set(ctx, "chave", carga{Nome: "x", Total: 3}, time.Minute, TagUsers))

	var lido carga
	ok, err := c.Get(ctx, "chave", &lido)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, carga{Nome: "x", Total: 3}, lido)
}

func TestGetChaveAusente(t *testing.T) {
	c, _ := novoRedisDeTeste(t)

	var dest string
	ok, err := c.Get(context.Background(), "nada", &dest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvalidateDerrubaChavesDaTag(t *testing.T) {
	c, mr := novoRedisDeTeste(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "lista:1", "a", time.Minute, TagUsers, TagClientsTable))
	require.NoError(t, c.Set(ctx, "lista:2", "b", time.Minute, TagClientsTable))
	require.NoError(t, c.Set(ctx, "outra", "c", time.Minute, TagStats))

	c.Invalidate(ctx, TagClientsTable)

	assert.False(t, mr.Exists("lista:1"))
	assert.False(t, mr.Exists("lista:2"))
	assert.True(t, mr.Exists("outra"), "tags não afetadas permanecem")
	assert.False(t, mr.Exists("tag:"+TagClientsTable), "índice da tag também cai")
}

func TestInvalidateTagVazia(t *testing.T) {
	c, _ := novoRedisDeTeste(t)
	// Invalidação de tag sem chaves registradas não é erro.
	c.Invalidate(context.Background(), "tag-sem-uso")
}

func TestInvalidatePublicaNoCanal(t *testing.T) {
	c, mr := novoRedisDeTeste(t)
	ctx := context.Background()

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	sub := rdb.Subscribe(ctx, CanalInvalidacao)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	c.Invalidate(ctx, TagUsers)

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, TagUsers, msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("nenhum anúncio de invalidação recebido")
	}
}

// O processo cai para Noop quando o Redis não responde no boot.
var (
	_ Store       = Noop{}
	_ Invalidator = Noop{}
)

func TestNoopIgnoraTodasAsOperacoes(t *testing.T) {
	var c Noop
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "chave", "valor", time.Minute, TagUsers))

	var dest string
	ok, err := c.Get(ctx, "chave", &dest)
	require.NoError(t, err)
	assert.False(t, ok, "com o cache desligado toda leitura é miss")

	c.Invalidate(ctx, TagUsers)
	c.InvalidatePaths(ctx, PathDashboard)
}

func TestInvalidatePaths(t *testing.T) {
	c, mr := novoRedisDeTeste(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("path:/dashboard", "html"))

	c.InvalidatePaths(ctx, PathDashboard)

	assert.False(t, mr.Exists("path:/dashboard"))
}
