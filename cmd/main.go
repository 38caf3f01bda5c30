package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/paineladmin/api-usuarios/internal/cache"
	"github.com/paineladmin/api-usuarios/internal/config"
	"github.com/paineladmin/api-usuarios/internal/csrf"
	"github.com/paineladmin/api-usuarios/internal/logger"
	"github.com/paineladmin/api-usuarios/internal/usuario"
	"github.com/paineladmin/api-usuarios/internal/utils/db"
	"github.com/paineladmin/api-usuarios/internal/viacep"
)

func main() {
	logger.Init()
	log := logger.Logger

	cfg := config.Load()

	database, err := db.GetDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("erro ao conectar no banco")
	}

	if err := database.AutoMigrate(
		&usuario.Usuario{},
		&usuario.ConsultorCliente{},
	); err != nil {
		log.Fatal().Err(err).Msg("erro no AutoMigrate")
	}

	redisCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	var store cache.Store = redisCache
	var invalidator cache.Invalidator = redisCache
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Warn().Err(err).Msg("Redis indisponível; cache de leitura desligado")
		store = cache.Noop{}
		invalidator = cache.Noop{}
	}

	// Guarda anti-forgery compartilhada por todas as rotas de mutação
	tokens := csrf.NewTokens(cfg.CSRFSecret)
	guard := csrf.NewGuard(tokens)

	servico := usuario.NewService(database, usuario.NewRepository(), store, invalidator)
	usuarioHandler := usuario.NewHandler(servico)
	viacepHandler := viacep.NewHandler(viacep.NewClient(cfg.ViaCepBaseURL, store))

	r := mux.NewRouter()

	r.HandleFunc("/csrf-token", tokens.TokenHandler).Methods("GET")
	r.HandleFunc("/cep/{cep}", viacepHandler.BuscarCEP).Methods("GET")

	// Leituras do dashboard
	r.HandleFunc("/usuarios", usuarioHandler.ListarClientes).Methods("GET")
	r.HandleFunc("/usuarios/{id}", usuarioHandler.BuscarPorID).Methods("GET")
	r.HandleFunc("/consultores", usuarioHandler.ListarConsultores).Methods("GET")
	r.HandleFunc("/consultores/opcoes", usuarioHandler.ListarConsultoresOpcoes).Methods("GET")
	r.HandleFunc("/consultores/estatisticas", usuarioHandler.EstatisticasConsultores).Methods("GET")
	r.HandleFunc("/clientes", usuarioHandler.ListarClientesOpcoes).Methods("GET")
	r.HandleFunc("/estatisticas", usuarioHandler.Estatisticas).Methods("GET")

	// Mutações: a guarda roda antes de qualquer acesso ao banco
	mutacoes := r.Methods("POST", "PUT", "DELETE").Subrouter()
	mutacoes.Use(guard.Middleware)
	mutacoes.HandleFunc("/usuarios", usuarioHandler.CriarUsuario).Methods("POST")
	mutacoes.HandleFunc("/usuarios/{id}", usuarioHandler.AtualizarUsuario).Methods("PUT")
	mutacoes.HandleFunc("/usuarios/{id}", usuarioHandler.DeletarUsuario).Methods("DELETE")

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", csrf.HeaderToken},
	}).Handler(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("porta", cfg.Port).Msg("servidor iniciado")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("erro no servidor HTTP")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("desligando...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("erro ao drenar o servidor")
	}
	if err := db.Close(database); err != nil {
		log.Error().Err(err).Msg("erro ao fechar o banco")
	}
	if err := redisCache.Close(); err != nil {
		log.Error().Err(err).Msg("erro ao fechar o Redis")
	}
}
