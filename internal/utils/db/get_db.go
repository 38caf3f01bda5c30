package db

import (
	"gorm.io/gorm"

	"github.com/paineladmin/api-usuarios/internal/config"
)

// GetDB monta a conexão a partir da configuração do processo.
func GetDB(cfg *config.Config) (*gorm.DB, error) {
	return ConnectDataBase(cfg.DBPort, cfg.DBHost, cfg.DBName, cfg.DBSecretID)
}
