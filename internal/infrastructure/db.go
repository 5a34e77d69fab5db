package infrastructure

import (
	"Grana/config"
	"Grana/internal/domain/category"
	"Grana/internal/domain/recurring"
	"Grana/internal/domain/transaction"
	"Grana/internal/domain/user"
	"Grana/internal/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDb(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Error().
			Err(err).
			Str("host", cfg.Database.Host).
			Int("port", cfg.Database.Port).
			Str("database", cfg.Database.DBName).
			Msg("Falha ao conectar ao banco de dados")
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error().Err(err).Msg("Falha ao obter instância do banco de dados")
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	logger.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("database", cfg.Database.DBName).
		Msg("Conexão com banco de dados estabelecida com sucesso")

	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

func runMigrations(db *gorm.DB) error {
	logger.Info().Msg("Executando migrations...")

	entities := []interface{}{
		&user.User{},
		&category.Category{},
		&transaction.Transaction{},
		&recurring.RecurrenceRule{},
	}

	for _, entity := range entities {
		if err := db.AutoMigrate(entity); err != nil {
			logger.Error().
				Err(err).
				Str("entity", getEntityName(entity)).
				Msg("Erro ao migrar entidade")
			return err
		}
	}

	if err := backfillRecurrenceCursors(db); err != nil {
		logger.Warn().Err(err).Msg("Aviso ao preencher cursores de recorrências antigas")
	}

	logger.Info().Msg("Migrations executadas com sucesso!")
	return nil
}

// backfillRecurrenceCursors inicializa o cursor de regras criadas antes da
// coluna next_run_date existir, apontando-o para a data inicial da série.
func backfillRecurrenceCursors(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	checkQuery := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = 'recurrence_rules'
		AND column_name = 'next_run_date'
	`

	var columnName string
	if err := sqlDB.QueryRow(checkQuery).Scan(&columnName); err != nil {
		return nil
	}

	result, err := sqlDB.Exec(`
		UPDATE recurrence_rules
		SET next_run_date = start_date
		WHERE next_run_date IS NULL
	`)
	if err != nil {
		return err
	}

	if rows, err := result.RowsAffected(); err == nil && rows > 0 {
		logger.Info().
			Int64("rules", rows).
			Msg("Cursores de recorrências antigas inicializados com a data inicial")
	}

	return nil
}

func getEntityName(entity interface{}) string {
	switch entity.(type) {
	case *user.User:
		return "User"
	case *category.Category:
		return "Category"
	case *transaction.Transaction:
		return "Transaction"
	case *recurring.RecurrenceRule:
		return "RecurrenceRule"
	default:
		return "Unknown"
	}
}
