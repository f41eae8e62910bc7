package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// txBeginner lo implementan *pgxpool.Pool y los mocks de pgxmock.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db txBeginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db txBeginner) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos construye todos los repositorios sobre db (pool o transacción).
func NewRepos(db DBTX) repository.TxRepos {
	return repository.TxRepos{
		Companies:     NewCompanyRepository(db),
		Departments:   NewDepartmentRepository(db),
		Users:         NewUserRepository(db),
		Software:      NewSoftwareRepository(db),
		Contracts:     NewContractRepository(db),
		Reviews:       NewReviewRepository(db),
		Usage:         NewUsageRepository(db),
		Requests:      NewSoftwareRequestRepository(db),
		Votes:         NewVoteRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}
