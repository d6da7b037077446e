package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/application/usecase"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

var (
	_ billing.InvoiceTxRunner = (*TxRunner)(nil)
	_ usecase.AccountTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunInvoice inicia una transacción con los repos de clientes, facturas y bitácora.
// Cualquier error devuelto por fn revierte la transacción.
func (r *TxRunner) RunInvoice(ctx context.Context, fn func(
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	logRepo repository.ActivityLogRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	customerRepo := NewCustomerRepository(tx)
	invoiceRepo := NewInvoiceRepository(tx)
	logRepo := NewActivityLogRepository(tx)

	if err := fn(customerRepo, invoiceRepo, logRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunAccount inicia una transacción con los repos de usuarios, configuración de empresa y bitácora.
func (r *TxRunner) RunAccount(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	settingsRepo repository.CompanySettingRepository,
	logRepo repository.ActivityLogRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	userRepo := NewUserRepository(tx)
	settingsRepo := NewCompanySettingRepository(tx)
	logRepo := NewActivityLogRepository(tx)

	if err := fn(userRepo, settingsRepo, logRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
