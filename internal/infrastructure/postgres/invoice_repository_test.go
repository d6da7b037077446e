package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

func newMockRepo(t *testing.T) (*InvoiceRepo, pgxmock.PgxConnIface) {
	t.Helper()
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close(context.Background()) })
	return NewInvoiceRepository(mock), mock
}

func sampleInvoice() *entity.Invoice {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return &entity.Invoice{
		ID:          "0d7c5f38-9a5e-4c5f-8f0e-3b7f8c1d2e4a",
		Seq:         42,
		UserID:      "5b1d7f0e-1c2a-4f3e-9d8c-7a6b5c4d3e2f",
		CustomerID:  "7f9c24e8-3b12-4a5e-9d2c-1a2b3c4d5e6f",
		Number:      "INV20240501-0042",
		InvoiceDate: now,
		DueDate:     now.AddDate(0, 0, 30),
		Status:      entity.InvoiceStatusPending,
		Subtotal:    decimal.RequireFromString("20.00"),
		TaxPercent:  decimal.RequireFromString("5.00"),
		TaxAmount:   decimal.RequireFromString("1.00"),
		Total:       decimal.RequireFromString("21.00"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestLastSequence_BloqueaAntesDeLeerMaximo(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock($1)`)).
		WithArgs(invoiceNumberLock).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(seq), 0) FROM invoices`)).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(41)))

	last, err := repo.LastSequence(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(41), last)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLastSequence_FalloDelLockNoLeeMaximo(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock($1)`)).
		WithArgs(invoiceNumberLock).
		WillReturnError(errors.New("canceling statement due to lock timeout"))

	_, err := repo.LastSequence(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock invoice sequence")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_NumeroDuplicadoEsErrorPropio(t *testing.T) {
	for _, constraint := range []string{"invoices_number_key", "invoices_seq_key"} {
		t.Run(constraint, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			mock.ExpectExec(`INSERT INTO invoices`).
				WithArgs(anyArgs(16)...).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: constraint})

			err := repo.Create(context.Background(), sampleInvoice())

			assert.ErrorIs(t, err, domain.ErrInvoiceNumberTaken)
			assert.ErrorIs(t, err, domain.ErrDuplicate)
			assert.Contains(t, err.Error(), constraint)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreate_OtrosErroresNoSonDuplicado(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`INSERT INTO invoices`).
		WithArgs(anyArgs(16)...).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "invoices_customer_id_fkey"})

	err := repo.Create(context.Background(), sampleInvoice())

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvoiceNumberTaken)
}

func TestCreate_EnviaColumnasEnOrden(t *testing.T) {
	repo, mock := newMockRepo(t)
	inv := sampleInvoice()
	mock.ExpectExec(`INSERT INTO invoices`).
		WithArgs(inv.ID, inv.Seq, inv.UserID, inv.CustomerID, inv.Number, inv.InvoiceDate, inv.DueDate, inv.Status,
			inv.Subtotal, inv.TaxPercent, inv.TaxAmount, inv.Total, inv.Notes, inv.SentAt, inv.CreatedAt, inv.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), inv))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_SinFilasEsNoEncontrada(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`UPDATE invoices`).
		WithArgs(anyArgs(12)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), sampleInvoice())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteItems(t *testing.T) {
	const invoiceID = "0d7c5f38-9a5e-4c5f-8f0e-3b7f8c1d2e4a"

	t.Run("sin ids no toca la base", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		require.NoError(t, repo.DeleteItems(context.Background(), invoiceID, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("acota el borrado a la factura", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		ids := []string{"b1", "c1"}
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM invoice_items WHERE invoice_id = $1 AND id::TEXT = ANY($2)`)).
			WithArgs(invoiceID, ids).
			WillReturnResult(pgxmock.NewResult("DELETE", 2))

		require.NoError(t, repo.DeleteItems(context.Background(), invoiceID, ids))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListItems_OrdenDeInsercion(t *testing.T) {
	repo, mock := newMockRepo(t)
	const invoiceID = "0d7c5f38-9a5e-4c5f-8f0e-3b7f8c1d2e4a"
	rows := pgxmock.NewRows([]string{"id", "invoice_id", "description", "quantity", "unit_price", "total"}).
		AddRow("a1", invoiceID, "A", decimal.RequireFromString("1"), decimal.RequireFromString("10.00"), decimal.RequireFromString("10.00")).
		AddRow("d1", invoiceID, "D", decimal.RequireFromString("2"), decimal.RequireFromString("5.00"), decimal.RequireFromString("10.00"))
	mock.ExpectQuery(`FROM invoice_items WHERE invoice_id = \$1 ORDER BY position`).
		WithArgs(invoiceID).
		WillReturnRows(rows)

	items, err := repo.ListItems(context.Background(), invoiceID)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "a1", items[0].ID)
	assert.Equal(t, "D", items[1].Description)
	assert.True(t, decimal.RequireFromString("5").Equal(items[1].UnitPrice))
	assert.NoError(t, mock.ExpectationsWereMet())
}
