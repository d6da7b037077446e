package invoicing

import (
	"fmt"
	"time"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// NextSequence devuelve el consecutivo siguiente a last (1 si no hay facturas).
func NextSequence(last int64) int64 {
	if last < 1 {
		return 1
	}
	return last + 1
}

// FormatNumber arma el número de factura: prefijo + AAAAMMDD + "-" + consecutivo con 4 dígitos.
// Ej: ("INV", 2024-05-01, 42) → "INV20240501-0042".
func FormatNumber(prefix string, date time.Time, seq int64) string {
	if prefix == "" {
		prefix = entity.DefaultInvoicePrefix
	}
	return fmt.Sprintf("%s%s-%04d", prefix, date.Format("20060102"), seq)
}
