package invoicing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/invoicing-api/internal/domain/invoicing"
)

func TestFormatNumber(t *testing.T) {
	date := time.Date(2024, 5, 1, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "INV20240501-0042", invoicing.FormatNumber("INV", date, invoicing.NextSequence(41)))
	assert.Equal(t, "INV20240501-0001", invoicing.FormatNumber("", date, invoicing.NextSequence(0)))
	assert.Equal(t, "ACME20240501-12345", invoicing.FormatNumber("ACME", date, 12345))
}
