package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRenderInvoiceHTML(t *testing.T) {
	invoice := Invoice{
		InvoiceNumber: "INV-2025-000007",
		ClaimID:       7,
		LecturerID:    1,
		LecturerName:  "Thandi Mokoena",
		Month:         3,
		Year:          2025,
		TotalHours:    decimal.RequireFromString("10"),
		HourlyRate:    decimal.RequireFromString("500"),
		GrossAmount:   decimal.RequireFromString("5000"),
		TaxAmount:     decimal.RequireFromString("1000"),
		NetAmount:     decimal.RequireFromString("4000"),
		GeneratedAt:   time.Date(2025, time.April, 10, 9, 30, 0, 0, time.UTC),
		Status:        InvoiceGenerated,
	}

	html, err := RenderInvoiceHTML(invoice)
	require.NoError(t, err)
	require.Contains(t, html, "PAYMENT INVOICE")
	require.Contains(t, html, "Invoice Number: INV-2025-000007")
	require.Contains(t, html, "Thandi Mokoena")
	require.Contains(t, html, "March 2025")
	require.Contains(t, html, "2025-04-10")
	require.Contains(t, html, "R 5,000.00")
	require.Contains(t, html, "R 1,000.00")
	require.Contains(t, html, "R 4,000.00")
	require.Contains(t, html, "Tax (20%)")

	again, err := RenderInvoiceHTML(invoice)
	require.NoError(t, err)
	require.Equal(t, html, again)
}
