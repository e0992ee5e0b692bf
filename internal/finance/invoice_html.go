package finance

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/claimflow/claimflow/internal/shared"
)

const invoiceTemplate = `<!DOCTYPE html>
<html><head><style>
body { font-family: Arial, sans-serif; margin: 40px; }
.header { text-align: center; margin-bottom: 30px; }
.invoice-details { margin: 20px 0; }
.invoice-table { width: 100%; border-collapse: collapse; margin: 20px 0; }
.invoice-table th, .invoice-table td { padding: 10px; text-align: left; border-bottom: 1px solid #ddd; }
.total { font-weight: bold; font-size: 1.2em; }
</style></head><body>
<div class="header">
<h1>PAYMENT INVOICE</h1>
<h2>Invoice Number: {{.InvoiceNumber}}</h2>
</div>
<div class="invoice-details">
<p><strong>Lecturer:</strong> {{.LecturerName}}</p>
<p><strong>Period:</strong> {{.Period}}</p>
<p><strong>Claim ID:</strong> #{{.ClaimID}}</p>
<p><strong>Invoice Date:</strong> {{.InvoiceDate}}</p>
</div>
<table class="invoice-table">
<thead><tr><th>Description</th><th>Hours</th><th>Rate</th><th>Amount</th></tr></thead>
<tbody>
<tr><td>Lecturing Services - {{.Period}}</td><td>{{.TotalHours}}</td><td>{{.HourlyRate}}</td><td>{{.GrossAmount}}</td></tr>
</tbody>
</table>
<div style="text-align: right; margin-top: 30px;">
<p><strong>Gross Amount:</strong> {{.GrossAmount}}</p>
<p><strong>Tax (20%):</strong> {{.TaxAmount}}</p>
<p class="total"><strong>Net Payable:</strong> {{.NetAmount}}</p>
</div>
</body></html>
`

var invoiceTmpl = template.Must(template.New("invoice").Parse(invoiceTemplate))

type invoiceView struct {
	InvoiceNumber string
	LecturerName  string
	Period        string
	ClaimID       int64
	InvoiceDate   string
	TotalHours    string
	HourlyRate    string
	GrossAmount   string
	TaxAmount     string
	NetAmount     string
}

// RenderInvoiceHTML produces the self-contained invoice document. Output is
// deterministic for a given invoice.
func RenderInvoiceHTML(invoice Invoice) (string, error) {
	period := time.Date(invoice.Year, time.Month(invoice.Month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
	view := invoiceView{
		InvoiceNumber: invoice.InvoiceNumber,
		LecturerName:  invoice.LecturerName,
		Period:        period,
		ClaimID:       invoice.ClaimID,
		InvoiceDate:   invoice.GeneratedAt.Format("2006-01-02"),
		TotalHours:    shared.FormatQuantity(invoice.TotalHours),
		HourlyRate:    shared.FormatAmount(invoice.HourlyRate),
		GrossAmount:   shared.FormatAmount(invoice.GrossAmount),
		TaxAmount:     shared.FormatAmount(invoice.TaxAmount),
		NetAmount:     shared.FormatAmount(invoice.NetAmount),
	}

	var out strings.Builder
	if err := invoiceTmpl.Execute(&out, view); err != nil {
		return "", fmt.Errorf("render invoice %s: %w", invoice.InvoiceNumber, err)
	}
	return out.String(), nil
}
