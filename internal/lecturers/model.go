package lecturers

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lecturer represents a lecturer on the payroll register.
type Lecturer struct {
	ID                int64           `json:"id"`
	FullName          string          `json:"full_name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone"`
	Department        string          `json:"department"`
	EmployeeNumber    string          `json:"employee_number"`
	BankName          string          `json:"bank_name"`
	AccountNumber     string          `json:"account_number"`
	TaxNumber         string          `json:"tax_number"`
	DefaultHourlyRate decimal.Decimal `json:"default_hourly_rate"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
