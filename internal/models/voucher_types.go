package models

import "time"

// Voucher is the model for the 'vouchers' table. Value is a percent-off.
type Voucher struct {
	ID          int64     `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Description string    `json:"description" db:"description"`
	Value       float64   `json:"percentOff" db:"value"`
	Stock       int       `json:"available-stock" db:"stock"`
	StartDate   time.Time `json:"startDate" db:"start_date"`
	EndDate     time.Time `json:"endDate" db:"end_date"`
	IsActive    bool      `json:"active" db:"is_active"`
}
