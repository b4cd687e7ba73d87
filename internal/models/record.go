package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuotationRecord is an archived, fully resolved quotation snapshot.
type QuotationRecord struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// SessionID groups the records archived together from one bulk workflow.
	SessionID string `gorm:"size:64;index;not null" json:"session_id"`
	EntityID  string `gorm:"size:64;not null" json:"entity_id"`

	CompanyName string `gorm:"size:255" json:"company_name"`
	Number      string `gorm:"size:100" json:"number,omitempty"`
	Date        string `gorm:"size:50" json:"date,omitempty"`

	Customer datatypes.JSON `json:"customer"`
	Columns  datatypes.JSON `json:"columns"`
	Items    datatypes.JSON `json:"items"`

	TaxRate       float64 `gorm:"type:decimal(7,3);not null;default:0" json:"tax_rate"`
	Subtotal      float64 `gorm:"type:decimal(14,2);not null;default:0" json:"subtotal"`
	TaxAmount     float64 `gorm:"type:decimal(14,2);not null;default:0" json:"tax_amount"`
	GrandTotal    float64 `gorm:"type:decimal(14,2);not null;default:0" json:"grand_total"`
	AmountInWords string  `gorm:"size:500" json:"amount_in_words"`
}
