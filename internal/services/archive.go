package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/diewo77/go-quotations/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuotationArchive stores finalised quotation snapshots.
type QuotationArchive struct {
	db *gorm.DB
}

func NewQuotationArchive(db *gorm.DB) *QuotationArchive {
	return &QuotationArchive{db: db}
}

// Save archives one snapshot.
func (a *QuotationArchive) Save(ctx context.Context, sessionID string, q models.Quotation) (models.QuotationRecord, error) {
	rec, err := toRecord(sessionID, q)
	if err != nil {
		return rec, err
	}
	if err := a.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return rec, fmt.Errorf("archive quotation %s: %w", q.ID, err)
	}
	return rec, nil
}

// SaveAll archives every snapshot of one session in a single transaction.
func (a *QuotationArchive) SaveAll(ctx context.Context, sessionID string, qs []models.Quotation) ([]models.QuotationRecord, error) {
	records := make([]models.QuotationRecord, 0, len(qs))
	for _, q := range qs {
		rec, err := toRecord(sessionID, q)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range records {
			if err := tx.Create(&records[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("archive quotations: %w", err)
	}
	return records, nil
}

// List returns the records of one session, in archive order.
func (a *QuotationArchive) List(ctx context.Context, sessionID string) ([]models.QuotationRecord, error) {
	var recs []models.QuotationRecord
	err := a.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id asc").
		Find(&recs).Error
	return recs, err
}

// Get loads one record and decodes it back into a quotation snapshot.
func (a *QuotationArchive) Get(ctx context.Context, id uint) (models.Quotation, error) {
	var rec models.QuotationRecord
	if err := a.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return models.Quotation{}, err
	}
	return FromRecord(rec)
}

func toRecord(sessionID string, q models.Quotation) (models.QuotationRecord, error) {
	customer, err := json.Marshal(q.Customer)
	if err != nil {
		return models.QuotationRecord{}, err
	}
	columns, err := json.Marshal(q.Columns)
	if err != nil {
		return models.QuotationRecord{}, err
	}
	items, err := json.Marshal(q.Items)
	if err != nil {
		return models.QuotationRecord{}, err
	}
	return models.QuotationRecord{
		SessionID:     sessionID,
		EntityID:      string(q.ID),
		CompanyName:   q.Company.Name,
		Number:        q.Number,
		Date:          q.Date,
		Customer:      datatypes.JSON(customer),
		Columns:       datatypes.JSON(columns),
		Items:         datatypes.JSON(items),
		TaxRate:       q.TaxRate,
		Subtotal:      q.Totals.Subtotal,
		TaxAmount:     q.Totals.TaxAmount,
		GrandTotal:    q.Totals.GrandTotal,
		AmountInWords: q.Totals.AmountInWords,
	}, nil
}

// FromRecord rebuilds a quotation snapshot from an archived record. Only
// the company id and name survive archiving.
func FromRecord(rec models.QuotationRecord) (models.Quotation, error) {
	q := models.Quotation{
		ID:      models.EntityID(rec.EntityID),
		Company: models.Company{ID: models.EntityID(rec.EntityID), Name: rec.CompanyName},
		Number:  rec.Number,
		Date:    rec.Date,
		TaxRate: rec.TaxRate,
		Totals: models.Totals{
			Subtotal:      rec.Subtotal,
			TaxAmount:     rec.TaxAmount,
			GrandTotal:    rec.GrandTotal,
			AmountInWords: rec.AmountInWords,
		},
	}
	if err := json.Unmarshal(rec.Customer, &q.Customer); err != nil {
		return q, fmt.Errorf("decode customer: %w", err)
	}
	if err := json.Unmarshal(rec.Columns, &q.Columns); err != nil {
		return q, fmt.Errorf("decode columns: %w", err)
	}
	if err := json.Unmarshal(rec.Items, &q.Items); err != nil {
		return q, fmt.Errorf("decode items: %w", err)
	}
	return q, nil
}
