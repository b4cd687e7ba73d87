package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/diewo77/go-quotations/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupArchiveTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.QuotationRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func sampleQuotation(id models.EntityID, amount float64) models.Quotation {
	it := models.Item{ID: "r1", SerialNo: "1", Description: "Widget", Amount: amount}
	it.Fields = it.Fields.Set("qty", "2").Set("price", "100")
	q := models.Quotation{
		ID:       id,
		Company:  models.Company{ID: id, Name: string(id) + " Ltd"},
		Number:   "Q-1",
		Date:     "2026-10-15",
		Customer: map[string]string{"customerName": "Acme"},
		TaxRate:  18,
		Columns:  models.DefaultColumns(),
		Items:    []models.Item{it},
	}
	NewTotalsCalculator(nil).Apply(&q)
	return q
}

func TestArchiveSaveListGet(t *testing.T) {
	db := setupArchiveTestDB(t)
	a := NewQuotationArchive(db)
	ctx := context.Background()

	recs, err := a.SaveAll(ctx, "s1", []models.Quotation{sampleQuotation("gtc", 200), sampleQuotation("gdc", 220)})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(recs) != 2 || recs[0].ID == 0 {
		t.Fatalf("records = %+v", recs)
	}
	if _, err := a.Save(ctx, "s2", sampleQuotation("gtc", 1)); err != nil {
		t.Fatalf("save s2: %v", err)
	}

	list, err := a.List(ctx, "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].EntityID != "gtc" || list[1].Subtotal != 220 {
		t.Fatalf("list = %+v", list)
	}

	q, err := a.Get(ctx, recs[1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if q.ID != "gdc" || q.Field("customerName") != "Acme" || len(q.Items) != 1 {
		t.Fatalf("decoded = %+v", q)
	}
	if v, _ := q.Items[0].Fields.Get("price"); v != "100" || q.Items[0].Amount != 220 {
		t.Fatalf("item = %+v", q.Items[0])
	}
	if len(q.Columns) != 4 {
		t.Fatalf("columns = %+v", q.Columns)
	}
}

func TestArchiveGetMissing(t *testing.T) {
	a := NewQuotationArchive(setupArchiveTestDB(t))
	if _, err := a.Get(context.Background(), 999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
