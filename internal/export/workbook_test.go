package export

import (
	"bytes"
	"testing"

	"github.com/diewo77/go-quotations/internal/models"
	"github.com/xuri/excelize/v2"
)

func quotation(id models.EntityID, name string, price string, amount float64) models.Quotation {
	it := models.Item{ID: "r1", SerialNo: "1", Description: "Cement", Amount: amount}
	it.Fields = it.Fields.Set("qty", "2").Set("price", price)
	return models.Quotation{
		ID:      id,
		Company: models.Company{ID: id, Name: name},
		Number:  "Q-7",
		Columns: models.DefaultColumns(),
		Items:   []models.Item{it},
		Totals:  models.Totals{Subtotal: amount, GrandTotal: amount, AmountInWords: "Rupees Zero Only"},
	}
}

func TestWorkbookOneSheetPerCompany(t *testing.T) {
	out, err := Workbook([]models.Quotation{
		quotation("gtc", "Global Trading Co", "100", 200),
		quotation("gdc", "Global/Distribution", "110.00", 220),
	})
	if err != nil {
		t.Fatalf("workbook: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Global Trading Co" || sheets[1] != "Global-Distribution" {
		t.Fatalf("sheets = %v", sheets)
	}
	rows, err := f.GetRows(sheets[1])
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if rows[0][0] != "Global/Distribution" {
		t.Fatalf("title row = %v", rows[0])
	}
	if got := rows[3]; len(got) != 5 || got[0] != "S.No" || got[1] != "Description" || got[4] != "Amount" {
		t.Fatalf("header row = %v", got)
	}
	if got := rows[4]; got[1] != "Cement" || got[3] != "110" || got[4] != "220" {
		t.Fatalf("item row = %v", got)
	}
}

func TestSheetNames(t *testing.T) {
	used := map[string]bool{}
	a := uniqueName(sheetName(models.Quotation{ID: "a", Company: models.Company{Name: "Same"}}), used)
	b := uniqueName(sheetName(models.Quotation{ID: "b", Company: models.Company{Name: "same"}}), used)
	if a != "Same" || b != "same (2)" {
		t.Fatalf("names = %q %q", a, b)
	}
	long := sheetName(models.Quotation{Company: models.Company{Name: "A company name that is far too long for excel"}})
	if len([]rune(long)) != maxSheetName {
		t.Fatalf("long name = %q", long)
	}
	if got := sheetName(models.Quotation{ID: "gtc"}); got != "gtc" {
		t.Fatalf("fallback = %q", got)
	}
}
