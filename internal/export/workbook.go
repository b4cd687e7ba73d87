// Package export writes a session's quotations to an XLSX workbook, one
// sheet per company.
package export

import (
	"fmt"
	"strings"

	"github.com/diewo77/go-quotations/internal/models"
	"github.com/diewo77/go-quotations/internal/numeric"
	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// Workbook builds the workbook in memory and returns its bytes.
func Workbook(qs []models.Quotation) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	used := map[string]bool{}
	for i, q := range qs {
		name := uniqueName(sheetName(q), used)
		if i == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("add sheet %q: %w", name, err)
		}
		if err := writeSheet(f, name, q); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, q models.Quotation) error {
	row := 1
	put := func(values ...any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(sheet, cell, &values)
	}

	if err := put(q.Company.Name); err != nil {
		return err
	}
	if err := put("Quotation No", q.Number, "Date", q.Date); err != nil {
		return err
	}
	row++

	header := []any{"S.No"}
	for _, c := range q.Columns {
		header = append(header, c.DisplayName)
	}
	if err := put(header...); err != nil {
		return err
	}
	for _, it := range q.Items {
		values := []any{it.SerialNo}
		for _, c := range q.Columns {
			values = append(values, cellValue(it, c.ID))
		}
		if err := put(values...); err != nil {
			return err
		}
	}
	row++

	if err := put("Subtotal", q.Totals.Subtotal); err != nil {
		return err
	}
	if err := put("Tax", q.Totals.TaxAmount); err != nil {
		return err
	}
	if err := put("Grand Total", q.Totals.GrandTotal); err != nil {
		return err
	}
	return put(q.Totals.AmountInWords)
}

// cellValue writes numeric text as a number so spreadsheet formulas work.
func cellValue(it models.Item, columnID string) any {
	switch columnID {
	case models.KeyDescription:
		return it.Description
	case models.KeyAmount:
		return it.Amount
	}
	v, _ := it.Fields.Get(columnID)
	if n, ok := numeric.Parse(v); ok {
		return n
	}
	return v
}

func sheetName(q models.Quotation) string {
	name := q.Company.Name
	if name == "" {
		name = string(q.ID)
	}
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, name)
	name = strings.Trim(name, "'")
	if name == "" {
		name = "Quotation"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}

func uniqueName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		r := []rune(name)
		if len(r)+len(suffix) > maxSheetName {
			r = r[:maxSheetName-len(suffix)]
		}
		candidate = string(r) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
