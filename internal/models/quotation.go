package models

import "maps"

// EntityID identifies one participant quotation in a bulk-quotation session.
type EntityID string

// Company holds the presentation metadata of one participant. The
// synchronization core never reads it.
type Company struct {
	ID           EntityID `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Address      string   `json:"address,omitempty" yaml:"address"`
	Phone        string   `json:"phone,omitempty" yaml:"phone"`
	Email        string   `json:"email,omitempty" yaml:"email"`
	GSTIN        string   `json:"gstin,omitempty" yaml:"gstin"`
	NumberPrefix string   `json:"number_prefix,omitempty" yaml:"number_prefix"`
	// AccentColor is a hex colour ("#1f4e79") used for headings in the PDF.
	AccentColor string `json:"accent_color,omitempty" yaml:"accent_color"`
}

// Column describes one dynamic item field.
type Column struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
}

// DefaultColumns is the item schema a new quotation starts with.
func DefaultColumns() []Column {
	return []Column{
		{ID: KeyDescription, DisplayName: "Description"},
		{ID: "qty", DisplayName: "Qty"},
		{ID: "price", DisplayName: "Price"},
		{ID: KeyAmount, DisplayName: "Amount"},
	}
}

// Totals are derived from a quotation's items and tax rate and are never
// edited by hand.
type Totals struct {
	Subtotal      float64 `json:"subtotal"`
	TaxAmount     float64 `json:"tax_amount"`
	GrandTotal    float64 `json:"grand_total"`
	AmountInWords string  `json:"amount_in_words"`
}

// Quotation is one company's version of the document.
type Quotation struct {
	ID      EntityID `json:"id"`
	Company Company  `json:"company"`

	// Opaque identifying metadata.
	Number string `json:"number,omitempty"`
	Date   string `json:"date,omitempty"`

	Customer map[string]string `json:"customer"`
	TaxRate  float64           `json:"tax_rate"`
	Columns  []Column          `json:"columns"`
	Items    []Item            `json:"items"`
	Totals   Totals            `json:"totals"`
}

// Clone returns a deep copy, so that the copy can be changed without
// affecting q.
func (q Quotation) Clone() Quotation {
	q.Customer = maps.Clone(q.Customer)
	if q.Customer == nil {
		q.Customer = map[string]string{}
	}
	q.Columns = append([]Column(nil), q.Columns...)
	q.Items = CloneItems(q.Items)
	return q
}

// Field returns a customer field value ("" when unset).
func (q Quotation) Field(name string) string {
	return q.Customer[name]
}
