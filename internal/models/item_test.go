package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestItemUnmarshalFlatObject(t *testing.T) {
	var it Item
	raw := `{"id":"r1","serial_no":"1","description":"Widget","price":"100","qty":2,"amount":"200","note":null}`
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if it.ID != "r1" || it.SerialNo != "1" || it.Description != "Widget" {
		t.Fatalf("fixed fields not decoded: %+v", it)
	}
	if it.Amount != 200 {
		t.Fatalf("amount = %v, want 200", it.Amount)
	}
	if got := strings.Join(it.Fields.Keys(), ","); got != "price,qty,note" {
		t.Fatalf("field order = %s", got)
	}
	if v, _ := it.Fields.Get("qty"); v != "2" {
		t.Fatalf("qty = %q, want number literal", v)
	}
	if v, ok := it.Fields.Get("note"); !ok || v != "" {
		t.Fatalf("null should decode to empty string, got %q %v", v, ok)
	}
}

func TestItemUnmarshalMalformedAmount(t *testing.T) {
	var it Item
	if err := json.Unmarshal([]byte(`{"amount":"abc"}`), &it); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if it.Amount != 0 {
		t.Fatalf("amount = %v, want 0", it.Amount)
	}
}

func TestItemUnmarshalRejectsNested(t *testing.T) {
	var it Item
	if err := json.Unmarshal([]byte(`{"qty":{"a":1}}`), &it); err == nil {
		t.Fatalf("expected error for nested object")
	}
}

func TestItemMarshalKeepsOrder(t *testing.T) {
	it := Item{ID: "r1", Description: "Widget", Amount: 220}
	it.Fields = it.Fields.Set("qty", "2").Set("price", "110.00")
	b, err := json.Marshal(it)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"r1","serial_no":"","description":"Widget","amount":220,"qty":"2","price":"110.00"}`
	if string(b) != want {
		t.Fatalf("got %s\nwant %s", b, want)
	}
}

func TestFieldsCopyOnWrite(t *testing.T) {
	a := Fields{{Key: "qty", Value: "1"}}
	b := a.Set("qty", "5")
	if v, _ := a.Get("qty"); v != "1" {
		t.Fatalf("Set modified receiver: %q", v)
	}
	if v, _ := b.Get("qty"); v != "5" {
		t.Fatalf("Set result = %q", v)
	}
	c := b.Delete("qty")
	if len(c) != 0 || len(b) != 1 {
		t.Fatalf("Delete: c=%v b=%v", c, b)
	}
}

func TestQuotationCloneIsDeep(t *testing.T) {
	q := Quotation{
		Customer: map[string]string{"customerName": "Acme"},
		Columns:  DefaultColumns(),
		Items:    []Item{{ID: "a", Fields: Fields{{Key: "qty", Value: "1"}}}},
	}
	c := q.Clone()
	c.Customer["customerName"] = "Other"
	c.Items[0].Fields[0].Value = "9"
	c.Columns[0].DisplayName = "X"
	if q.Customer["customerName"] != "Acme" || q.Items[0].Fields[0].Value != "1" || q.Columns[0].DisplayName != "Description" {
		t.Fatalf("clone shares memory with original: %+v", q)
	}
}

func TestIsProtectedKey(t *testing.T) {
	for _, k := range []string{"id", "serial_no", "description", "amount"} {
		if !IsProtectedKey(k) {
			t.Errorf("%s should be protected", k)
		}
	}
	if IsProtectedKey("qty") {
		t.Errorf("qty is not protected")
	}
}
