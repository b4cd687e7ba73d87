// Package script loads YAML event scripts that drive a bulk-quotation
// session from the command line.
//
// A script names the companies (or falls back to the configured ones),
// the initial document and an ordered list of events in the same shape the
// HTTP API accepts:
//
//	number: "001"
//	customer:
//	  customerName: Acme
//	events:
//	  - type: edit_source_items
//	    items:
//	      - {description: Cement, qty: 2, price: 100}
//	  - type: change_adjustment_percent
//	    entity: gdc
//	    percent: 15
package script

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/diewo77/go-quotations/internal/config"
	"github.com/diewo77/go-quotations/internal/models"
	"github.com/diewo77/go-quotations/internal/syncengine"
	"github.com/diewo77/go-quotations/validation"
	"gopkg.in/yaml.v3"
)

// Dependent is one dependent company of a script.
type Dependent struct {
	Company           models.Company `yaml:"company"`
	AdjustmentPercent float64        `yaml:"adjustment_percent"`
}

// Script is a parsed event script.
type Script struct {
	Number     string            `yaml:"number"`
	Date       string            `yaml:"date"`
	TaxRate    *float64          `yaml:"tax_rate"`
	Columns    []models.Column   `yaml:"columns"`
	Customer   map[string]string `yaml:"customer"`
	Source     *models.Company   `yaml:"source"`
	Dependents []Dependent       `yaml:"dependents"`
	Events     []yaml.Node       `yaml:"events"`
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}

// Parse parses a script document.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return &s, nil
}

// Setup builds the session setup. Companies missing from the script come
// from defaults.
func (s *Script) Setup(defaults config.QuotationConfig) syncengine.Setup {
	setup := syncengine.SetupFrom(defaults, s.Number, s.Date)
	if s.Source != nil {
		setup.Source = *s.Source
	}
	if len(s.Dependents) > 0 {
		setup.Dependents = nil
		for _, d := range s.Dependents {
			setup.Dependents = append(setup.Dependents, syncengine.Participant{Company: d.Company, AdjustmentPercent: d.AdjustmentPercent})
		}
	}
	if s.TaxRate != nil {
		setup.TaxRate = *s.TaxRate
	}
	setup.Columns = s.Columns
	setup.Customer = s.Customer
	return setup
}

// Decode converts every event to its engine form.
func (s *Script) Decode() ([]syncengine.Event, error) {
	events := make([]syncengine.Event, 0, len(s.Events))
	for i := range s.Events {
		raw, err := toJSON(&s.Events[i])
		if err != nil {
			return nil, fmt.Errorf("event %d (line %d): %w", i+1, s.Events[i].Line, err)
		}
		ev, err := syncengine.DecodeEvent(raw)
		if err != nil {
			return nil, fmt.Errorf("event %d (line %d): %w", i+1, s.Events[i].Line, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// Step records the outcome of one scripted event.
type Step struct {
	Index      int
	Kind       syncengine.Kind
	Updated    []models.EntityID
	Violations validation.Violations
}

// Run builds a state and applies every event in order. Rejected events are
// reported in the steps and leave the state unchanged; an unknown entity
// stops the run.
func Run(engine *syncengine.Engine, s *Script, defaults config.QuotationConfig) (syncengine.State, []Step, error) {
	events, err := s.Decode()
	if err != nil {
		return syncengine.State{}, nil, err
	}
	st, err := engine.NewState(s.Setup(defaults))
	if err != nil {
		return syncengine.State{}, nil, err
	}
	steps := make([]Step, 0, len(events))
	for i, ev := range events {
		res, err := engine.Apply(st, ev)
		if err != nil {
			return st, steps, fmt.Errorf("event %d (%s): %w", i+1, ev.Kind(), err)
		}
		st = res.State
		steps = append(steps, Step{Index: i + 1, Kind: ev.Kind(), Updated: res.Updated, Violations: res.Violations})
	}
	return st, steps, nil
}

// toJSON renders a YAML node as JSON, keeping mapping keys in document
// order so item fields keep their column order.
func toJSON(n *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeJSON(buf, n.Content[0])
	case yaml.AliasNode:
		return writeJSON(buf, n.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case yaml.ScalarNode:
		return writeScalar(buf, n)
	default:
		return fmt.Errorf("unsupported yaml node at line %d", n.Line)
	}
	return nil
}

func writeScalar(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.ShortTag() {
	case "!!null":
		buf.WriteString("null")
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return err
		}
		buf.WriteString(strconv.FormatBool(b))
		return nil
	case "!!int", "!!float":
		if json.Valid([]byte(n.Value)) {
			buf.WriteString(n.Value)
			return nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return err
		}
		out, err := json.Marshal(f)
		if err != nil {
			// .inf and .nan have no JSON form
			return fmt.Errorf("number %q at line %d: %w", n.Value, n.Line, err)
		}
		buf.Write(out)
		return nil
	}
	out, err := json.Marshal(n.Value)
	if err != nil {
		return err
	}
	buf.Write(out)
	return nil
}
