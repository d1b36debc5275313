package aggregate

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// MarshalJSON renders quantities as JSON numbers rather than the quoted
// strings decimal uses by default.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		OrderNo     string      `json:"OrderNo"`
		Rows        int         `json:"rows"`
		QtyOrdered  json.Number `json:"QtyOrdered"`
		QtyReceived json.Number `json:"QtyReceived"`
		QtyDue      json.Number `json:"QtyDue"`
	}{
		OrderNo:     s.OrderNo,
		Rows:        s.Rows,
		QtyOrdered:  number(s.QtyOrdered),
		QtyReceived: number(s.QtyReceived),
		QtyDue:      number(s.QtyDue),
	})
}

// MarshalYAML renders quantities as plain numbers.
func (s Summary) MarshalYAML() (any, error) {
	return map[string]any{
		"OrderNo":     s.OrderNo,
		"rows":        s.Rows,
		"QtyOrdered":  s.QtyOrdered.InexactFloat64(),
		"QtyReceived": s.QtyReceived.InexactFloat64(),
		"QtyDue":      s.QtyDue.InexactFloat64(),
	}, nil
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
