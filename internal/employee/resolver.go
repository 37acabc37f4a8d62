package employee

import (
	"math"
	"strings"
	"time"

	"github.com/mesh-intelligence/griddle/internal/numfmt"
	"github.com/mesh-intelligence/griddle/pkg/types"
)

// Resolver maps employees to cells and edits back to employees.
type Resolver struct {
	editable map[string]bool
}

// NewResolver returns a resolver that accepts edits only for the named
// columns. With no arguments the schema's editable columns are used.
func NewResolver(editable ...string) *Resolver {
	if len(editable) == 0 {
		editable = EditableColumns()
	}
	m := make(map[string]bool, len(editable))
	for _, id := range editable {
		m[id] = true
	}
	return &Resolver{editable: m}
}

var _ types.Resolver[Employee] = (*Resolver)(nil)

// Resolve implements types.Resolver.
func (r *Resolver) Resolve(e Employee, columnID string) types.CellValue {
	switch columnID {
	case ColEmail:
		return types.URICell{Data: e.Email, Display: e.Email}
	case ColFirstName:
		return types.TextCell{Data: e.FirstName, Display: e.FirstName}
	case ColLastName:
		return types.TextCell{Data: e.LastName, Display: e.LastName}
	case ColOptIn:
		return types.BooleanCell{Data: e.OptIn}
	case ColTitle:
		return types.TextCell{Data: e.Title, Display: e.Title}
	case ColWebsite:
		return types.URICell{Data: e.Website, Display: stripScheme(e.Website)}
	case ColPerformance:
		return types.CustomCell{Payload: types.Sparkline{
			Values: append([]float64(nil), e.Performance.Values...),
			Color:  e.Performance.Color,
		}}
	case ColTags:
		return types.CustomCell{Payload: types.Tags{
			Tags:   append([]string(nil), e.Tags...),
			Colors: TagColors(e.Tags),
		}}
	case ColManager:
		return types.CustomCell{Payload: types.Persona{Name: e.Manager.Name, Avatar: e.Manager.Avatar}}
	case ColHiredAt:
		var t *time.Time
		if e.HiredAt != nil {
			v := *e.HiredAt
			t = &v
		}
		return types.CustomCell{Payload: types.Date{Time: t}, Display: types.FormatDate(t)}
	case ColSalary:
		if e.Salary == nil {
			return types.NumberCell{}
		}
		v := *e.Salary
		return types.NumberCell{Data: &v, Display: numfmt.Format(v)}
	case ColStage:
		var tags []string
		if e.Stage != "" {
			tags = []string{e.Stage}
		}
		return types.CustomCell{Payload: types.Tags{Tags: tags, Colors: stageColors(), Key: ColStage}}
	default:
		return types.TextCell{}
	}
}

// ApplyEdit implements types.Resolver. Edits to columns outside the
// editable set, edits of the wrong kind and invalid instants return e as is.
// A date edit carrying a nil instant clears the hire date.
func (r *Resolver) ApplyEdit(e Employee, columnID string, edit types.CellValue) Employee {
	if !r.editable[columnID] || edit == nil {
		return e
	}

	switch columnID {
	case ColEmail, ColFirstName, ColLastName, ColTitle, ColWebsite:
		s, ok := textOf(edit)
		if !ok {
			return e
		}
		setText(&e, columnID, s)
	case ColOptIn:
		b, ok := edit.(types.BooleanCell)
		if !ok {
			return e
		}
		e.OptIn = b.Data
	case ColHiredAt:
		d, ok := payloadOf[types.Date](edit)
		if !ok {
			return e
		}
		if d.Time == nil {
			e.HiredAt = nil
			return e
		}
		if d.Time.IsZero() {
			return e
		}
		t := *d.Time
		e.HiredAt = &t
	case ColSalary:
		n, ok := edit.(types.NumberCell)
		if !ok {
			return e
		}
		if n.Data == nil {
			e.Salary = nil
			return e
		}
		if math.IsNaN(*n.Data) || math.IsInf(*n.Data, 0) {
			return e
		}
		v := *n.Data
		e.Salary = &v
	case ColStage:
		tags, ok := payloadOf[types.Tags](edit)
		if !ok {
			return e
		}
		if len(tags.Tags) == 0 {
			e.Stage = ""
			return e
		}
		if _, known := stageOption(tags.Tags[0]); !known {
			return e
		}
		e.Stage = tags.Tags[0]
	}
	return e
}

func textOf(edit types.CellValue) (string, bool) {
	switch c := edit.(type) {
	case types.TextCell:
		return c.Data, true
	case types.URICell:
		return c.Data, true
	}
	return "", false
}

func payloadOf[P types.Payload](edit types.CellValue) (P, bool) {
	var zero P
	c, ok := edit.(types.CustomCell)
	if !ok || c.Payload == nil {
		return zero, false
	}
	p, ok := c.Payload.(P)
	return p, ok
}

func setText(e *Employee, columnID, s string) {
	switch columnID {
	case ColEmail:
		e.Email = s
	case ColFirstName:
		e.FirstName = s
	case ColLastName:
		e.LastName = s
	case ColTitle:
		e.Title = s
	case ColWebsite:
		e.Website = s
	}
}

func stripScheme(u string) string {
	if s, ok := strings.CutPrefix(u, "https://"); ok {
		return s
	}
	if s, ok := strings.CutPrefix(u, "http://"); ok {
		return s
	}
	return u
}
