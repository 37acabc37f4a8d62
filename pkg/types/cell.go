package types

import (
	"strconv"
	"strings"
	"time"
)

// CellKind discriminates the CellValue union.
type CellKind int

// Cell kinds understood by the surface. Loading is the placeholder returned
// for out-of-range addresses.
const (
	KindLoading CellKind = iota
	KindText
	KindBoolean
	KindURI
	KindNumber
	KindCustom
)

var cellKindNames = [...]string{
	KindLoading: "loading",
	KindText:    "text",
	KindBoolean: "boolean",
	KindURI:     "uri",
	KindNumber:  "number",
	KindCustom:  "custom",
}

func (k CellKind) String() string {
	if k < 0 || int(k) >= len(cellKindNames) {
		return "CellKind(" + strconv.Itoa(int(k)) + ")"
	}
	return cellKindNames[k]
}

// CellValue is a resolved, renderable cell. The union is sealed; the set of
// implementations is exactly the XxxCell types in this package. Code that
// must handle every kind implements CellVisitor, so adding a kind breaks the
// build until every visitor handles it.
type CellValue interface {
	Kind() CellKind
	Accept(v CellVisitor)
	isCell()
}

// CellVisitor handles each member of the CellValue union.
type CellVisitor interface {
	VisitLoading(LoadingCell)
	VisitText(TextCell)
	VisitBoolean(BooleanCell)
	VisitURI(URICell)
	VisitNumber(NumberCell)
	VisitCustom(CustomCell)
}

// LoadingCell is the neutral placeholder for addresses outside current bounds.
type LoadingCell struct{}

// TextCell holds plain text.
type TextCell struct {
	Data    string `json:"data"`
	Display string `json:"display"`
}

// BooleanCell holds a checkbox value.
type BooleanCell struct {
	Data bool `json:"data"`
}

// URICell holds a link and the text shown for it.
type URICell struct {
	Data    string `json:"data"`
	Display string `json:"display"`
}

// NumberCell holds an optional number. A nil Data is an empty cell.
type NumberCell struct {
	Data    *float64 `json:"data"`
	Display string   `json:"display"`
}

// CustomCell carries a payload drawn by a registered custom renderer.
type CustomCell struct {
	Payload Payload `json:"payload"`
	Display string  `json:"display,omitempty"`
}

func (LoadingCell) Kind() CellKind { return KindLoading }
func (TextCell) Kind() CellKind    { return KindText }
func (BooleanCell) Kind() CellKind { return KindBoolean }
func (URICell) Kind() CellKind     { return KindURI }
func (NumberCell) Kind() CellKind  { return KindNumber }
func (CustomCell) Kind() CellKind  { return KindCustom }

func (c LoadingCell) Accept(v CellVisitor) { v.VisitLoading(c) }
func (c TextCell) Accept(v CellVisitor)    { v.VisitText(c) }
func (c BooleanCell) Accept(v CellVisitor) { v.VisitBoolean(c) }
func (c URICell) Accept(v CellVisitor)     { v.VisitURI(c) }
func (c NumberCell) Accept(v CellVisitor)  { v.VisitNumber(c) }
func (c CustomCell) Accept(v CellVisitor)  { v.VisitCustom(c) }

func (LoadingCell) isCell() {}
func (TextCell) isCell()    {}
func (BooleanCell) isCell() {}
func (URICell) isCell()     {}
func (NumberCell) isCell()  {}
func (CustomCell) isCell()  {}

// CustomKind tags the payload of a custom cell.
type CustomKind string

// Custom payload kinds.
const (
	CustomSparkline CustomKind = "sparkline"
	CustomPersona   CustomKind = "persona"
	CustomTags      CustomKind = "tags"
	CustomDate      CustomKind = "date"
)

// CustomKinds lists every payload kind, in registry order.
var CustomKinds = []CustomKind{CustomSparkline, CustomPersona, CustomTags, CustomDate}

// Payload is the sealed union of custom cell payloads.
type Payload interface {
	CustomKind() CustomKind
	Accept(v PayloadVisitor)
	isPayload()
}

// PayloadVisitor handles each member of the Payload union.
type PayloadVisitor interface {
	VisitSparkline(Sparkline)
	VisitPersona(Persona)
	VisitTags(Tags)
	VisitDate(Date)
}

// Sparkline is an ordered series drawn as a small line chart.
type Sparkline struct {
	Values []float64 `json:"values"`
	Color  string    `json:"color"`
}

// Persona is an avatar image next to a name.
type Persona struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// TagColor is the pill background and text colour for one tag.
type TagColor struct {
	BG string `json:"bg"`
	FG string `json:"fg"`
}

// Tags is an ordered list of distinct labels with optional colours.
type Tags struct {
	Tags   []string            `json:"tags"`
	Colors map[string]TagColor `json:"colors,omitempty"`
	// Key names the record field a dropdown editor writes back to.
	Key string `json:"key,omitempty"`
}

// Date holds an optional instant. A nil Time is the empty value.
type Date struct {
	Time *time.Time `json:"time"`
}

func (Sparkline) CustomKind() CustomKind { return CustomSparkline }
func (Persona) CustomKind() CustomKind   { return CustomPersona }
func (Tags) CustomKind() CustomKind      { return CustomTags }
func (Date) CustomKind() CustomKind      { return CustomDate }

func (p Sparkline) Accept(v PayloadVisitor) { v.VisitSparkline(p) }
func (p Persona) Accept(v PayloadVisitor)   { v.VisitPersona(p) }
func (p Tags) Accept(v PayloadVisitor)      { v.VisitTags(p) }
func (p Date) Accept(v PayloadVisitor)      { v.VisitDate(p) }

func (Sparkline) isPayload() {}
func (Persona) isPayload()   {}
func (Tags) isPayload()      {}
func (Date) isPayload()      {}

// DateLayout formats dates for display, e.g. "Fri Jan 12 2024".
const DateLayout = "Mon Jan 02 2006"

// InvalidDateDisplay is shown for an empty date cell.
const InvalidDateDisplay = "Invalid Date"

// FormatDate renders t with DateLayout, or InvalidDateDisplay when t is nil.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return InvalidDateDisplay
	}
	return t.Format(DateLayout)
}

// IsCustomKind reports whether cell is a custom cell with the given payload kind.
func IsCustomKind(cell CellValue, kind CustomKind) bool {
	c, ok := cell.(CustomCell)
	return ok && c.Payload != nil && c.Payload.CustomKind() == kind
}

// CopyText returns the plain-text form of a cell used for clipboard copies
// and text dumps.
func CopyText(cell CellValue) string {
	if cell == nil {
		return ""
	}
	var t copyTexter
	cell.Accept(&t)
	return t.out
}

type copyTexter struct{ out string }

func (t *copyTexter) VisitLoading(LoadingCell)   {}
func (t *copyTexter) VisitText(c TextCell)       { t.out = c.Data }
func (t *copyTexter) VisitURI(c URICell)         { t.out = c.Data }
func (t *copyTexter) VisitBoolean(c BooleanCell) { t.out = strconv.FormatBool(c.Data) }

func (t *copyTexter) VisitNumber(c NumberCell) {
	if c.Data != nil {
		t.out = strconv.FormatFloat(*c.Data, 'f', -1, 64)
	}
}

func (t *copyTexter) VisitCustom(c CustomCell) {
	if c.Payload != nil {
		c.Payload.Accept(t)
	}
}

func (t *copyTexter) VisitSparkline(p Sparkline) {
	parts := make([]string, len(p.Values))
	for i, v := range p.Values {
		parts[i] = strconv.FormatFloat(v, 'f', 2, 64)
	}
	t.out = strings.Join(parts, ", ")
}

func (t *copyTexter) VisitPersona(p Persona) { t.out = p.Name }
func (t *copyTexter) VisitTags(p Tags)       { t.out = strings.Join(p.Tags, ", ") }

func (t *copyTexter) VisitDate(p Date) {
	if p.Time != nil {
		t.out = FormatDate(p.Time)
	}
}
