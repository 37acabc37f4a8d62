// Package employee is the sample data set shipped with griddle: an employee
// record, its fixed column schema, the resolver that maps records to cells
// and edits back to records, and a seeded generator.
package employee

import (
	"strings"
	"time"

	"github.com/mesh-intelligence/griddle/pkg/types"
)

// Column IDs of the employee schema.
const (
	ColEmail       = "email"
	ColFirstName   = "firstName"
	ColLastName    = "lastName"
	ColOptIn       = "optIn"
	ColTitle       = "title"
	ColWebsite     = "website"
	ColPerformance = "performance"
	ColTags        = "tags"
	ColManager     = "manager"
	ColHiredAt     = "hiredAt"
	ColSalary      = "salary"
	ColStage       = "stage"
)

// Manager is the person shown in the persona column.
type Manager struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Performance is the series drawn in the sparkline column.
type Performance struct {
	Values []float64 `json:"values"`
	Color  string    `json:"color"`
}

// Employee is one row of the sample grid.
type Employee struct {
	ID          int         `json:"id"`
	Email       string      `json:"email"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	OptIn       bool        `json:"opt_in"`
	Title       string      `json:"title"`
	Website     string      `json:"website"`
	Performance Performance `json:"performance"`
	Tags        []string    `json:"tags"`
	Manager     Manager     `json:"manager"`
	HiredAt     *time.Time  `json:"hired_at"`
	Salary      *float64    `json:"salary"`
	Stage       string      `json:"stage"`
}

// RowID implements types.Record.
func (e Employee) RowID() int { return e.ID }

// Field returns the raw value behind a column: strings, bool, float64 or
// time.Time. Empty optional values and unknown columns return nil.
func (e Employee) Field(columnID string) any {
	switch columnID {
	case ColEmail:
		return e.Email
	case ColFirstName:
		return e.FirstName
	case ColLastName:
		return e.LastName
	case ColOptIn:
		return e.OptIn
	case ColTitle:
		return e.Title
	case ColWebsite:
		return e.Website
	case ColPerformance:
		if len(e.Performance.Values) == 0 {
			return nil
		}
		return e.Performance.Values
	case ColTags:
		if len(e.Tags) == 0 {
			return nil
		}
		return strings.Join(e.Tags, ", ")
	case ColManager:
		if e.Manager.Name == "" {
			return nil
		}
		return e.Manager.Name
	case ColHiredAt:
		if e.HiredAt == nil {
			return nil
		}
		return *e.HiredAt
	case ColSalary:
		if e.Salary == nil {
			return nil
		}
		return *e.Salary
	case ColStage:
		if e.Stage == "" {
			return nil
		}
		return e.Stage
	default:
		return nil
	}
}

// Blank returns an empty employee with the given ID. It is the blank-row
// factory used when a row is appended.
func Blank(id int) Employee {
	return Employee{
		ID:          id,
		Performance: Performance{Color: performancePalettes[0]},
	}
}

var _ types.Record = Employee{}
var _ types.BlankRowFunc[Employee] = Blank
