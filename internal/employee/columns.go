package employee

import "github.com/mesh-intelligence/griddle/pkg/types"

// Columns returns a fresh copy of the employee schema in display order.
func Columns() []types.Column {
	return []types.Column{
		{ID: ColEmail, Title: "Email", Group: "ID", Width: 240, Type: types.ColumnURI, Editable: true, Icon: "email"},
		{ID: ColFirstName, Title: "First name", Group: "Name", Width: 160, Type: types.ColumnText, Editable: true, Icon: "string"},
		{ID: ColLastName, Title: "Last name", Group: "Name", Width: 180, Type: types.ColumnText, Editable: true, Icon: "string"},
		{ID: ColOptIn, Title: "Opt-In", Group: "Info", Width: 96, Type: types.ColumnBoolean, Editable: true, Icon: "boolean"},
		{ID: ColTitle, Title: "Title", Group: "Info", Width: 260, Type: types.ColumnText, Editable: true, Icon: "string"},
		{ID: ColWebsite, Title: "More Info", Group: "Info", Width: 240, Type: types.ColumnURI, Editable: true, Icon: "uri"},
		{ID: ColPerformance, Title: "Performance", Group: "Performance", Width: 240, Type: types.ColumnSparkline, Icon: "chart"},
		{ID: ColTags, Title: "Tags", Group: "Info", Width: 240, Type: types.ColumnTag, Icon: "array"},
		{ID: ColManager, Title: "Manager", Group: "Employment Data", Width: 260, Type: types.ColumnPersona, Icon: "image"},
		{ID: ColHiredAt, Title: "Hired", Group: "Employment Data", Width: 180, Type: types.ColumnDate, Editable: true, Icon: "date"},
		{ID: ColSalary, Title: "Salary", Group: "Employment Data", Width: 140, Type: types.ColumnNumber, Editable: true, Icon: "number"},
		{ID: ColStage, Title: "Stage", Group: "Pipeline", Width: 140, Type: types.ColumnTag, Editable: true, Icon: "picker"},
	}
}

// EditableColumns returns the IDs of the columns marked editable.
func EditableColumns() []string {
	var ids []string
	for _, c := range Columns() {
		if c.Editable {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
