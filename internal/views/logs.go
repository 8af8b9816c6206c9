package views

import (
	"github.com/edupredict/edupredict/internal/listview"
)

// ActivityLogs is the user activity log.
func ActivityLogs() View {
	cols := []Column{
		{Header: "TIMESTAMP", Field: "timestamp", Width: 20},
		{Header: "USER", Field: "user", Width: 18},
		{Header: "ACTION", Field: "action", Width: 16},
		{Header: "DETAILS", Field: "details", Width: 40},
	}
	return View{
		Name:    "activity",
		Title:   "Activity log",
		IDField: "id",
		Columns: cols,
		Schema: listview.Schema[listview.Record]{
			Search:     listview.FieldSearch("user", "action", "details"),
			Categories: []listview.Category[listview.Record]{fieldCategory("action", "action")},
			SortKeys:   columnSortKeys(cols),
		},
	}
}

// AuditLogs is the data change audit log.
func AuditLogs() View {
	cols := []Column{
		{Header: "TIMESTAMP", Field: "timestamp", Width: 20},
		{Header: "TABLE", Field: "table", Width: 16},
		{Header: "ACTION", Field: "action", Width: 10},
		{Header: "USER", Field: "user", Width: 18},
	}
	return View{
		Name:    "audit",
		Title:   "Audit log",
		IDField: "id",
		Columns: cols,
		Schema: listview.Schema[listview.Record]{
			Search: listview.FieldSearch("user", "table", "action"),
			Categories: []listview.Category[listview.Record]{
				fieldCategory("action", "action"),
				fieldCategory("table", "table"),
			},
			SortKeys: columnSortKeys(cols),
		},
	}
}
