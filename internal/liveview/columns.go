package liveview

import "strings"

// Column identifies one sortable column of the live view.
type Column int

// Columns, in display order.
const (
	ColumnHooked Column = iota
	ColumnName
	ColumnCount
	ColumnTimeTotal
	ColumnTimeAvg
	ColumnTimeMin
	ColumnTimeMax
	ColumnModule
	ColumnAddress
	numColumns
)

// columnSpec fixes a column's title and default sort direction.
type columnSpec struct {
	title     string
	ascending bool
}

var columnSpecs = [numColumns]columnSpec{
	ColumnHooked:    {title: "Hooked", ascending: false},
	ColumnName:      {title: "Function", ascending: true},
	ColumnCount:     {title: "Count", ascending: false},
	ColumnTimeTotal: {title: "Total", ascending: false},
	ColumnTimeAvg:   {title: "Avg", ascending: false},
	ColumnTimeMin:   {title: "Min", ascending: false},
	ColumnTimeMax:   {title: "Max", ascending: false},
	ColumnModule:    {title: "Module", ascending: true},
	ColumnAddress:   {title: "Address", ascending: true},
}

// Columns returns every column in display order.
func Columns() []Column {
	cols := make([]Column, numColumns)
	for i := range cols {
		cols[i] = Column(i)
	}
	return cols
}

// String returns the column's display title.
func (c Column) String() string {
	if c < 0 || c >= numColumns {
		return "?"
	}
	return columnSpecs[c].title
}

// ColumnByName resolves a column from its title, case-insensitively.
func ColumnByName(name string) (Column, bool) {
	for i, spec := range columnSpecs {
		if strings.EqualFold(spec.title, name) {
			return Column(i), true
		}
	}
	return 0, false
}

// comparators maps each column to a three-way compare of two arena indices.
// Rows with no recorded stats compare as the zero-valued record. Sort
// direction negates the result; it never reverses the input order, so stable
// sorting keeps equal rows in their pre-sort relative order.
var comparators = [numColumns]func(v *View, a, b int) int{
	ColumnHooked: func(v *View, a, b int) int {
		return compareBool(v.hooks.IsSelected(v.functions[a]), v.hooks.IsSelected(v.functions[b]))
	},
	ColumnName: func(v *View, a, b int) int {
		return strings.Compare(v.functions[a].Name, v.functions[b].Name)
	},
	ColumnCount: func(v *View, a, b int) int {
		return compareUint64(v.rowStats(a).Count, v.rowStats(b).Count)
	},
	ColumnTimeTotal: func(v *View, a, b int) int {
		return compareUint64(v.rowStats(a).TotalNs, v.rowStats(b).TotalNs)
	},
	ColumnTimeAvg: func(v *View, a, b int) int {
		return compareUint64(v.rowStats(a).AverageNs(), v.rowStats(b).AverageNs())
	},
	ColumnTimeMin: func(v *View, a, b int) int {
		return compareUint64(v.rowStats(a).MinNs, v.rowStats(b).MinNs)
	},
	ColumnTimeMax: func(v *View, a, b int) int {
		return compareUint64(v.rowStats(a).MaxNs, v.rowStats(b).MaxNs)
	},
	ColumnModule: func(v *View, a, b int) int {
		return strings.Compare(v.functions[a].ModulePath, v.functions[b].ModulePath)
	},
	ColumnAddress: func(v *View, a, b int) int {
		return compareUint64(v.functions[a].Address, v.functions[b].Address)
	},
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
