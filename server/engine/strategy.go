package engine

// Key addresses one cell of the strategy table. Dealer is 1 (ace) .. 10.
type Key struct {
	Shape  Shape
	Total  int
	Dealer int
}

type rule struct {
	shape   Shape
	totals  []int
	dealers []int
	action  Action
}

func span(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

func list(v ...int) []int { return v }

// Applied top to bottom; a later rule overwrites any cell an earlier one set.
var rules = []rule{
	{Hard, span(4, 8), span(1, 10), Hit},
	{Hard, list(9), list(3, 4, 5, 6), Double},
	{Hard, list(9), list(1, 2, 7, 8, 9, 10), Hit},
	{Hard, list(10), span(2, 9), Double},
	{Hard, list(10), list(1, 10), Hit},
	{Hard, list(11), span(2, 10), Double},
	{Hard, list(12), list(4, 5, 6), Stand},
	{Hard, list(12), list(1, 2, 3, 7, 8, 9, 10), Hit},
	{Hard, span(13, 16), span(2, 6), Stand},
	{Hard, span(13, 16), list(1, 7, 8, 9, 10), Hit},
	{Hard, span(17, 21), span(1, 10), Stand},

	{Soft, list(13, 14), list(5, 6), Double},
	{Soft, list(13, 14), span(1, 4), Hit},
	{Soft, list(13, 14), list(7, 8, 9, 10), Hit},
	{Soft, list(15, 16), list(4, 5, 6), Double},
	{Soft, list(15, 16), list(1, 2, 3, 7, 8, 9, 10), Hit},
	{Soft, list(17), list(3, 4, 5, 6), Double},
	{Soft, list(17), list(1, 2, 7, 8, 9, 10), Hit},
	{Soft, list(18), list(2, 3, 4, 5, 6), Double},
	{Soft, list(18), list(7, 8), Stand},
	{Soft, list(18), list(9, 10, 1), Hit},
	{Soft, span(19, 21), span(1, 10), Stand},

	{Pair, list(4, 6), span(2, 7), Split},
	{Pair, list(4, 6), list(1, 8, 9, 10), Hit},
	{Pair, list(8), list(5, 6), Split},
	{Pair, list(8), list(1, 2, 3, 4, 7, 8, 9, 10), Hit},
	{Pair, list(10), span(2, 9), Double},
	{Pair, list(10), list(1, 10), Hit},
	{Pair, list(12), span(2, 6), Split},
	{Pair, list(12), list(1, 7, 8, 9, 10), Hit},
	{Pair, list(14), span(2, 7), Split},
	{Pair, list(14), list(1, 8, 9, 10), Hit},
	{Pair, list(16), span(1, 10), Split},
	{Pair, list(18), list(2, 3, 4, 5, 6, 8, 9), Split},
	{Pair, list(18), list(1, 7, 10), Stand},
	{Pair, list(20), span(1, 10), Stand},
}

// Table is the basic strategy lookup. It is never written after build.
type Table struct {
	cells map[Key]Action
}

func buildTable(rs []rule) *Table {
	t := &Table{cells: make(map[Key]Action)}
	for _, r := range rs {
		for _, pt := range r.totals {
			for _, dv := range r.dealers {
				t.cells[Key{r.shape, pt, dv}] = r.action
			}
		}
	}
	return t
}

// Strategy is the process-wide table, safe for concurrent reads.
var Strategy = buildTable(rules)

func (t *Table) Lookup(k Key) (Action, bool) {
	a, ok := t.cells[k]
	return a, ok
}

func (t *Table) Len() int { return len(t.cells) }

// ChartRow is one player total against dealer 2..10 then ace.
type ChartRow struct {
	Shape   Shape    `json:"shape"`
	Total   int      `json:"total"`
	Actions []Action `json:"actions"`
}

// ChartDealers is the column order used by Chart.
var ChartDealers = []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 1}

// Chart lays the table out the way printed strategy cards do. Missing cells are "".
func (t *Table) Chart() []ChartRow {
	var out []ChartRow
	for _, shape := range []Shape{Hard, Soft, Pair} {
		for total := 2; total <= 21; total++ {
			row := ChartRow{Shape: shape, Total: total, Actions: make([]Action, len(ChartDealers))}
			found := false
			for i, dv := range ChartDealers {
				if a, ok := t.cells[Key{shape, total, dv}]; ok {
					row.Actions[i] = a
					found = true
				}
			}
			if found {
				out = append(out, row)
			}
		}
	}
	return out
}
