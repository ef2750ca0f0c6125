package optimize

import "strconv"

// GenerationStats summarizes the fitness of one generation.
type GenerationStats struct {
	Generation  int
	Evaluations int
	Avg         float64
	Max         float64
}

type Logbook []GenerationStats

var LogbookColumns = []string{"generation", "nevals", "avg", "max"}

func (l Logbook) Header() []string {
	return append([]string{}, LogbookColumns...)
}

func (l Logbook) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, g := range l {
		rows = append(rows, []string{
			strconv.Itoa(g.Generation),
			strconv.Itoa(g.Evaluations),
			strconv.FormatFloat(g.Avg, 'f', -1, 64),
			strconv.FormatFloat(g.Max, 'f', -1, 64),
		})
	}
	return rows
}
