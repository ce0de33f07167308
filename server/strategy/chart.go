package strategy

import (
	"fmt"
	"html/template"
	"io"

	"github.com/izaksullivan/Blackjack-Trainer/server/engine"
)

// Chart is the full reference matrix for one rule set. It is rebuilt on
// every call; nothing is cached between rule changes.
type Chart struct {
	Rules   engine.Rules `json:"rules"`
	Upcards []string     `json:"upcards"`
	Hard    Section      `json:"hard"`
	Soft    Section      `json:"soft"`
	Pairs   Section      `json:"pairs"`
}

type Section struct {
	Caption string `json:"caption"`
	Rows    []Row  `json:"rows"`
}

type Row struct {
	Label string `json:"label"`
	Cells []Cell `json:"cells"`
}

// Cell shows the primary recommendation only; a surrender spot is marked R
// without its hit fallback.
type Cell struct {
	Code Code   `json:"code"`
	Mark string `json:"mark"`
}

var pairOrder = []engine.Value{engine.ValueAce, engine.ValueTen, 9, 8, 7, 6, 5, 4, 3, 2}

// GenerateChart runs every hard total 8..17, soft total A,2..A,9 and pair
// through the decision tables for the given rules.
func GenerateChart(r engine.Rules) (Chart, error) {
	if err := r.Validate(); err != nil {
		return Chart{}, err
	}
	ch := Chart{
		Rules: r,
		Hard:  Section{Caption: "Hard Totals"},
		Soft:  Section{Caption: "Soft Totals (A,x)"},
		Pairs: Section{Caption: "Pairs (P = Split)"},
	}
	for _, u := range engine.Upcards {
		ch.Upcards = append(ch.Upcards, u.String())
	}

	for t := 8; t <= 17; t++ {
		ch.Hard.Rows = append(ch.Hard.Rows, row(fmt.Sprint(t), func(up engine.Value) Code {
			return HardCode(t, up, r.Dealer, r.LateSurrender)
		}))
	}
	for t := 13; t <= 20; t++ {
		ch.Soft.Rows = append(ch.Soft.Rows, row(fmt.Sprintf("A,%d", t-11), func(up engine.Value) Code {
			return SoftCode(t, up, r.Dealer)
		}))
	}
	for _, p := range pairOrder {
		ch.Pairs.Rows = append(ch.Pairs.Rows, row(p.String()+p.String(), func(up engine.Value) Code {
			return PairCode(p, up, r.DAS)
		}))
	}
	return ch, nil
}

func row(label string, lookup func(engine.Value) Code) Row {
	out := Row{Label: label, Cells: make([]Cell, 0, len(engine.Upcards))}
	for _, up := range engine.Upcards {
		code := lookup(up)
		out.Cells = append(out.Cells, Cell{Code: code, Mark: code.Mark()})
	}
	return out
}

func (ch Chart) Sections() []Section { return []Section{ch.Hard, ch.Soft, ch.Pairs} }

var chartTmpl = template.Must(template.New("chart").Parse(`<div class="charts">
{{- range .Sections}}<table class="chart"><caption>{{.Caption}}</caption><tr><th></th>
{{- range $.Upcards}}<th>{{.}}</th>{{end}}</tr>
{{- range .Rows}}<tr><th>{{.Label}}</th>{{range .Cells}}<td class="act-{{.Mark}}">{{.Mark}}</td>{{end}}</tr>{{end -}}
</table>{{end -}}
</div>`))

// WriteHTML renders the chart as three HTML tables.
func (ch Chart) WriteHTML(w io.Writer) error {
	return chartTmpl.Execute(w, ch)
}
