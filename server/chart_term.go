package main

import (
	"github.com/pterm/pterm"

	"github.com/izaksullivan/Blackjack-Trainer/server/engine"
	"github.com/izaksullivan/Blackjack-Trainer/server/strategy"
)

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func colorMark(m string) string {
	switch m {
	case "H":
		return pterm.LightWhite(m)
	case "S":
		return pterm.LightRed(m)
	case "D":
		return pterm.LightBlue(m)
	case "P":
		return pterm.LightGreen(m)
	case "R":
		return pterm.Yellow(m)
	}
	return m
}

// chartTables turns each chart section into pterm table data with the
// upcards as header row.
func chartTables(ch strategy.Chart, color bool) []pterm.TableData {
	out := make([]pterm.TableData, 0, 3)
	for _, sec := range ch.Sections() {
		data := pterm.TableData{append([]string{""}, ch.Upcards...)}
		for _, row := range sec.Rows {
			line := make([]string, 0, len(row.Cells)+1)
			line = append(line, row.Label)
			for _, c := range row.Cells {
				if color {
					line = append(line, colorMark(c.Mark))
				} else {
					line = append(line, c.Mark)
				}
			}
			data = append(data, line)
		}
		out = append(out, data)
	}
	return out
}

// printChart renders the reference chart for the configured rules.
func printChart(r engine.Rules) error {
	ch, err := strategy.GenerateChart(r)
	if err != nil {
		return err
	}
	pterm.DefaultSection.Printfln("Basic strategy · %d decks · dealer %s · DAS %s · late surrender %s",
		r.Decks, r.Dealer, yesNo(r.DAS), yesNo(r.LateSurrender))
	for i, data := range chartTables(ch, true) {
		pterm.DefaultSection.WithLevel(2).Println(ch.Sections()[i].Caption)
		if err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render(); err != nil {
			return err
		}
	}
	pterm.Info.Println("H hit · S stand · D double · P split · R surrender (else hit)")
	return nil
}
