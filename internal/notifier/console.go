package notifier

import (
	"fmt"
	"io"

	"GoldenCross/internal/model"
)

// Console writes the user-facing progress lines and report.
type Console struct {
	Out io.Writer
}

func NewConsole(out io.Writer) *Console { return &Console{Out: out} }

func (c *Console) Fetching(symbol string) {
	fmt.Fprintf(c.Out, "[*] FETCHING DATA FOR %s...\n", symbol)
}

func (c *Console) NoData() {
	fmt.Fprintln(c.Out, "[!] No data found.")
}

func (c *Console) Summary(res *model.BacktestResult, start, end string) {
	fmt.Fprint(c.Out, FormatSummary(res, start, end))
}

func (c *Console) GeneratingChart() {
	fmt.Fprintln(c.Out, "[*] Generating Chart...")
}
