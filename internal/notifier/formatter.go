package notifier

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"GoldenCross/internal/model"
)

const rule = "--------------------------------------------------"

const (
	verdictOutperformed   = "VERDICT: Strategy OUTPERFORMED Market! 🚀"
	verdictUnderperformed = "VERDICT: Strategy UNDERPERFORMED. Buy & Hold was better. 📉"
)

// FormatMoney renders a dollar amount rounded to cents, e.g. $10,000.00.
func FormatMoney(amount float64) string {
	cents := decimal.RequireFromString(strconv.FormatFloat(amount, 'f', 2, 64)).Shift(2).IntPart()
	return money.New(cents, money.USD).Display()
}

// FormatHeader is the title block of a run over [start, end).
func FormatHeader(symbol, start, end string) string {
	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString(fmt.Sprintf("BACKTEST RESULTS: %s (%s to %s)\n", symbol, start, end))
	b.WriteString(rule + "\n")
	return b.String()
}

// FormatVerdict says whether the strategy beat buy & hold. A tie counts as
// underperformance.
func FormatVerdict(res *model.BacktestResult) string {
	if res.Outperformed() {
		return verdictOutperformed
	}
	return verdictUnderperformed
}

// FormatSummary formats the console report of a finished backtest.
func FormatSummary(res *model.BacktestResult, start, end string) string {
	var b strings.Builder
	b.WriteString(FormatHeader(res.Symbol, start, end))
	b.WriteString(fmt.Sprintf("Initial Capital:   %s\n", FormatMoney(res.Capital)))
	b.WriteString(fmt.Sprintf("Buy & Hold Result: %s\n", FormatMoney(res.FinalMarket)))
	b.WriteString(fmt.Sprintf("Strategy Result:   %s\n", FormatMoney(res.FinalStrategy)))
	b.WriteString(rule + "\n")
	b.WriteString(FormatVerdict(res) + "\n")
	return b.String()
}

// FormatTelegramSummary is the summary plus total returns and exposure, as HTML.
func FormatTelegramSummary(res *model.BacktestResult, start, end string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Golden Cross</b> | %s\n\n", html.EscapeString(res.Symbol)))
	b.WriteString("<pre>")
	b.WriteString(html.EscapeString(FormatSummary(res, start, end)))
	b.WriteString("</pre>\n")
	b.WriteString(fmt.Sprintf("Buy & Hold: %+.2f%%\n", res.MarketTotalReturn()*100))
	b.WriteString(fmt.Sprintf("Strategy:   %+.2f%%\n", res.StrategyTotalReturn()*100))
	b.WriteString(fmt.Sprintf("Days in market: %d / %d\n", res.DaysInMarket(), len(res.Dates)))
	return b.String()
}
