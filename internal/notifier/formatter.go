package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"StockDash/internal/model"
)

const dateLayout = "2006-01-02"

// Disclaimer is appended to every forecast.
const Disclaimer = "⚠️ Forecasts are simple statistical extrapolations for educational purposes only. " +
	"They are not investment advice; do your own research before making investment decisions."

func money(v float64) string {
	d := decimal.NewFromFloat(v)
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

func signedMoney(v float64) string {
	if v >= 0 {
		return "+" + money(v)
	}
	return money(v)
}

func percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

func signedPercent(v float64) string {
	if v >= 0 {
		return "+" + percent(v)
	}
	return percent(v)
}

// SourceBanner tells the user whether they are looking at real data.
func SourceBanner(src model.DataSource) string {
	if src == model.SourceSynthetic {
		return "⚠️ Market data unavailable, showing sample data."
	}
	return "✅ Live market data"
}

// FormatOverview formats a ticker's statistics into a Telegram message.
func FormatOverview(ov *model.Overview) string {
	var b strings.Builder
	s := ov.Summary

	b.WriteString(fmt.Sprintf("📊 <b>%s Overview</b>\n", html.EscapeString(ov.Ticker)))
	b.WriteString(SourceBanner(ov.Source) + "\n\n")

	b.WriteString(fmt.Sprintf("Current Price: %s\n", money(s.Current)))
	if s.HasDailyChange {
		b.WriteString(fmt.Sprintf("Daily Change: %s (%s)\n", signedMoney(s.DailyChange), signedPercent(s.DailyChangePct)))
	} else {
		b.WriteString("Daily Change: N/A\n")
	}
	b.WriteString(fmt.Sprintf("Data Points: %d\n\n", s.Points))

	b.WriteString("📈 <b>Statistics:</b>\n")
	b.WriteString(fmt.Sprintf("  Highest: %s\n", money(s.High)))
	b.WriteString(fmt.Sprintf("  Lowest: %s\n", money(s.Low)))
	b.WriteString(fmt.Sprintf("  Average: %s\n", money(s.Mean)))
	if s.HasVolatility {
		b.WriteString(fmt.Sprintf("  Volatility: %s\n", percent(s.Volatility)))
	} else {
		b.WriteString("  Volatility: N/A\n")
	}

	b.WriteString("\n📉 <b>Moving Averages:</b>\n")
	if len(ov.MA20) == 0 {
		b.WriteString("  Not enough history (need more than 20 points)\n")
	} else {
		b.WriteString(fmt.Sprintf("  MA20: %s\n", money(ov.MA20[len(ov.MA20)-1].Price)))
		if len(ov.MA50) > 0 {
			b.WriteString(fmt.Sprintf("  MA50: %s\n", money(ov.MA50[len(ov.MA50)-1].Price)))
		}
	}

	if len(ov.Recent) > 0 {
		b.WriteString("\n🗓 <b>Recent Prices:</b>\n<pre>")
		for _, p := range ov.Recent {
			b.WriteString(fmt.Sprintf("%s  %s\n", p.Date.Format(dateLayout), money(p.Price)))
		}
		b.WriteString("</pre>")
	}
	return b.String()
}

// FormatForecast formats a forecast report, including the day-by-day table.
func FormatForecast(rep *model.ForecastReport) string {
	var b strings.Builder
	s := rep.Summary

	b.WriteString(fmt.Sprintf("🔮 <b>%s %d-Day Forecast</b> | %s\n",
		html.EscapeString(rep.Ticker), rep.Days, rep.Result.Method))
	b.WriteString(SourceBanner(rep.Source) + "\n\n")

	if rep.History.Len() > 0 {
		last := rep.History.Last()
		b.WriteString(fmt.Sprintf("Last Close: %s (%s)\n", money(last.Price), last.Date.Format(dateLayout)))
	}
	b.WriteString(fmt.Sprintf("Forecast High: %s\n", money(s.High)))
	b.WriteString(fmt.Sprintf("Forecast Low: %s\n", money(s.Low)))
	b.WriteString(fmt.Sprintf("Forecast End: %s (%s)\n", money(s.End), signedPercent(s.ChangePct)))
	if s.Bullish {
		b.WriteString("Outlook: 📈 Bullish\n")
	} else {
		b.WriteString("Outlook: 📉 Bearish\n")
	}

	b.WriteString("\n<b>Forecast Details:</b>\n<pre>")
	for _, p := range rep.Result.Points {
		b.WriteString(fmt.Sprintf("%s  %s\n", p.Date.Format(dateLayout), money(p.Price)))
	}
	b.WriteString("</pre>\n\n")
	b.WriteString(Disclaimer)
	return b.String()
}

// FormatTickers lists the symbols a user can pick.
func FormatTickers(tickers []string) string {
	return "📋 <b>Available Tickers:</b> " + html.EscapeString(strings.Join(tickers, ", "))
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	var b strings.Builder
	b.WriteString("🤖 <b>StockDash Commands</b>\n\n")
	b.WriteString("/tickers - list available tickers\n")
	b.WriteString("/overview &lt;TICKER&gt; - price statistics and moving averages\n")
	b.WriteString("/forecast &lt;TICKER&gt; [days] [method] - price forecast\n")
	b.WriteString("    days: 7-90 (default 30)\n")
	keys := make([]string, len(model.Methods))
	for i, m := range model.Methods {
		keys[i] = m.Key()
	}
	b.WriteString("    method: " + strings.Join(keys, ", ") + "\n")
	b.WriteString("/help - show this message")
	return b.String()
}

// FormatError wraps a user-facing error message.
func FormatError(msg string) string {
	return "❌ " + html.EscapeString(msg)
}
