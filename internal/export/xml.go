// Package export renders forecasts in document formats.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/Dan9191/finance-forecast/internal/models"
)

const dateLayout = "2006-01-02"

// ForecastXML builds the XML document of a forecast for a month
func ForecastXML(period time.Time, items []models.ForecastItem, summary models.ForecastSummary) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("forecast")
	root.CreateAttr("year", strconv.Itoa(period.Year()))
	root.CreateAttr("month", fmt.Sprintf("%02d", int(period.Month())))

	s := root.CreateElement("summary")
	s.CreateElement("pending").SetText(summary.Pending.StringFixed(2))
	s.CreateElement("recurring").SetText(summary.Recurring.StringFixed(2))
	s.CreateElement("debt").SetText(summary.Debt.StringFixed(2))
	s.CreateElement("income").SetText(summary.Income.StringFixed(2))
	s.CreateElement("expenses").SetText(summary.Expenses.StringFixed(2))
	s.CreateElement("net").SetText(summary.Net.StringFixed(2))

	list := root.CreateElement("items")
	list.CreateAttr("count", strconv.Itoa(len(items)))
	for _, it := range items {
		el := list.CreateElement("item")
		el.CreateAttr("id", it.ID)
		el.CreateAttr("type", string(it.Type))
		el.CreateAttr("date", it.Date.Format(dateLayout))
		el.CreateElement("description").SetText(it.Description)
		el.CreateElement("amount").SetText(it.Amount.StringFixed(2))
		if it.DebtID != nil {
			el.CreateElement("debt-id").SetText(strconv.FormatInt(*it.DebtID, 10))
		}
		if it.TransactionID != nil {
			el.CreateElement("transaction-id").SetText(strconv.FormatInt(*it.TransactionID, 10))
		}
		if it.ClientID != nil {
			el.CreateElement("client-id").SetText(strconv.FormatInt(*it.ClientID, 10))
		}
		if it.Location != "" {
			el.CreateElement("location").SetText(it.Location)
		}
	}

	doc.Indent(2)
	return doc
}
