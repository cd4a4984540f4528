// Package export renders realization registers into spreadsheets.
package export

import (
	"bytes"
	"fmt"

	appbilling "github.com/adspace/backoffice/internal/application/billing"
	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName       = "Реализации"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	dateFormat      = "02.01.2006"
)

var headers = []string{
	"Дата", "Контрагент", "ИНН", "Договор", "Услуга", "Тип услуги",
	"Сумма продажи", "Сумма расхода", "Оплачено", "Долг", "Статус оплаты",
}

// money columns G..J
const firstMoneyCol, lastMoneyCol = 7, 10

var statusLabels = map[string]string{
	string(billing.PaymentStatusNotPaid):       "Не оплачено",
	string(billing.PaymentStatusPartiallyPaid): "Частично оплачено",
	string(billing.PaymentStatusPaid):          "Оплачено",
}

// XLSXRealizationExporter writes one sheet with a row per realization service line
// and a totals row at the bottom.
type XLSXRealizationExporter struct{}

// NewXLSXRealizationExporter creates the exporter
func NewXLSXRealizationExporter() *XLSXRealizationExporter {
	return &XLSXRealizationExporter{}
}

// ExportRealizations renders the rows of one period
func (e *XLSXRealizationExporter) ExportRealizations(period billing.Period, rows []appbilling.ExportRow) (*appbilling.ExportFile, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	// 4 = "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("money style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4, Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("total style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	var sale, expense, paid, debt decimal.Decimal
	for i, r := range rows {
		line := i + 2
		values := []any{
			r.Date.Format(dateFormat),
			r.Counterparty,
			r.INN,
			r.Contract,
			r.Description,
			r.ServiceType,
			r.SaleAmount.InexactFloat64(),
			r.ExpenseAmount.InexactFloat64(),
			r.PaidAmount.InexactFloat64(),
			r.DebtAmount.InexactFloat64(),
			statusLabel(r.Status),
		}
		start, _ := excelize.CoordinatesToCellName(1, line)
		if err := f.SetSheetRow(sheetName, start, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", line, err)
		}
		sale = sale.Add(r.SaleAmount)
		expense = expense.Add(r.ExpenseAmount)
		paid = paid.Add(r.PaidAmount)
		debt = debt.Add(r.DebtAmount)
	}

	totalLine := len(rows) + 2
	if err := f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalLine), "Итого"); err != nil {
		return nil, err
	}
	for col, v := range map[int]decimal.Decimal{7: sale, 8: expense, 9: paid, 10: debt} {
		cell, _ := excelize.CoordinatesToCellName(col, totalLine)
		if err := f.SetCellValue(sheetName, cell, v.InexactFloat64()); err != nil {
			return nil, err
		}
	}

	moneyFrom, _ := excelize.CoordinatesToCellName(firstMoneyCol, 2)
	moneyTo, _ := excelize.CoordinatesToCellName(lastMoneyCol, totalLine)
	if err := f.SetCellStyle(sheetName, moneyFrom, moneyTo, moneyStyle); err != nil {
		return nil, err
	}
	totalTo, _ := excelize.CoordinatesToCellName(lastMoneyCol, totalLine)
	if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", totalLine), totalTo, totalStyle); err != nil {
		return nil, err
	}

	for col, width := range map[string]float64{"A": 12, "B": 32, "C": 14, "D": 14, "E": 40, "F": 16, "K": 20} {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheetName, "G", "J", 16); err != nil {
		return nil, err
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &appbilling.ExportFile{
		Name:        fmt.Sprintf("realizations_%s.xlsx", period.String()),
		ContentType: xlsxContentType,
		Content:     buf.Bytes(),
	}, nil
}

func statusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

var _ appbilling.RealizationExporter = (*XLSXRealizationExporter)(nil)
