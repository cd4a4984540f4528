package export

import (
	"bytes"
	"testing"
	"time"

	appbilling "github.com/adspace/backoffice/internal/application/billing"
	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXRealizationExporter_ExportRealizations(t *testing.T) {
	rows := []appbilling.ExportRow{
		{
			Date:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Counterparty:  "Ромашка",
			INN:           "7701234567",
			Contract:      "Д-1",
			Description:   "Аренда LED-экрана",
			ServiceType:   "Размещение",
			SaleAmount:    decimal.NewFromInt(100),
			PaidAmount:    decimal.NewFromInt(100),
			DebtAmount:    decimal.Zero,
			ExpenseAmount: decimal.Zero,
			Status:        string(billing.PaymentStatusPaid),
		},
		{
			Date:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Counterparty:  "Ромашка",
			INN:           "7701234567",
			Contract:      "Д-1",
			Description:   "Монтаж",
			ServiceType:   "Монтаж",
			SaleAmount:    decimal.RequireFromString("50.50"),
			ExpenseAmount: decimal.NewFromInt(10),
			PaidAmount:    decimal.NewFromInt(20),
			DebtAmount:    decimal.RequireFromString("30.50"),
			Status:        string(billing.PaymentStatusPartiallyPaid),
		},
	}

	file, err := NewXLSXRealizationExporter().ExportRealizations(billing.Period{Year: 2025, Month: 1}, rows)
	require.NoError(t, err)
	assert.Equal(t, "realizations_2025-01.xlsx", file.Name)
	assert.Equal(t, xlsxContentType, file.ContentType)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer wb.Close()

	cell := func(axis string) string {
		v, err := wb.GetCellValue(sheetName, axis)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Дата", cell("A1"))
	assert.Equal(t, "Статус оплаты", cell("K1"))
	assert.Equal(t, "01.01.2025", cell("A2"))
	assert.Equal(t, "Оплачено", cell("K2"))
	assert.Equal(t, "Частично оплачено", cell("K3"))
	assert.Equal(t, "Итого", cell("A4"))

	raw, err := wb.GetCellValue(sheetName, "G4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "150.5", raw)
	raw, err = wb.GetCellValue(sheetName, "J4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "30.5", raw)
}

func TestXLSXRealizationExporter_Empty(t *testing.T) {
	file, err := NewXLSXRealizationExporter().ExportRealizations(billing.Period{Year: 2025, Month: 2}, nil)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer wb.Close()
	v, err := wb.GetCellValue(sheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Итого", v)
}
