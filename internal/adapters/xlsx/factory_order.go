// Package xlsx renders the factory-order workbook the Tarragona plant
// receives. The layout is fixed; the factory's intake process parses
// it by cell position.
package xlsx

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/andrescamacho/tileplanner-go/internal/application/orderbuilder"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// SheetName is the single sheet the factory's intake expects
const SheetName = "PEDIDO TARRAGONA"

const palletsPerContainer = 14

// spanishMonths indexes Spanish month names by time.Month
var spanishMonths = map[time.Month]string{
	time.January:   "ENERO",
	time.February:  "FEBRERO",
	time.March:     "MARZO",
	time.April:     "ABRIL",
	time.May:       "MAYO",
	time.June:      "JUNIO",
	time.July:      "JULIO",
	time.August:    "AGOSTO",
	time.September: "SEPTIEMBRE",
	time.October:   "OCTUBRE",
	time.November:  "NOVIEMBRE",
	time.December:  "DICIEMBRE",
}

// ProductionMonth is the Spanish uppercase name of the month after the
// boat's departure, wrapping December into January.
func ProductionMonth(boatDeparture time.Time) string {
	next := boatDeparture.AddDate(0, 1, 0)
	return spanishMonths[next.Month()]
}

// WriteFactoryOrder renders the order as a workbook
func WriteFactoryOrder(order *orderbuilder.ExportOrder) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, err
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Border: []excelize.Border{
			{Type: "bottom", Style: 1, Color: "000000"},
		},
	})
	if err != nil {
		return nil, err
	}
	thousands := "#,##0"
	quantityStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &thousands})
	if err != nil {
		return nil, err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &thousands,
	})
	if err != nil {
		return nil, err
	}

	f.SetCellValue(SheetName, "A1", "Pedido Tarragona Guatemala")
	f.SetCellStyle(SheetName, "A1", "A1", titleStyle)

	f.SetCellValue(SheetName, "A3", "Fecha de pedido:")
	f.SetCellValue(SheetName, "B3", order.OrderDate.Format("02/01/2006"))

	f.SetCellValue(SheetName, "A5", "Fabricacion para:")
	f.SetCellValue(SheetName, "B5", ProductionMonth(order.BoatDeparture))
	f.SetCellStyle(SheetName, "B5", "B5", boldStyle)

	f.SetCellValue(SheetName, "A7", "Referencia")
	f.SetCellValue(SheetName, "B7", "Formato")
	f.SetCellValue(SheetName, "C7", "M2 solicitados")
	f.SetCellStyle(SheetName, "A7", "C7", headerStyle)

	row := 8
	var totalM2 decimal.Decimal
	for _, line := range order.Lines {
		m2 := line.M2.Round(0)
		totalM2 = totalM2.Add(m2)
		f.SetCellValue(SheetName, cell("A", row), orderbuilder.NormalizeFactorySKU(line.SKU))
		f.SetCellValue(SheetName, cell("B", row), "51X51")
		f.SetCellValue(SheetName, cell("C", row), m2.IntPart())
		f.SetCellStyle(SheetName, cell("C", row), cell("C", row), quantityStyle)
		row++
	}

	row++ // blank separator
	f.SetCellValue(SheetName, cell("A", row), "TOTAL")
	f.SetCellValue(SheetName, cell("C", row), totalM2.IntPart())
	f.SetCellStyle(SheetName, cell("A", row), cell("A", row), boldStyle)
	f.SetCellStyle(SheetName, cell("C", row), cell("C", row), totalStyle)

	row += 2 // blank separator
	containers := shared.CeilDiv(decimal.NewFromInt(int64(order.TotalPallets)), decimal.NewFromInt(palletsPerContainer))
	f.SetCellValue(SheetName, cell("A", row), fmt.Sprintf("%d CONTENEDORES", containers))
	f.SetCellStyle(SheetName, cell("A", row), cell("A", row), boldStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cell(column string, row int) string {
	return fmt.Sprintf("%s%d", column, row)
}
