package xlsx

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/andrescamacho/tileplanner-go/internal/application/orderbuilder"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

func sampleOrder() *orderbuilder.ExportOrder {
	return &orderbuilder.ExportOrder{
		OrderDate:     shared.Date(2026, time.March, 1),
		BoatDeparture: shared.Date(2026, time.March, 20),
		Lines: []orderbuilder.ExportLine{
			{SKU: "BALTICO 51X51", Pallets: 10, M2: decimal.NewFromInt(1344)},
			{SKU: "CARRARA(T) 51X51", Pallets: 4, M2: decimal.NewFromFloat(537.6)},
		},
		TotalPallets: 14,
		TotalM2:      decimal.NewFromFloat(1881.6),
	}
}

func TestWriteFactoryOrderRoundTrip(t *testing.T) {
	data, err := WriteFactoryOrder(sampleOrder())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{SheetName}, f.GetSheetList())

	get := func(cell string) string {
		v, err := f.GetCellValue(SheetName, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Pedido Tarragona Guatemala", get("A1"))
	assert.Equal(t, "Fecha de pedido:", get("A3"))
	assert.Equal(t, "01/03/2026", get("B3"))
	assert.Equal(t, "Fabricacion para:", get("A5"))
	assert.Equal(t, "ABRIL", get("B5"), "production month is the month after departure")

	assert.Equal(t, "Referencia", get("A7"))
	assert.Equal(t, "Formato", get("B7"))
	assert.Equal(t, "M2 solicitados", get("C7"))

	assert.Equal(t, "BALTICO", get("A8"), "SKU is normalized for the factory")
	assert.Equal(t, "51X51", get("B8"))
	assert.Equal(t, "CARRARA", get("A9"))

	assert.Empty(t, get("A10"), "blank row before the total")
	assert.Equal(t, "TOTAL", get("A11"))

	total, err := f.GetCellValue(SheetName, "C11", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1882", total, "1344 + 538 rounded per line")

	assert.Empty(t, get("A12"))
	assert.Equal(t, "1 CONTENEDORES", get("A13"), "14 pallets fill exactly one container")
}

func TestWriteFactoryOrderRoundsPerLine(t *testing.T) {
	order := sampleOrder()
	data, err := WriteFactoryOrder(order)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	carrara, err := f.GetCellValue(SheetName, "C9", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "538", carrara, "537.6 rounds to the nearest integer")
}

func TestProductionMonthWrapsYear(t *testing.T) {
	assert.Equal(t, "ENERO", ProductionMonth(shared.Date(2026, time.December, 15)))
	assert.Equal(t, "ABRIL", ProductionMonth(shared.Date(2026, time.March, 20)))
}
