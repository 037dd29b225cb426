package pipeline

import "github.com/dvloznov/sales-dashboard/internal/table"

// Column names of the processed sales table.
const (
	ColOrderNumber     = "ORDERNUMBER"
	ColQuantityOrdered = "QUANTITYORDERED"
	ColPriceEach       = "PRICEEACH"
	ColOrderLineNumber = "ORDERLINENUMBER"
	ColSales           = "SALES"
	ColOrderDate       = "ORDERDATE"
	ColStatus          = "STATUS"
	ColQuarterID       = "QTR_ID"
	ColMonthID         = "MONTH_ID"
	ColYearID          = "YEAR_ID"
	ColCustomerName    = "CUSTOMERNAME"
	ColCountry         = "COUNTRY"
	ColProductLine     = "PRODUCTLINE"
)

// RequiredColumns is the retained allow-list in output order. A source
// missing one of these is logged and processed without it.
var RequiredColumns = []table.Column{
	{Name: ColOrderNumber, Kind: table.KindInteger},
	{Name: ColQuantityOrdered, Kind: table.KindInteger},
	{Name: ColPriceEach, Kind: table.KindReal},
	{Name: ColOrderLineNumber, Kind: table.KindInteger},
	{Name: ColSales, Kind: table.KindReal},
	{Name: ColOrderDate, Kind: table.KindText},
	{Name: ColStatus, Kind: table.KindText},
	{Name: ColQuarterID, Kind: table.KindInteger},
	{Name: ColMonthID, Kind: table.KindInteger},
	{Name: ColYearID, Kind: table.KindInteger},
}

// OptionalColumns are retained only when the source provides them. The query
// layer degrades gracefully when they are absent.
var OptionalColumns = []table.Column{
	{Name: ColCustomerName, Kind: table.KindText},
	{Name: ColCountry, Kind: table.KindText},
	{Name: ColProductLine, Kind: table.KindText},
}

// DateLayouts are the ORDERDATE formats accepted by the date stage, tried in
// order. Sources typically use the US month-first form with or without a
// time component.
var DateLayouts = []string{
	"1/2/2006 15:04",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizedDateLayout is the canonical ORDERDATE format after processing.
const NormalizedDateLayout = "2006-01-02"
