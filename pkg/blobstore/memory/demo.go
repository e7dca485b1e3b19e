package memory

import (
	"strings"

	"blobaudit.dev/pkg/blobstore"
)

// DemoFolder describes one seeded Datafeed folder.
type DemoFolder struct {
	Path    string
	Sheet   string
	Excel   []Table
	Parquet []Table
}

// DemoFolders is the dataset the demo variant runs against.
var DemoFolders = []DemoFolder{
	{
		Path:  "0000_test_parquet/100007-16_Showcase/Report Documentation/Datafeed",
		Sheet: "Tables",
		Excel: []Table{
			{"DimBrand", []string{"BrandID", "BrandName", "BrandCategory", "IsActive", "CreatedDate"}},
			{"DimProduct", []string{"ProductID", "ProductName", "ProductSKU", "BrandID", "Price", "Stock"}},
			{"DimCustomer", []string{"CustomerID", "FirstName", "LastName", "Email", "Phone", "Country"}},
			{"DimDate", []string{"DateKey", "FullDate", "Year", "Quarter", "Month", "DayOfWeek"}},
		},
		Parquet: []Table{
			{"FactSales.parquet", []string{"SaleID", "DateKey", "ProductID", "CustomerID", "Quantity", "Revenue", "Profit"}},
			{"FactInventory.parquet", []string{"InventoryID", "ProductID", "DateKey", "StockLevel", "WarehouseID"}},
		},
	},
	{
		Path:  "999999_WeitereKDdec/128019_18_Ruegenwalder_Welle4/Report Documentation/Datafeed",
		Sheet: "Dimensions",
		Excel: []Table{
			{"DimStore", []string{"StoreID", "StoreName", "StoreType", "City", "Region", "Manager"}},
			{"DimPromotion", []string{"PromotionID", "PromotionName", "StartDate", "EndDate", "DiscountPct"}},
			{"DimSupplier", []string{"SupplierID", "SupplierName", "ContactPerson", "Phone", "Country"}},
		},
		Parquet: []Table{
			{"FactOrders.parquet", []string{"OrderID", "OrderDate", "CustomerID", "StoreID", "TotalAmount", "Status"}},
			{"FactReturns.parquet", []string{"ReturnID", "OrderID", "ProductID", "ReturnDate", "Quantity", "Reason"}},
		},
	},
	{
		Path: "555555_Analytics/DataWarehouse/Report Documentation/Datafeed",
		Parquet: []Table{
			{"FactWebTraffic.parquet", []string{"SessionID", "UserID", "PageURL", "Timestamp", "Duration", "DeviceType"}},
			{"FactConversions.parquet", []string{"ConversionID", "SessionID", "ProductID", "ConversionDate", "Revenue"}},
		},
	},
}

// demoExtras are non-datafeed blobs so browsing and searching have something to show.
var demoExtras = map[string]string{
	"0000_test_parquet/100007-16_Showcase/Report Documentation/Readme.txt":      "Showcase report documentation",
	"0000_test_parquet/100007-16_Showcase/Input/raw_sales_2024.csv":             "SaleID,Revenue\n1,10.5\n",
	"999999_WeitereKDdec/128019_18_Ruegenwalder_Welle4/Input/questionnaire.pdf": "%PDF-1.4",
	"555555_Analytics/DataWarehouse/Exports/traffic_summary.csv":                "SessionID,Duration\n",
}

// Workbook names read by the dim and param scan modes.
const (
	DemoWorkbook      = "DimManager.xlsx"
	DemoParamWorkbook = "ParameterManager.xlsx"
)

// SeedDemo fills s with the demo dataset. Folders with Excel tables get both a per-sheet
// workbook and a named-table workbook so both scan modes find the same tables.
func SeedDemo(s *Store) error {
	for _, folder := range DemoFolders {
		if len(folder.Excel) > 0 {
			dim, err := SheetWorkbook(folder.Excel)
			if err != nil {
				return err
			}

			s.Put(blobstore.Join(folder.Path, DemoWorkbook), dim)

			param, err := NamedTableWorkbook(folder.Sheet, folder.Excel)
			if err != nil {
				return err
			}

			s.Put(blobstore.Join(folder.Path, DemoParamWorkbook), param)
		}

		for _, t := range folder.Parquet {
			data, err := ParquetFile(strings.TrimSuffix(t.Name, ".parquet"), t.Columns)
			if err != nil {
				return err
			}

			s.Put(blobstore.Join(folder.Path, t.Name), data)
		}
	}

	for path, content := range demoExtras {
		s.Put(path, []byte(content))
	}

	s.Mkdir("555555_Analytics/DataWarehouse/Archive")

	return nil
}
