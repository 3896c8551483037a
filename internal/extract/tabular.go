package extract

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadTable loads a tabular file into string rows. It returns nil when the
// file cannot be read or parsed; extraction never fails on bad input.
func ReadTable(path string) [][]string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readWorkbook(path, "")
	case ".csv":
		return readCSV(path)
	default:
		return nil
	}
}

// ReadFinancialTable is ReadTable with sheet selection for workbooks. Sheets
// named after income statements are preferred over the first sheet.
func ReadFinancialTable(path string) [][]string {
	if strings.ToLower(filepath.Ext(path)) == ".xlsx" {
		return readWorkbook(path, "financial")
	}
	return ReadTable(path)
}

var financialSheetKeywords = []string{"income", "financial", "t12", "statement"}

func readWorkbook(path, mode string) [][]string {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil
	}

	sheet := sheets[0]
	if mode == "financial" {
		for _, name := range sheets {
			lower := strings.ToLower(name)
			for _, keyword := range financialSheetKeywords {
				if strings.Contains(lower, keyword) {
					sheet = name
					break
				}
			}
			if sheet != sheets[0] {
				break
			}
		}
	}

	rows, err := book.GetRows(sheet)
	if err != nil {
		return nil
	}
	return rows
}

func readCSV(path string) [][]string {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil
	}
	return rows
}
