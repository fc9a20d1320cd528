// Package ingest is the external collaborator (C9, excluded from the core):
// it turns a CSV or XLSX extract into the []*qcframe.Row the orchestrator
// operates on. Column names are matched case-insensitively against the
// input frame columns named in the interface contract.
package ingest

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"oceanqc/domain/core"
	"oceanqc/domain/qcframe"
)

// Reader loads a tabular sample-row extract from disk. The file type is
// inferred from its extension: ".csv" is read with encoding/csv, anything
// else is opened as an Excel workbook via excelize.
type Reader struct {
	path  string
	sheet string
}

// NewReader builds a Reader for path. sheet selects the worksheet for XLSX
// input; it is ignored for CSV. An empty sheet defaults to the workbook's
// first sheet.
func NewReader(path, sheet string) *Reader {
	return &Reader{path: path, sheet: sheet}
}

// requiredColumns mirrors the input frame columns the spec requires. The
// optional quality_flag_long and lmqnt_val columns are read when present
// and are not listed here.
var requiredColumns = []string{"parameter", "value", "deph", "visit_key", "sea_basin", "visit_month"}

// Read loads every data row from the source file into a Frame.
func (r *Reader) Read() (*qcframe.Frame, error) {
	records, err := r.readRecords()
	if err != nil {
		return nil, core.NewInputDataError(r.path, err.Error())
	}
	if len(records) == 0 {
		return nil, core.NewInputDataError(r.path, "file has no rows")
	}

	header := normalizeHeader(records[0])
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, want := range requiredColumns {
		if _, ok := index[want]; !ok {
			return nil, core.NewInputDataError(r.path, fmt.Sprintf("missing required column %q", want))
		}
	}

	rows := make([]*qcframe.Row, 0, len(records)-1)
	for lineNum, record := range records[1:] {
		row, err := parseRow(record, index)
		if err != nil {
			return nil, core.NewInputDataError(fmt.Sprintf("%s:%d", r.path, lineNum+2), err.Error())
		}
		rows = append(rows, row)
	}
	return qcframe.New(rows), nil
}

func (r *Reader) readRecords() ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(r.path))
	if ext == ".csv" {
		return r.readCSV()
	}
	return r.readExcel()
}

func (r *Reader) readCSV() ([][]string, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func (r *Reader) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheet = f.GetSheetList()[0]
	}
	return f.GetRows(sheet)
}

func normalizeHeader(record []string) []string {
	header := make([]string, len(record))
	for i, name := range record {
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}
	return header
}

func field(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseFloatOrNaN(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseRow(record []string, index map[string]int) (*qcframe.Row, error) {
	monthStr := field(record, index, "visit_month")
	month := 0
	if monthStr != "" {
		m, err := strconv.Atoi(monthStr)
		if err != nil {
			return nil, fmt.Errorf("visit_month %q not an integer: %w", monthStr, err)
		}
		month = m
	}

	return &qcframe.Row{
		Parameter:       field(record, index, "parameter"),
		Value:           parseFloatOrNaN(field(record, index, "value")),
		Deph:            parseFloatOrNaN(field(record, index, "deph")),
		VisitKey:        field(record, index, "visit_key"),
		SeaBasin:        field(record, index, "sea_basin"),
		VisitMonth:      month,
		QualityFlagLong: field(record, index, "quality_flag_long"),
		LmqntVal:        parseFloatOrNaN(field(record, index, "lmqnt_val")),
	}, nil
}
