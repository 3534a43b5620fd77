package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/NestCut/internal/model"
)

// ImportResult holds the outcome of a part list import. Rows that fail to
// parse land in Errors without aborting the rest of the list.
type ImportResult struct {
	Items    []model.NestItem
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Source    int
	Quantity  int
	Rotations int
	Mirror    int
	Multi     int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"source":    {"source", "source geometry", "file", "path", "dxf", "geometry", "filename", "drawing"},
	"quantity":  {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
	"rotations": {"rotations", "rotation", "rot", "angles", "allowed rotations"},
	"mirror":    {"mirror", "mirrorable", "allow mirror", "flip"},
	"multi":     {"multi", "multipart", "multi part", "multi-part", "split"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV
// delimiter. It tries comma, semicolon, tab, and pipe; the delimiter that
// produces the most consistent multi-column split across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns.
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping. Matching
// is case-insensitive against the known aliases for each column role. Returns
// the mapping and true if a header was detected, or a positional mapping
// (source, quantity, rotations, mirror, multi) and false if not.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		Source:    -1,
		Quantity:  -1,
		Rotations: -1,
		Mirror:    -1,
		Multi:     -1,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					switch role {
					case "source":
						if mapping.Source == -1 {
							mapping.Source = i
						}
					case "quantity":
						if mapping.Quantity == -1 {
							mapping.Quantity = i
						}
					case "rotations":
						if mapping.Rotations == -1 {
							mapping.Rotations = i
						}
					case "mirror":
						if mapping.Mirror == -1 {
							mapping.Mirror = i
						}
					case "multi":
						if mapping.Multi == -1 {
							mapping.Multi = i
						}
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{
			Source:    0,
			Quantity:  1,
			Rotations: 2,
			Mirror:    3,
			Multi:     4,
		}, false
	}

	return mapping, true
}

// parseRotations reads an angle list like "0;90;270". Semicolon, pipe, slash,
// and whitespace all work as separators, so the list survives any of the CSV
// delimiters without quoting.
func parseRotations(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == '|' || r == '/' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty rotation list")
	}
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rotation '%s'", f)
		}
		if v < 0 || v >= 360 {
			return nil, fmt.Errorf("rotation %g outside [0, 360)", v)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseFlag converts a yes/no style cell to a boolean. The second return
// value reports whether the string was recognized.
func parseFlag(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "on":
		return true, true
	case "no", "n", "false", "0", "off", "-":
		return false, true
	default:
		return false, false
	}
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a NestItem from a row using the given column mapping.
// Returns the item, any error message, and any warning messages.
func parseRow(row []string, mapping ColumnMapping, rowLabel, baseDir string) (model.NestItem, string, []string) {
	source := getCell(row, mapping.Source)
	if source == "" {
		return model.NestItem{}, fmt.Sprintf("%s: Missing source geometry path", rowLabel), nil
	}

	item := model.NestItem{
		SourcePath: resolveSource(baseDir, source),
		Quantity:   1,
	}

	// Quantity is optional; a bare list of files nests one of each.
	qtyStr := getCell(row, mapping.Quantity)
	if qtyStr != "" {
		qty, err := strconv.Atoi(qtyStr)
		if err != nil || qty <= 0 {
			return model.NestItem{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), nil
		}
		item.Quantity = qty
	}

	var warnings []string

	if rotStr := getCell(row, mapping.Rotations); rotStr != "" {
		rotations, err := parseRotations(rotStr)
		if err != nil {
			return model.NestItem{}, fmt.Sprintf("%s: %v", rowLabel, err), nil
		}
		ensureConstraints(&item).Rotations = rotations
	}

	if mirrorStr := getCell(row, mapping.Mirror); mirrorStr != "" {
		allowed, ok := parseFlag(mirrorStr)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown mirror value '%s', leaving mirroring enabled", rowLabel, mirrorStr))
		} else if !allowed {
			ensureConstraints(&item).NoMirror = true
		}
	}

	if multiStr := getCell(row, mapping.Multi); multiStr != "" {
		multi, ok := parseFlag(multiStr)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown multi value '%s', treating file as single part", rowLabel, multiStr))
		} else {
			item.Multi = multi
		}
	}

	return item, "", warnings
}

func ensureConstraints(item *model.NestItem) *model.PartConstraints {
	if item.Constraints == nil {
		item.Constraints = &model.PartConstraints{}
	}
	return item.Constraints
}

// resolveSource makes relative geometry paths relative to the part list
// location instead of the working directory.
func resolveSource(baseDir, source string) string {
	if baseDir == "" || filepath.IsAbs(source) {
		return source
	}
	return filepath.Join(baseDir, source)
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports nest items from a CSV part list. It automatically detects
// the delimiter and maps columns by header names. Relative geometry paths are
// resolved against the list's directory.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", filepath.Dir(path), result.Warnings)
}

// ImportCSVFromReader imports nest items from a CSV reader with a known
// delimiter. Relative geometry paths are kept as written.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", "", nil)
}

// ImportExcel imports nest items from an Excel (.xlsx) part list. Reads the
// first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", filepath.Dir(path), nil)
}

// ImportPartList picks the importer from the file extension: .xlsx goes
// through excelize, anything else is treated as CSV.
func ImportPartList(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(path)
	default:
		return ImportCSV(path)
	}
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into nest items.
func importFromRows(rows [][]string, rowPrefix, baseDir string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		if mapping.Source == -1 {
			result.Errors = append(result.Errors, "Required column not found in header: Source")
			return result
		}
	} else if len(rows[0]) >= 2 {
		// No recognized header. If the second column is not a quantity the
		// first row is probably an unrecognized header; skip it but keep the
		// positional mapping.
		if cell := strings.TrimSpace(rows[0][1]); cell != "" {
			if _, err := strconv.Atoi(cell); err != nil {
				startRow = 1
				result.Warnings = append(result.Warnings, "Detected header row, skipping")
			}
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		item, errMsg, warnings := parseRow(row, mapping, rowLabel, baseDir)

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Items = append(result.Items, item)
	}

	return result
}
