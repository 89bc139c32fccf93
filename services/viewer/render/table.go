package render

import (
	"bytes"
	"text/tabwriter"

	"github.com/homedash/home-dash/services/dashboard/common"
	"github.com/tidwall/gjson"
)

const noDataPlaceholder = "No data"

// renderTable renders the latest data's "partitions" array as one row per element.
// Columns come from the display options or are inferred from the first row's fields in
// document order. An empty array yields the "No data" placeholder, not an empty table.
func renderTable(display common.DisplayConfig, latest *common.Sample) string {
	if latest == nil {
		return noDataPlaceholder
	}

	rows := gjson.GetBytes(latest.Data, "partitions").Array()
	if len(rows) == 0 {
		return noDataPlaceholder
	}

	columns := configuredColumns(display)
	if len(columns) == 0 {
		columns = inferColumns(rows[0])
	}
	if len(columns) == 0 {
		return noDataPlaceholder
	}

	buf := &bytes.Buffer{}
	writer := tabwriter.NewWriter(buf, 0, 4, 2, ' ', 0)

	for i, col := range columns {
		if i > 0 {
			_, _ = writer.Write([]byte("\t"))
		}
		_, _ = writer.Write([]byte(col))
	}
	_, _ = writer.Write([]byte("\n"))

	for _, row := range rows {
		for i, col := range columns {
			if i > 0 {
				_, _ = writer.Write([]byte("\t"))
			}
			_, _ = writer.Write([]byte(formatCell(row.Get(col))))
		}
		_, _ = writer.Write([]byte("\n"))
	}

	_ = writer.Flush()

	return buf.String()
}

func configuredColumns(display common.DisplayConfig) []string {
	rawColumns, found := display.Options["columns"]
	if !found {
		return nil
	}

	values, ok := rawColumns.([]interface{})
	if !ok {
		return nil
	}

	columns := make([]string, 0, len(values))
	for _, value := range values {
		column, isString := value.(string)
		if isString {
			columns = append(columns, column)
		}
	}

	return columns
}

// inferColumns returns the first row's field names in document order
func inferColumns(row gjson.Result) []string {
	columns := make([]string, 0)
	row.ForEach(func(key gjson.Result, _ gjson.Result) bool {
		columns = append(columns, key.String())
		return true
	})

	return columns
}

func formatCell(value gjson.Result) string {
	if !value.Exists() {
		return ""
	}
	if value.Type == gjson.Number {
		return AbbreviateNumber(value.Float())
	}

	return value.String()
}
