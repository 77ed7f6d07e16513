package flatfile

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/templui/datanexus/internal/apperr"
	"github.com/templui/datanexus/internal/model"
)

const defaultSheet = "Sheet1"

// xlsxCodec reads the first worksheet; row 1 is the header.
type xlsxCodec struct{}

func (xlsxCodec) decode(r io.Reader) (*Table, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.Malformed(err, "Failed to open spreadsheet: %v", err)
	}
	defer func() { _ = file.Close() }()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}

	records, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, apperr.Malformed(err, "Failed to read spreadsheet rows: %v", err)
	}

	table := &Table{}
	for _, record := range records {
		if isBlank(record) {
			continue
		}
		if table.Columns == nil {
			table.Columns = record
			continue
		}

		row := make(model.Row, len(table.Columns))
		for i, column := range table.Columns {
			if i < len(record) {
				row[column] = record[i]
			} else {
				row[column] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if field != "" {
			return false
		}
	}
	return true
}

func (xlsxCodec) encode(w io.Writer, columns []string, rows []model.Row) error {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	header := make([]any, len(columns))
	for i, column := range columns {
		header[i] = column
	}
	err := file.SetSheetRow(defaultSheet, "A1", &header)
	if err != nil {
		return err
	}

	for i, row := range rows {
		values := make([]any, len(columns))
		for j, column := range columns {
			values[j] = row[column]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		err = file.SetSheetRow(defaultSheet, cell, &values)
		if err != nil {
			return err
		}
	}

	_, err = file.WriteTo(w)
	return err
}
