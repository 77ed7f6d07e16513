package flatfile

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"

	"github.com/templui/datanexus/internal/apperr"
	"github.com/templui/datanexus/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type csvCodec struct{}

func (csvCodec) decode(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	table := &Table{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperr.Malformed(err, "Failed to parse CSV: %v", err)
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

func (csvCodec) encode(w io.Writer, columns []string, rows []model.Row) error {
	writer := csv.NewWriter(w)

	err := writer.Write(columns)
	if err != nil {
		return err
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, column := range columns {
			record[i] = row[column]
		}
		err = writer.Write(record)
		if err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
