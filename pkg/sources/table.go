package sources

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/agentstation/reelmap/pkg/catalog"
	"github.com/agentstation/reelmap/pkg/errors"
)

// tableFormat describes a delimited file.
type tableFormat struct {
	name  string // "csv" or "tsv"
	comma rune
	// nulls are cell values read as missing, in addition to the empty string.
	nulls []string
}

var (
	csvFormat = tableFormat{name: "csv", comma: ','}
	tsvFormat = tableFormat{name: "tsv", comma: '\t', nulls: []string{`\N`}}
)

// readTable reads a delimited file with a header row into a RawTable.
// A missing file is an *errors.NotFoundError naming resource. Files ending
// in .gz are decompressed transparently.
func readTable(path, resource string, format tableFormat) (*catalog.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.NotFoundError{Resource: resource, ID: path}
		}
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.WrapParse("gzip", path, err)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	cr := csv.NewReader(r)
	cr.Comma = format.comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return &catalog.RawTable{Name: resource}, nil
	}
	if err != nil {
		return nil, parseError(format.name, path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	table := &catalog.RawTable{Name: resource, Header: header}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseError(format.name, path, err)
		}
		row := make([]*string, len(record))
		for i, cell := range record {
			if cell == "" || format.isNull(cell) {
				continue
			}
			row[i] = &record[i]
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func (f tableFormat) isNull(cell string) bool {
	for _, n := range f.nulls {
		if cell == n {
			return true
		}
	}
	return false
}

func parseError(format, path string, err error) error {
	pe := &errors.ParseError{Format: format, File: path, Message: err.Error(), Err: err}
	if csvErr, ok := err.(*csv.ParseError); ok {
		pe.Line = csvErr.Line
		pe.Column = csvErr.Column
		pe.Message = csvErr.Err.Error()
	}
	return pe
}

// columns resolves required column positions, failing with a SchemaError.
func columns(table *catalog.RawTable, names ...string) ([]int, error) {
	fields := make([]catalog.Field, len(names))
	for i, n := range names {
		fields[i] = catalog.Field{Name: n}
	}
	schema := catalog.Schema{Table: table.Name, Fields: fields}
	if err := schema.Validate(table.Header); err != nil {
		return nil, err
	}
	return schema.Project(table.Header), nil
}
