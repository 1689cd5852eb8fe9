package frame

import (
	"encoding/csv"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/YuminosukeSato/hpml/pkg/errors"
)

// ReadCSV はヘッダ付きCSVを読み込みます。先頭のBOMは取り除きます。
func ReadCSV(r io.Reader) (*Frame, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.Wrap(errors.ErrEmptyData, "read header")
		}
		return nil, errors.Wrap(err, "read header")
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read record")
		}
		rows = append(rows, rec)
	}
	return New(header, rows)
}

// ReadCSVFile は path のCSVファイルを読み込みます。
func ReadCSVFile(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open csv %s", path)
	}
	defer f.Close()

	fr, err := ReadCSV(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse csv %s", path)
	}
	return fr, nil
}
