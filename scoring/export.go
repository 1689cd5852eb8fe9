package scoring

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/text/encoding/unicode"

	"github.com/YuminosukeSato/hpml/pkg/errors"
)

// PredictedColumn は予測値の列名
const PredictedColumn = "predicted_price"

// TruncatePrediction は予測値を0方向に切り捨てて整数にします。
func TruncatePrediction(v float64) int64 {
	return int64(math.Trunc(v))
}

// WriteExport は予測結果を path にBOM付きUTF-8のCSVで書き出します。
// 親ディレクトリは作成し、既存のファイルは上書きします。
func WriteExport(path string, res *Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create export %s", path)
	}
	defer f.Close()

	if err := WriteExportTo(f, res); err != nil {
		return errors.Wrapf(err, "write export %s", path)
	}
	return f.Close()
}

// WriteExportTo は id, 特徴量列, predicted_price の順で書き出します。id は1始まりの連番です。
func WriteExportTo(w io.Writer, res *Result) error {
	bw := unicode.UTF8BOM.NewEncoder().Writer(w)
	cw := csv.NewWriter(bw)

	features := res.Inputs.Columns()
	header := make([]string, 0, len(features)+2)
	header = append(header, "id")
	header = append(header, features...)
	header = append(header, PredictedColumn)
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for i, p := range res.Predictions {
		record[0] = strconv.Itoa(i + 1)
		for j, name := range features {
			record[j+1] = res.Inputs.Cell(i, name)
		}
		record[len(record)-1] = strconv.FormatInt(TruncatePrediction(p), 10)
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	// エンコーダが保持している残りのバイトを書き出す
	if c, ok := bw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
