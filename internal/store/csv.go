package store

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/agentstation/reelmap/pkg/constants"
	"github.com/agentstation/reelmap/pkg/errors"
	"github.com/agentstation/reelmap/pkg/reconciler"
)

// WriteCSV writes res to path with a header row. Missing values are empty
// cells; integral floats keep a trailing ".0".
func WriteCSV(path string, res *reconciler.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(res.Columns); err != nil {
		_ = f.Close()
		return errors.WrapIO("write", path, err)
	}
	record := make([]string, len(res.Columns))
	for _, values := range res.Values() {
		for i, v := range values {
			record[i] = csvValue(v)
		}
		if err := w.Write(record); err != nil {
			_ = f.Close()
			return errors.WrapIO("write", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return errors.WrapIO("write", path, err)
	}
	return errors.WrapIO("close", path, f.Close())
}

func csvValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint8:
		return strconv.Itoa(int(t))
	case float64:
		s := strconv.FormatFloat(t, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eEn") {
			s += ".0"
		}
		return s
	default:
		return ""
	}
}
