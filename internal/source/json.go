package source

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// ReadJSONTable reads a JSON array of flat objects into a Table. Columns are
// the union of keys across all objects, sorted for determinism; object keys
// become column names and downstream alias matching resolves their meaning.
func ReadJSONTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var objects []map[string]any
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	keys := map[string]bool{}
	for _, obj := range objects {
		for k := range obj {
			keys[k] = true
		}
	}
	columns := make([]string, 0, len(keys))
	for k := range keys {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	t := &Table{Columns: columns}
	for _, obj := range objects {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = stringifyJSONValue(obj[c])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func stringifyJSONValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}
