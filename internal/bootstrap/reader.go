package bootstrap

import (
	"encoding/csv"
	"fmt"
	"io/fs"
)

// readRecords reads a comma-separated file from fsys and returns its rows
// with the header line removed. The whole read either succeeds or fails;
// errors name the file so a broken fixture is easy to find.
func readRecords(fsys fs.FS, name string) ([][]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}
