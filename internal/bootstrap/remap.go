package bootstrap

import (
	"fmt"
	"strconv"
)

// remap translates the file-local ids used inside one CSV file into the
// surrogate ids the database assigned when the rows were persisted. One
// remap is scoped to a single entity kind; ids are only known after the
// insert returns, so rows referencing earlier files go through here
// instead of carrying database ids themselves.
type remap map[int64]uint64

func (m remap) put(fileID int64, id uint64) { m[fileID] = id }

// get returns the persisted id for a file-local id. A missing entry means
// the referenced row was never persisted; callers skip the dependent row.
func (m remap) get(fileID int64) (uint64, bool) {
	id, ok := m[fileID]
	return id, ok
}

// parseFileID parses a file-local id column. Failure is fatal for the run:
// a non-numeric id column means the file itself is broken, not that a
// reference is dangling.
func parseFileID(file, field string) (int64, error) {
	id, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: bad id %q: %w", file, field, err)
	}
	return id, nil
}
