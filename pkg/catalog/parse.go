package catalog

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/roomforge/pkg/errors"
)

// Read decodes a JSON furniture list and validates every item.
func Read(r io.Reader) ([]Item, error) {
	var items []Item
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&items); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFurniture, err, "decode furniture list")
	}
	if err := ValidateAll(items); err != nil {
		return nil, err
	}
	return items, nil
}

// ReadFile loads and validates a furniture list from a JSON file.
func ReadFile(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFurniture, err, "open furniture file %s", path)
	}
	defer f.Close()
	return Read(f)
}
