package queue

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// TableName is the queue table name without prefix.
const TableName = "queues"

// Row is a persisted queue entry.
type Row struct {
	ID      int64  `json:"id"`
	Handler string `json:"handler"`
	Data    Args   `json:"data"`
	// Status is false while the row is pending and true once it has been executed.
	Status bool `json:"status"`
}

// Args is the positional argument list of a row, one raw JSON value per argument.
type Args []json.RawMessage

// Len returns the number of arguments.
func (a Args) Len() int {
	return len(a)
}

// Scan decodes the i-th argument into dst.
func (a Args) Scan(i int, dst any) error {
	if i < 0 || i >= len(a) {
		return fmt.Errorf("%w: %d of %d", ErrArgIndexOutOfRange, i, len(a))
	}
	if err := json.Unmarshal(a[i], dst); err != nil {
		return fmt.Errorf("argument %d: %w", i, err)
	}
	return nil
}

// Values decodes every argument into its generic JSON representation.
func (a Args) Values() ([]any, error) {
	values := make([]any, len(a))
	for i := range a {
		if err := a.Scan(i, &values[i]); err != nil {
			return nil, err
		}
	}
	return values, nil
}

// EncodeArgs serializes a positional argument list into its storage form.
// A nil list is stored as an empty JSON array.
func EncodeArgs(args []any) (string, error) {
	if args == nil {
		args = []any{}
	}
	b, err := json.Marshal(args)
	if err != nil {
		return "", errors.Join(ErrArgsMarshal, err)
	}
	return string(b), nil
}

// DecodeArgs parses the storage form back into positional arguments.
// NULL, empty and "null" data decode to an empty list.
func DecodeArgs(data string) (Args, error) {
	if data == "" || data == "null" {
		return Args{}, nil
	}
	var args Args
	if err := json.Unmarshal([]byte(data), &args); err != nil {
		return nil, errors.Join(ErrArgsDecode, err)
	}
	if args == nil {
		args = Args{}
	}
	return args, nil
}

func decodeNullArgs(data sql.NullString) (Args, error) {
	if !data.Valid {
		return Args{}, nil
	}
	return DecodeArgs(data.String)
}
