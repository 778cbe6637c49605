package store

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// LoadJSON decodes the value stored under key. ok is false when the key is absent.
func LoadJSON[T any](ctx context.Context, st Store, key string) (T, bool, error) {
	var out T
	raw, ok, err := st.Get(ctx, key)
	if err != nil || !ok {
		return out, false, err
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, false, &StorageError{Op: "decode", Key: key, Err: errors.WithStack(err)}
	}
	return out, true, nil
}

func SaveJSON[T any](ctx context.Context, st Store, key string, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return &StorageError{Op: "encode", Key: key, Err: errors.WithStack(err)}
	}
	return st.Set(ctx, key, string(payload))
}
