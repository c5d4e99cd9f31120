package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/cymig/store/types"
)

type fakeRows struct {
	records []map[string]any
	err     error
	pos     int
	current map[string]any
}

var _ types.Rows = (*fakeRows)(nil)

func (r *fakeRows) Next(_ context.Context) bool {
	if r.pos >= len(r.records) {
		return false
	}
	r.current = r.records[r.pos]
	r.pos++
	return true
}

func (r *fakeRows) Record() map[string]any { return r.current }

func (r *fakeRows) Err() error { return r.err }

func scanName(row map[string]any) (*string, error) {
	name, ok := row["name"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid 'name' value: %v", row["name"])
	}
	return &name, nil
}

func TestGetSingle(t *testing.T) {
	t.Parallel()

	t.Run("ok/one_row", func(t *testing.T) {
		t.Parallel()
		rows := &fakeRows{records: []map[string]any{{"name": "a"}, {"name": "b"}}}
		result, err := GetSingle(context.Background(), rows, scanName)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "a", *result)
	})

	t.Run("ok/zero_rows", func(t *testing.T) {
		t.Parallel()
		result, err := GetSingle(context.Background(), &fakeRows{}, scanName)
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("err/stream_error", func(t *testing.T) {
		t.Parallel()
		errBoom := errors.New("connection reset")
		_, err := GetSingle(context.Background(), &fakeRows{err: errBoom}, scanName)
		require.ErrorIs(t, err, errBoom)
	})

	t.Run("err/scan_error", func(t *testing.T) {
		t.Parallel()
		rows := &fakeRows{records: []map[string]any{{"name": 42}}}
		_, err := GetSingle(context.Background(), rows, scanName)
		require.Error(t, err)
	})
}

func TestSingle(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		rows := &fakeRows{records: []map[string]any{{"name": "a"}}}
		result, err := Single(context.Background(), rows, "thing", "name 'a'", scanName)
		require.NoError(t, err)
		assert.Equal(t, "a", *result)
	})

	t.Run("err/zero_rows", func(t *testing.T) {
		t.Parallel()
		_, err := Single(context.Background(), &fakeRows{}, "thing", "name 'a'", scanName)
		var noResErr types.NoResultError
		require.ErrorAs(t, err, &noResErr)
		assert.Equal(t, "thing", noResErr.ModelName)
	})
}

func TestAll(t *testing.T) {
	t.Parallel()

	t.Run("ok/skips_unscannable_rows", func(t *testing.T) {
		t.Parallel()
		rows := &fakeRows{records: []map[string]any{
			{"name": "a"},
			{"name": 42},
			{"name": "b"},
		}}
		results, err := All(context.Background(), rows, scanName)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "a", *results[0])
		assert.Equal(t, "b", *results[1])
	})

	t.Run("ok/empty", func(t *testing.T) {
		t.Parallel()
		results, err := All(context.Background(), &fakeRows{}, scanName)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("err/stream_error", func(t *testing.T) {
		t.Parallel()
		errBoom := errors.New("connection reset")
		_, err := All(context.Background(), &fakeRows{err: errBoom}, scanName)
		require.ErrorIs(t, err, errBoom)
	})
}
