package models

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/cymig/store/storetest"
	"go.hackfix.me/cymig/store/types"
)

var timeNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func timeNowFn() time.Time {
	return timeNow
}

func TestMigrationRecordStoreParams(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		record := &MigrationRecord{
			Checksum:   "abc123",
			FileName:   "001-init.cyp",
			CypherText: "001-init.cyp",
			Version:    3,
			Timestamp:  timeNow,
		}

		params, err := record.StoreParams()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"checksum":    "abc123",
			"file_name":   "001-init.cyp",
			"cypher_text": "001-init.cyp",
			"version":     int64(3),
			"timestamp":   timeNow,
		}, params)
	})

	t.Run("err/version_overflow", func(t *testing.T) {
		t.Parallel()
		record := &MigrationRecord{
			FileName: "001-init.cyp",
			Version:  math.MaxUint64,
		}

		_, err := record.StoreParams()
		var inputErr types.InvalidInputError
		require.ErrorAs(t, err, &inputErr)
		assert.Contains(t, inputErr.Msg, "version")
	})
}

func TestMigrationRecordSave(t *testing.T) {
	t.Parallel()

	db := storetest.New(timeNowFn)
	record := &MigrationRecord{
		Checksum:   "abc123",
		FileName:   "001-init.cyp",
		CypherText: "001-init.cyp",
		Version:    1,
	}

	require.NoError(t, record.Save(context.Background(), db))

	// The timestamp is assigned at save time.
	assert.Equal(t, timeNow, record.Timestamp)

	node := db.Node("001-init.cyp")
	require.NotNil(t, node)
	assert.Equal(t, "abc123", node["checksum"])
	assert.Equal(t, int64(1), node["version"])
	assert.Equal(t, timeNow, node["timestamp"])
	assert.Equal(t, 1, db.Committed)
}

func TestGetMigration(t *testing.T) {
	t.Parallel()

	db := storetest.New(timeNowFn)
	record := &MigrationRecord{
		Checksum:   "abc123",
		FileName:   "001-init.cyp",
		CypherText: "001-init.cyp",
		Version:    1,
	}
	require.NoError(t, record.Save(context.Background(), db))

	t.Run("ok/found", func(t *testing.T) {
		t.Parallel()
		found, err := GetMigration(context.Background(), db, "001-init.cyp")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, record, found)
	})

	t.Run("ok/absent", func(t *testing.T) {
		// Zero results is a normal outcome, not an error.
		t.Parallel()
		found, err := GetMigration(context.Background(), db, "002-missing.cyp")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestMigrations(t *testing.T) {
	t.Parallel()

	db := storetest.New(timeNowFn)
	for _, record := range []*MigrationRecord{
		{Checksum: "c2", FileName: "002-b.cyp", CypherText: "002-b.cyp", Version: 2},
		{Checksum: "c1", FileName: "001-a.cyp", CypherText: "001-a.cyp", Version: 1},
	} {
		require.NoError(t, record.Save(context.Background(), db))
	}

	records, err := Migrations(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Ordered by version, regardless of insertion order.
	assert.Equal(t, uint64(1), records[0].Version)
	assert.Equal(t, "001-a.cyp", records[0].FileName)
	assert.Equal(t, uint64(2), records[1].Version)
	assert.Equal(t, "002-b.cyp", records[1].FileName)
}

func TestScanMigration(t *testing.T) {
	t.Parallel()

	validProps := func() map[string]any {
		return map[string]any{
			"checksum":    "abc123",
			"file_name":   "001-init.cyp",
			"cypher_text": "001-init.cyp",
			"version":     int64(1),
			"timestamp":   timeNow,
		}
	}

	tests := []struct {
		name   string
		row    map[string]any
		expErr string
	}{
		{
			name: "ok",
			row:  map[string]any{"m": validProps()},
		},
		{
			name:   "err/missing_node",
			row:    map[string]any{"x": validProps()},
			expErr: "missing the migration node",
		},
		{
			name: "err/invalid_version",
			row: map[string]any{"m": func() map[string]any {
				props := validProps()
				props["version"] = "one"
				return props
			}()},
			expErr: "invalid 'version' property",
		},
		{
			name: "err/invalid_timestamp",
			row: map[string]any{"m": func() map[string]any {
				props := validProps()
				props["timestamp"] = "2025-01-01"
				return props
			}()},
			expErr: "invalid 'timestamp' property",
		},
		{
			name: "err/missing_checksum",
			row: map[string]any{"m": func() map[string]any {
				props := validProps()
				delete(props, "checksum")
				return props
			}()},
			expErr: "invalid 'checksum' property",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			record, err := scanMigration(tt.row)
			if tt.expErr != "" {
				var scanErr types.ScanError
				require.ErrorAs(t, err, &scanErr)
				assert.Contains(t, scanErr.Error(), tt.expErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, &MigrationRecord{
				Checksum:   "abc123",
				FileName:   "001-init.cyp",
				CypherText: "001-init.cyp",
				Version:    1,
				Timestamp:  timeNow,
			}, record)
		})
	}
}
