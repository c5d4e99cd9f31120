package models

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"go.hackfix.me/cymig/store"
	"go.hackfix.me/cymig/store/types"
)

//go:embed queries/create_migration_node.cypher
var createMigrationNodeQuery string

//go:embed queries/get_migration.cypher
var getMigrationQuery string

//go:embed queries/all_migrations.cypher
var allMigrationsQuery string

// MigrationRecord represents one applied migration in the chain of
// DataModelMigration nodes in the store. A record is created once, when a
// migration is first applied, and never mutated or deleted afterwards.
type MigrationRecord struct {
	Checksum string
	FileName string
	// CypherText holds the migration's file name, not the script body.
	// Downstream consumers may depend on this, so it is kept as-is.
	CypherText string
	Version    uint64
	Timestamp  time.Time
}

// Save stores the record as a new chain node, in its own transaction. The
// timestamp is assigned here, at application time.
func (r *MigrationRecord) Save(ctx context.Context, d types.Querier) error {
	r.Timestamp = d.TimeNow().UTC()

	params, err := r.StoreParams()
	if err != nil {
		return err
	}

	tx, err := d.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Run(ctx, createMigrationNodeQuery, map[string]any{"migrationNode": params})
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// StoreParams serializes the record into the store's native parameter
// representation. It fails if any field value cannot be represented.
func (r *MigrationRecord) StoreParams() (map[string]any, error) {
	fields := map[string]any{
		"checksum":    r.Checksum,
		"file_name":   r.FileName,
		"cypher_text": r.CypherText,
		"version":     r.Version,
		"timestamp":   r.Timestamp,
	}

	params := make(map[string]any, len(fields))
	for name, value := range fields {
		v, err := paramValue(value)
		if err != nil {
			return nil, types.InvalidInputError{
				Msg: fmt.Sprintf("cannot parameterize field '%s': %s", name, err),
			}
		}
		params[name] = v
	}

	return params, nil
}

// GetMigration looks up a chain node by file name. It returns nil without an
// error if no migration with that name was ever applied, since absence is the
// expected outcome for new migrations.
func GetMigration(ctx context.Context, d types.Querier, fileName string) (*MigrationRecord, error) {
	tx, err := d.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	rows, err := tx.Run(ctx, getMigrationQuery, map[string]any{"migration_file_name": fileName})
	if err != nil {
		return nil, err
	}

	record, err := store.GetSingle(ctx, rows, scanMigration)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

// Migrations returns all chain nodes, ordered by version.
func Migrations(ctx context.Context, d types.Querier) ([]*MigrationRecord, error) {
	tx, err := d.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	rows, err := tx.Run(ctx, allMigrationsQuery, nil)
	if err != nil {
		return nil, err
	}

	records, err := store.All(ctx, rows, scanMigration)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	return records, nil
}

func scanMigration(row map[string]any) (*MigrationRecord, error) {
	props, ok := row["m"].(map[string]any)
	if !ok {
		return nil, types.ScanError{
			ModelName: "migration",
			Err:       fmt.Errorf("row is missing the migration node"),
		}
	}

	record := &MigrationRecord{}
	var err error
	if record.Checksum, err = propString(props, "checksum"); err != nil {
		return nil, types.ScanError{ModelName: "migration", Err: err}
	}
	if record.FileName, err = propString(props, "file_name"); err != nil {
		return nil, types.ScanError{ModelName: "migration", Err: err}
	}
	if record.CypherText, err = propString(props, "cypher_text"); err != nil {
		return nil, types.ScanError{ModelName: "migration", Err: err}
	}

	version, ok := props["version"].(int64)
	if !ok || version < 0 {
		return nil, types.ScanError{
			ModelName: "migration",
			Err:       fmt.Errorf("invalid 'version' property: %v", props["version"]),
		}
	}
	record.Version = uint64(version)

	if record.Timestamp, ok = props["timestamp"].(time.Time); !ok {
		return nil, types.ScanError{
			ModelName: "migration",
			Err:       fmt.Errorf("invalid 'timestamp' property: %v", props["timestamp"]),
		}
	}

	return record, nil
}

func propString(props map[string]any, name string) (string, error) {
	s, ok := props[name].(string)
	if !ok {
		return "", fmt.Errorf("invalid '%s' property: %v", name, props[name])
	}
	return s, nil
}
