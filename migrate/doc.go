// Package migrate applies Cypher schema migrations to a Neo4j database.
//
// Features:
// - Discovers `.cyp` and `.cypher` migration scripts in a directory
// - Fingerprints each script with a SHA-256 content checksum
// - Records every applied migration as a DataModelMigration node (the chain)
// - Skips already applied migrations, and fails fast on content drift
// - Applies migrations strictly in discovery order, one at a time
//
// A migration's script execution and its chain record are committed in two
// separate transactions. A crash between the two leaves the script's effects
// committed without a chain entry, so a re-run will execute that script
// again. Deployments that need stronger guarantees should put a uniqueness
// constraint on the chain's file_name property.
package migrate
