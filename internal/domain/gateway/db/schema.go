package db

const createTableStatement = `CREATE TABLE IF NOT EXISTS todos (
	id SERIAL PRIMARY KEY,
	text VARCHAR(255) NOT NULL
)`

// Only applied when full schema provisioning is enabled.
var fullSchemaStatements = []string{
	`ALTER TABLE todos ADD COLUMN IF NOT EXISTS completed BOOLEAN DEFAULT FALSE`,
	`ALTER TABLE todos ADD COLUMN IF NOT EXISTS created_at TIMESTAMP DEFAULT NOW()`,
}

// SchemaStatements returns the DDL run by CreateTable.
func SchemaStatements(provisionFullSchema bool) []string {
	statements := []string{createTableStatement}
	if provisionFullSchema {
		statements = append(statements, fullSchemaStatements...)
	}
	return statements
}
