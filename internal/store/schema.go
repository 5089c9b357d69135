package store

var schema = []string{
	`CREATE TABLE IF NOT EXISTS card_runs (
		id            UUID PRIMARY KEY,
		source        TEXT NOT NULL,
		format        TEXT NOT NULL,
		encoding      TEXT NOT NULL,
		contact_count INTEGER NOT NULL,
		client_ip     TEXT NOT NULL DEFAULT '',
		user_agent    TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS card_runs_created_at_idx ON card_runs (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS card_contacts (
		run_id     UUID NOT NULL REFERENCES card_runs (id) ON DELETE CASCADE,
		position   INTEGER NOT NULL,
		surname    TEXT NOT NULL,
		firstname  TEXT NOT NULL,
		fathername TEXT NOT NULL,
		duty       TEXT NOT NULL,
		address    TEXT NOT NULL,
		phones     TEXT NOT NULL,
		email      TEXT NOT NULL,
		skype      TEXT NOT NULL,
		website    TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	)`,
}

var contactColumns = []string{
	"run_id", "position", "surname", "firstname", "fathername", "duty",
	"address", "phones", "email", "skype", "website",
}

const (
	insertRunSQL = `INSERT INTO card_runs (id, source, format, encoding, contact_count, client_ip, user_agent, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	recentRunsSQL = `SELECT id, source, format, encoding, contact_count, client_ip, user_agent, created_at
FROM card_runs ORDER BY created_at DESC LIMIT $1`

	getRunSQL = `SELECT id, source, format, encoding, contact_count, client_ip, user_agent, created_at
FROM card_runs WHERE id = $1`

	runContactsSQL = `SELECT surname, firstname, fathername, duty, address, phones, email, skype, website
FROM card_contacts WHERE run_id = $1 ORDER BY position`
)
