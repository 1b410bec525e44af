package users

const (
	pgUpsert = `
		INSERT INTO users (id, external_id, email, display_name, created_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_id)
		DO UPDATE SET
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			last_login_at = EXCLUDED.last_login_at
		RETURNING id, external_id, email, display_name, created_at, last_login_at
	`

	pgFindByExternalID = `
		SELECT id, external_id, email, display_name, created_at, last_login_at
		FROM users
		WHERE external_id = $1
	`

	pgFindByID = `
		SELECT id, external_id, email, display_name, created_at, last_login_at
		FROM users
		WHERE id = $1
	`

	sqliteUpsert = `
		INSERT INTO users (id, external_id, email, display_name, created_at, last_login_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (external_id)
		DO UPDATE SET
			email = excluded.email,
			display_name = excluded.display_name,
			last_login_at = excluded.last_login_at
		RETURNING id, external_id, email, display_name, created_at, last_login_at
	`

	sqliteFindByExternalID = `
		SELECT id, external_id, email, display_name, created_at, last_login_at
		FROM users
		WHERE external_id = ?
	`

	sqliteFindByID = `
		SELECT id, external_id, email, display_name, created_at, last_login_at
		FROM users
		WHERE id = ?
	`
)
