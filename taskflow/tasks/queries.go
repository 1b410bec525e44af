package tasks

const (
	pgCreate = `
		INSERT INTO tasks (id, user_id, title, description, status, priority, due_date, created_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	pgGet = `
		SELECT id, user_id, title, description, status, priority, due_date, created_at, updated_at, completed_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	pgList = `
		SELECT id, user_id, title, description, status, priority, due_date, created_at, updated_at, completed_at
		FROM tasks
		WHERE user_id = $1
			AND ($2 = '' OR status = $2)
			AND ($3 = '' OR priority = $3)
		ORDER BY created_at DESC, id DESC
	`

	pgUpdate = `
		UPDATE tasks
		SET title = $3, description = $4, status = $5, priority = $6,
			due_date = $7, updated_at = $8, completed_at = $9
		WHERE id = $1 AND user_id = $2
	`

	pgDelete = `
		DELETE FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	pgStats = `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN priority = 'high' THEN 1 ELSE 0 END), 0)
		FROM tasks
		WHERE user_id = $1
	`

	sqliteCreate = `
		INSERT INTO tasks (id, user_id, title, description, status, priority, due_date, created_at, updated_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	sqliteGet = `
		SELECT id, user_id, title, description, status, priority, due_date, created_at, updated_at, completed_at
		FROM tasks
		WHERE id = ? AND user_id = ?
	`

	sqliteList = `
		SELECT id, user_id, title, description, status, priority, due_date, created_at, updated_at, completed_at
		FROM tasks
		WHERE user_id = ?
			AND (? = '' OR status = ?)
			AND (? = '' OR priority = ?)
		ORDER BY created_at DESC, id DESC
	`

	sqliteUpdate = `
		UPDATE tasks
		SET title = ?, description = ?, status = ?, priority = ?,
			due_date = ?, updated_at = ?, completed_at = ?
		WHERE id = ? AND user_id = ?
	`

	sqliteDelete = `
		DELETE FROM tasks
		WHERE id = ? AND user_id = ?
	`

	sqliteStats = `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN priority = 'high' THEN 1 ELSE 0 END), 0)
		FROM tasks
		WHERE user_id = ?
	`
)
