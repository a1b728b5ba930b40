package user

const (
	SelectUserByID = `
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE id = $1
	`
	SelectUserByEmail = `
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE lower(email) = lower($1)
	`
	SelectUsersByIDs = `
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE id = ANY($1::uuid[])
		ORDER BY name
	`
	SelectUsersExcept = `
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE id <> $1
		ORDER BY name
	`
	InsertUser = `
		INSERT INTO users (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, name, password_hash, created_at
	`
)
