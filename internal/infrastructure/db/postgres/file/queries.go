package file

const (
	InsertFile = `
		INSERT INTO files (id, owner_id, file_name, original_name, mime_type, size_bytes, storage_key, upload_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, owner_id, file_name, original_name, mime_type, size_bytes, storage_key, upload_date
	`
	SelectFileByID = `
		SELECT id, owner_id, file_name, original_name, mime_type, size_bytes, storage_key, upload_date
		FROM files
		WHERE id = $1
	`
	SelectOwnerFiles = `
		SELECT id, owner_id, file_name, original_name, mime_type, size_bytes, storage_key, upload_date
		FROM files
		WHERE owner_id = $1
		ORDER BY upload_date DESC, id
	`
	SelectSharedUsers = `
		SELECT user_id
		FROM file_shares
		WHERE file_id = $1
		ORDER BY created_at, user_id
	`
	SelectShareLinks = `
		SELECT token, expires_at
		FROM file_share_links
		WHERE file_id = $1
		ORDER BY created_at, token
	`
	SelectFileIDByToken = `
		SELECT file_id
		FROM file_share_links
		WHERE token = $1
	`
	// InsertSharedUsers is a set union: only existing users other than the
	// owner are added, and existing grants are left alone.
	InsertSharedUsers = `
		INSERT INTO file_shares (file_id, user_id)
		SELECT f.id, u.id
		FROM files f
		JOIN users u ON u.id = ANY($3::uuid[])
		WHERE f.id = $1 AND f.owner_id = $2 AND u.id <> f.owner_id
		ON CONFLICT (file_id, user_id) DO NOTHING
	`
	InsertShareLink = `
		INSERT INTO file_share_links (token, file_id, expires_at)
		VALUES ($1, $2, $3)
	`
	DeleteFile = `
		DELETE FROM files
		WHERE id = $1
		RETURNING id, owner_id, file_name, original_name, mime_type, size_bytes, storage_key, upload_date
	`
	DeleteExpiredLinks = `
		DELETE FROM file_share_links
		WHERE expires_at <= $1
	`
)
