package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alfredjeanlab/pulse/internal/model"
)

// notificationColumns is the column list used for SELECT statements on the
// notifications table.
const notificationColumns = `id, user_id, type, title, message, link, read, created_at`

// activityColumns is the column list used for SELECT statements on the
// activity table.
const activityColumns = `id, project_id, actor, action, target_type, target_id, target_name, details, metadata, created_at`

// defaultActivityLimit caps ListActivity when the caller supplies none.
const defaultActivityLimit = 50

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateNotification(ctx context.Context, db executor, n *model.Notification) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, link, read)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
		RETURNING created_at`,
		n.ID,
		n.UserID,
		n.Type,
		n.Title,
		nullString(n.Message),
		nullString(n.Link),
	).Scan(&n.CreatedAt)
}

func queryListNotifications(ctx context.Context, db executor, userID string, unreadOnly bool) ([]*model.Notification, error) {
	q := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1`
	if unreadOnly {
		q += ` AND read = FALSE`
	}
	q += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func queryCountUnreadNotifications(ctx context.Context, db executor, userID string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE user_id = $1 AND read = FALSE`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

func queryMarkNotificationRead(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// queryMarkAllNotificationsRead flips every unread notification for the user.
// Calling it again once all are read updates zero rows; it is idempotent.
func queryMarkAllNotificationsRead(ctx context.Context, db executor, userID string) (int64, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE user_id = $1 AND read = FALSE`,
		userID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func queryDeleteNotification(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryDeleteReadNotifications(ctx context.Context, db executor, userID string) (int64, error) {
	res, err := db.ExecContext(ctx, `
		DELETE FROM notifications
		WHERE user_id = $1 AND read = TRUE`,
		userID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func queryRecordActivity(ctx context.Context, db executor, e *model.ActivityEntry) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO activity (project_id, actor, action, target_type, target_id, target_name, details, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		e.ProjectID,
		nullString(e.Actor),
		e.Action,
		nullString(e.TargetType),
		nullString(e.TargetID),
		nullString(e.TargetName),
		nullString(e.Details),
		jsonbBytes(e.Metadata),
	).Scan(&e.ID, &e.CreatedAt)
}

func queryListActivity(ctx context.Context, db executor, projectID string, limit int) ([]*model.ActivityEntry, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	var (
		rows *sql.Rows
		err  error
	)
	if projectID != "" {
		rows, err = db.QueryContext(ctx, `
			SELECT `+activityColumns+` FROM activity
			WHERE project_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2`,
			projectID, limit,
		)
	} else {
		rows, err = db.QueryContext(ctx, `
			SELECT `+activityColumns+` FROM activity
			ORDER BY created_at DESC, id DESC
			LIMIT $1`,
			limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()
	return scanActivityEntries(rows)
}
