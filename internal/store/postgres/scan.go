package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/alfredjeanlab/pulse/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanNotification scans a single row into a model.Notification.
// The row must contain columns in the order defined by notificationColumns.
func scanNotification(row scannable) (*model.Notification, error) {
	var n model.Notification
	var (
		message sql.NullString
		link    sql.NullString
	)

	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Type,
		&n.Title,
		&message,
		&link,
		&n.Read,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.Message = message.String
	n.Link = link.String
	return &n, nil
}

// scanNotifications scans multiple rows into a slice of model.Notification pointers.
func scanNotifications(rows *sql.Rows) ([]*model.Notification, error) {
	var notifications []*model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

// scanActivityEntry scans a single row into a model.ActivityEntry.
func scanActivityEntry(row scannable) (*model.ActivityEntry, error) {
	var e model.ActivityEntry
	var (
		actor      sql.NullString
		targetType sql.NullString
		targetID   sql.NullString
		targetName sql.NullString
		details    sql.NullString
		metadata   []byte
	)

	err := row.Scan(
		&e.ID,
		&e.ProjectID,
		&actor,
		&e.Action,
		&targetType,
		&targetID,
		&targetName,
		&details,
		&metadata,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Actor = actor.String
	e.TargetType = targetType.String
	e.TargetID = targetID.String
	e.TargetName = targetName.String
	e.Details = details.String
	if len(metadata) > 0 {
		e.Metadata = json.RawMessage(metadata)
	}
	return &e, nil
}

// scanActivityEntries scans multiple rows into a slice of model.ActivityEntry pointers.
func scanActivityEntries(rows *sql.Rows) ([]*model.ActivityEntry, error) {
	var entries []*model.ActivityEntry
	for rows.Next() {
		e, err := scanActivityEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// nullString converts a string to sql.NullString; empty string is null.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// jsonbBytes converts json.RawMessage to a []byte suitable for JSONB columns.
func jsonbBytes(m json.RawMessage) []byte {
	if len(m) == 0 {
		return nil
	}
	return []byte(m)
}
