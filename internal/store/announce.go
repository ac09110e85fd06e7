package store

import (
	"context"
	"time"
)

const listActiveAnnouncements = `
SELECT id, title, is_active, start_at, end_at
FROM announcements
WHERE is_active AND start_at <= $1 AND end_at > $1
ORDER BY start_at DESC`

// ListActiveAnnouncements returns announcements whose window covers now.
func (q *Queries) ListActiveAnnouncements(ctx context.Context, now time.Time) ([]Announcement, error) {
	rows, err := q.db.Query(ctx, listActiveAnnouncements, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Announcement
	for rows.Next() {
		var a Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.IsActive, &a.StartAt, &a.EndAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
