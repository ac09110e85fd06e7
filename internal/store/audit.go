package store

import (
	"context"

	"github.com/google/uuid"
)

const auditLogColumns = `
id, actor_kind, actor_id, action, resource_type, resource_id, method, path, route,
status, ip, user_agent, request_id, metadata, created_at`

// InsertAuditLogParams carries one admin action record.
type InsertAuditLogParams struct {
	ActorKind    string
	ActorID      *uuid.UUID
	Action       string
	ResourceType string
	ResourceID   *string
	Method       string
	Path         string
	Route        *string
	Status       int32
	IP           *string
	UserAgent    *string
	RequestID    *string
	Metadata     string
}

const insertAuditLog = `
INSERT INTO audit_logs (actor_kind, actor_id, action, resource_type, resource_id, method, path, route,
                        status, ip, user_agent, request_id, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13::jsonb)
RETURNING id`

// InsertAuditLog persists an audit entry and returns its id.
func (q *Queries) InsertAuditLog(ctx context.Context, arg InsertAuditLogParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, insertAuditLog,
		arg.ActorKind, arg.ActorID, arg.Action, arg.ResourceType, arg.ResourceID, arg.Method, arg.Path, arg.Route,
		arg.Status, arg.IP, arg.UserAgent, arg.RequestID, arg.Metadata,
	).Scan(&id)
	return id, err
}

// ListAuditLogsParams pages the audit trail, newest first.
type ListAuditLogsParams struct {
	Limit  int32
	Offset int32
}

const listAuditLogs = `
SELECT ` + auditLogColumns + `
FROM audit_logs
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

// ListAuditLogs returns a page of the audit trail.
func (q *Queries) ListAuditLogs(ctx context.Context, arg ListAuditLogsParams) ([]AuditLog, error) {
	rows, err := q.db.Query(ctx, listAuditLogs, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AuditLog
	for rows.Next() {
		var a AuditLog
		if err := rows.Scan(
			&a.ID, &a.ActorKind, &a.ActorID, &a.Action, &a.ResourceType, &a.ResourceID, &a.Method, &a.Path, &a.Route,
			&a.Status, &a.IP, &a.UserAgent, &a.RequestID, &a.Metadata, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
