package audit

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/resto-labs/backend-resto/internal/store"
)

type stubStore struct {
	inserted []store.InsertAuditLogParams
	logs     []store.AuditLog
}

func (s *stubStore) InsertAuditLog(_ context.Context, arg store.InsertAuditLogParams) (uuid.UUID, error) {
	s.inserted = append(s.inserted, arg)
	return uuid.New(), nil
}

func (s *stubStore) ListAuditLogs(context.Context, store.ListAuditLogsParams) ([]store.AuditLog, error) {
	return s.logs, nil
}

func TestRecordDisabledIsNoop(t *testing.T) {
	st := &stubStore{}
	svc := Service{Store: st, Enabled: false}

	req := httptest.NewRequest("PATCH", "/api/v1/admin/orders/abc/status", nil)
	err := svc.Record(context.Background(), Actor{Kind: ActorKindStaff}, "", "", "", req, 200, nil)
	require.NoError(t, err)
	require.Empty(t, st.inserted)
}

func TestRecordDerivesActionAndResource(t *testing.T) {
	st := &stubStore{}
	svc := Service{Store: st, Enabled: true}

	actorID := uuid.New()
	req := httptest.NewRequest("PATCH", "/api/v1/admin/orders/42/status?force=1", nil)
	req.Header.Set("User-Agent", "board/1.0")

	err := svc.Record(context.Background(), Actor{Kind: ActorKindStaff, ID: &actorID}, "", "", "42", req, 200, nil)
	require.NoError(t, err)
	require.Len(t, st.inserted, 1)

	entry := st.inserted[0]
	require.Equal(t, "staff", entry.ActorKind)
	require.Equal(t, &actorID, entry.ActorID)
	require.Equal(t, "PATCH /api/v1/admin/orders/42/status", entry.Action)
	require.Equal(t, "admin.orders.42.status", entry.ResourceType)
	require.NotNil(t, entry.ResourceID)
	require.Equal(t, "42", *entry.ResourceID)
	require.NotNil(t, entry.UserAgent)
	require.JSONEq(t, `{"query":"force=1"}`, entry.Metadata)
}

func TestRecordUnknownActorNormalised(t *testing.T) {
	st := &stubStore{}
	svc := Service{Store: st, Enabled: true}

	req := httptest.NewRequest("DELETE", "/api/v1/admin/orders/42", nil)
	err := svc.Record(context.Background(), Actor{Kind: ActorKind("robot")}, "order.delete", "order", "42", req, 204, nil)
	require.NoError(t, err)
	require.Equal(t, "anonymous", st.inserted[0].ActorKind)
	require.Equal(t, "order.delete", st.inserted[0].Action)
	require.Equal(t, int32(204), st.inserted[0].Status)
}
