package testserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cadencehq/cadence/internal/domain/activity"
	"github.com/cadencehq/cadence/internal/domain/ledger"
	"github.com/cadencehq/cadence/internal/domain/task"
	"github.com/cadencehq/cadence/internal/mcp"
	"github.com/cadencehq/cadence/internal/sqlite"
	"github.com/cadencehq/cadence/internal/transport"
)

const testHorizonYears = 3

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Token    string
	TenantID string
}

func New(t *testing.T, token, tenantID string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	taskRepo := sqlite.NewTaskRepository(db)
	ledgerRepo := sqlite.NewLedgerRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	activitySvc := activity.NewService(activityRepo, nil)
	taskSvc := task.NewService(taskRepo, activitySvc, nil, testHorizonYears)
	ledgerSvc := ledger.NewService(ledgerRepo, taskRepo, activitySvc, nil, testHorizonYears)

	handler := mcp.NewHandler(taskSvc, ledgerSvc, activitySvc)

	resolver := &apiKeyResolver{db: db}
	server := httptest.NewServer(transport.NewServer(handler, transport.AuthMiddleware(resolver)))

	ts := &TestServer{
		Server:   server,
		DB:       db,
		Token:    token,
		TenantID: tenantID,
	}

	require.NoError(t, ts.AddAPIKey(token, tenantID, "admin1", task.RoleAdmin))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

func (ts *TestServer) AddAPIKey(token, tenantID, userID string, role task.Role) error {
	hash := hashToken(token)
	_, err := ts.DB.Exec(
		`INSERT INTO api_keys (key_hash, tenant_id, user_id, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		hash, tenantID, userID, string(role), time.Now(),
	)
	return err
}

type apiKeyResolver struct {
	db *sqlite.DB
}

func (r *apiKeyResolver) ResolveViewer(ctx context.Context, token string) (transport.Viewer, error) {
	hash := hashToken(token)
	var v transport.Viewer
	err := r.db.QueryRowContext(ctx,
		`SELECT tenant_id, user_id, role FROM api_keys WHERE key_hash = ?`, hash,
	).Scan(&v.TenantID, &v.UserID, &v.Role)
	if err != nil || v.TenantID == "" {
		return transport.Viewer{}, transport.ErrUnauthorized
	}
	return v, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
