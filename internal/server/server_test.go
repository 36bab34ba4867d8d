package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	activityservice "github.com/tassot/tassot/internal/activity/service"
	aidraftservice "github.com/tassot/tassot/internal/aidraft/service"
	boardrepository "github.com/tassot/tassot/internal/board/repository"
	boardservice "github.com/tassot/tassot/internal/board/service"
	commentrepository "github.com/tassot/tassot/internal/comment/repository"
	commentservice "github.com/tassot/tassot/internal/comment/service"
	"github.com/tassot/tassot/internal/config"
	"github.com/tassot/tassot/internal/identity"
	invitationrepository "github.com/tassot/tassot/internal/invitation/repository"
	invitationservice "github.com/tassot/tassot/internal/invitation/service"
	projectrepository "github.com/tassot/tassot/internal/project/repository"
	projectservice "github.com/tassot/tassot/internal/project/service"
	"github.com/tassot/tassot/internal/providers/ai"
	"github.com/tassot/tassot/internal/providers/email"
	activityrepository "github.com/tassot/tassot/internal/activity/repository"
	taskrepository "github.com/tassot/tassot/internal/task/repository"
	taskservice "github.com/tassot/tassot/internal/task/service"
	userrepository "github.com/tassot/tassot/internal/user/repository"
	userservice "github.com/tassot/tassot/internal/user/service"
	"github.com/tassot/tassot/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type staticVerifier struct {
	subjects map[string]*identity.Subject
}

func (v *staticVerifier) Verify(ctx context.Context, token string) (*identity.Subject, error) {
	subject, ok := v.subjects[token]
	if !ok {
		return nil, identity.ErrTokenInvalid
	}
	return subject, nil
}

type fixedDrafter struct{}

func (fixedDrafter) TaskName(ctx context.Context, req ai.DraftRequest) (string, error) {
	return "Drafted task", nil
}

func (fixedDrafter) TaskDescription(ctx context.Context, req ai.DraftRequest) (string, error) {
	return "Drafted description", nil
}

func (fixedDrafter) TaskDeadline(ctx context.Context, req ai.DraftRequest) (string, error) {
	return "", nil
}

type serverFixture struct {
	srv      *Server
	verifier *staticVerifier
	conn     *gorm.DB
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn := dbtest.Open(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()
	cfg := config.Config{BaseURL: "https://app.example.com", InvitationTTLHours: 72}

	activitySvc := activityservice.New(conn, log, node, activityrepository.Provide())
	t.Cleanup(activitySvc.Close)

	userSvc := userservice.NewService(conn, userrepository.NewRepository(conn), node, log)
	projectSvc := projectservice.NewService(conn, projectrepository.NewRepository(conn), node, activitySvc, log)
	boardSvc := boardservice.NewService(conn, boardrepository.NewRepository(conn), node, activitySvc, log)
	taskSvc := taskservice.NewService(conn, taskrepository.NewRepository(conn), node, activitySvc, log)
	commentSvc := commentservice.NewService(commentrepository.NewRepository(conn), taskSvc, node, activitySvc, log)
	invitationSvc := invitationservice.NewService(conn, invitationrepository.NewRepository(conn), node, &email.NoOpProvider{}, activitySvc, cfg, log)
	aidraftSvc := aidraftservice.NewService(fixedDrafter{}, boardSvc, taskSvc, log)

	verifier := &staticVerifier{subjects: map[string]*identity.Subject{}}

	srv := NewServer(ServerParams{
		Gin:           NewEngine(log),
		Cfg:           cfg,
		GenID:         node,
		Verifier:      verifier,
		UserSvc:       userSvc,
		ProjectSvc:    projectSvc,
		BoardSvc:      boardSvc,
		TaskSvc:       taskSvc,
		CommentSvc:    commentSvc,
		InvitationSvc: invitationSvc,
		ActivitySvc:   activitySvc,
		AidraftSvc:    aidraftSvc,
	})

	return &serverFixture{srv: srv, verifier: verifier, conn: conn}
}

// signup registers a subject with the fake verifier and bootstraps the user
// row the way the SPA does after sign-in. The returned token authenticates
// subsequent requests.
func (f *serverFixture) signup(t *testing.T, address, name string) string {
	t.Helper()
	token := "token-" + address
	f.verifier.subjects[token] = &identity.Subject{ID: "sub-" + address, Email: address, Name: name}

	resp := f.do(t, http.MethodPost, "/api/users", "", map[string]any{
		"subject_id":   "sub-" + address,
		"email":        address,
		"display_name": name,
	})
	require.Equal(t, http.StatusOK, resp.Code)
	return token
}

func (f *serverFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	f.srv.Engine().ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func TestAuthRequired(t *testing.T) {
	f := newServerFixture(t)

	resp := f.do(t, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = f.do(t, http.MethodGet, "/api/users/me", "bogus", nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	token := f.signup(t, "alice@example.com", "Alice")
	resp = f.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "alice@example.com", decodeBody(t, resp)["email"])
}

func TestCreateAndFetchProject(t *testing.T) {
	f := newServerFixture(t)
	token := f.signup(t, "alice@example.com", "Alice")

	resp := f.do(t, http.MethodPost, "/api/projects", token, map[string]any{
		"projectName": "Launch Plan",
		"projectKey":  "LNCH",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	url, _ := decodeBody(t, resp)["projectUrl"].(string)
	require.NotEmpty(t, url)

	resp = f.do(t, http.MethodGet, "/api/projects/"+url, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, "owner", body["role"])
	boards, _ := body["boards"].([]any)
	assert.Len(t, boards, 3)

	// bad key is a validation failure
	resp = f.do(t, http.MethodPost, "/api/projects", token, map[string]any{
		"projectName": "Second",
		"projectKey":  "toolongkey",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestNonMembersSeeNothing(t *testing.T) {
	f := newServerFixture(t)
	owner := f.signup(t, "alice@example.com", "Alice")
	outsider := f.signup(t, "mallory@example.com", "Mallory")

	resp := f.do(t, http.MethodPost, "/api/projects", owner, map[string]any{
		"projectName": "Launch Plan",
		"projectKey":  "LNCH",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	url, _ := decodeBody(t, resp)["projectUrl"].(string)

	// membership failures read as 404, never 403
	resp = f.do(t, http.MethodGet, "/api/projects/"+url, outsider, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "not found", decodeBody(t, resp)["error"])
}

func TestBoardWritesRequireEditor(t *testing.T) {
	f := newServerFixture(t)
	owner := f.signup(t, "alice@example.com", "Alice")
	guestToken := f.signup(t, "guest@example.com", "Guest")

	resp := f.do(t, http.MethodPost, "/api/projects", owner, map[string]any{
		"projectName": "Launch Plan",
		"projectKey":  "LNCH",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	url, _ := decodeBody(t, resp)["projectUrl"].(string)

	// outsiders get the membership 404, never a 403
	resp = f.do(t, http.MethodPost, "/api/invitations", guestToken, map[string]any{
		"projectUrl": url,
		"email":      "guest@example.com",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// bring the guest in through a real invitation
	resp = f.do(t, http.MethodPost, "/api/invitations", owner, map[string]any{
		"projectUrl": url,
		"email":      "guest@example.com",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "sent", decodeBody(t, resp)["message"])

	// a repeat for the same address conflicts
	resp = f.do(t, http.MethodPost, "/api/invitations", owner, map[string]any{
		"projectUrl": url,
		"email":      "guest@example.com",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	// the token travels by email only, never in the API response
	var invitationToken string
	require.NoError(t, f.conn.Raw(
		`SELECT token FROM invitations WHERE email = 'guest@example.com'`,
	).Scan(&invitationToken).Error)
	require.NotEmpty(t, invitationToken)

	resp = f.do(t, http.MethodPost, "/api/invitations/accept", guestToken, map[string]any{
		"token": invitationToken,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	// members with the default role can read but neither invite nor manage boards
	resp = f.do(t, http.MethodGet, "/api/projects/"+url, guestToken, nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = f.do(t, http.MethodPost, "/api/invitations", guestToken, map[string]any{
		"projectUrl": url,
		"email":      "friend@example.com",
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = f.do(t, http.MethodPost, "/api/projects/"+url+"/boards", guestToken, map[string]any{
		"name": "Blocked",
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = f.do(t, http.MethodPost, "/api/projects/"+url+"/boards", owner, map[string]any{
		"name": "Blocked",
	})
	assert.Equal(t, http.StatusCreated, resp.Code)
}

func TestVerifyInvitationIsPublic(t *testing.T) {
	f := newServerFixture(t)

	resp := f.do(t, http.MethodGet, "/api/invitations/no-such-token", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "not found", decodeBody(t, resp)["error"])
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	f := newServerFixture(t)
	token := f.signup(t, "alice@example.com", "Alice")

	resp := f.do(t, http.MethodPost, "/api/projects", token, map[string]any{
		"projectName": "Launch Plan",
		"projectKey":  "LNCH",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	created := decodeBody(t, resp)
	url, _ := created["projectUrl"].(string)

	resp = f.do(t, http.MethodGet, "/api/projects/"+url, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	boards, _ := decodeBody(t, resp)["boards"].([]any)
	require.NotEmpty(t, boards)
	boardID, _ := boards[0].(map[string]any)["id"].(string)

	resp = f.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%s/boards/%s/tasks", url, boardID), token, map[string]any{
		"name": "Write the launch checklist",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	task := decodeBody(t, resp)
	assert.Equal(t, "LNCH-1", task["task_key"])
	taskID, _ := task["id"].(string)

	// comments hang off the task, not the project
	resp = f.do(t, http.MethodPost, "/api/tasks/"+taskID+"/comments", token, map[string]any{
		"content": "First!",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = f.do(t, http.MethodGet, "/api/tasks/"+taskID+"/comments", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
}
