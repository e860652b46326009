package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"phoneinput_backend/internal/phonefield/repository"
	"phoneinput_backend/internal/phonefield/service"
	"phoneinput_backend/internal/phonefield/transport"
	"phoneinput_backend/platform/apperr"
	"phoneinput_backend/platform/httpkit"
	"phoneinput_backend/platform/logger"
	"phoneinput_backend/platform/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const testSecret = "handler-test-secret"

type testJWTConfig struct{}

func (testJWTConfig) GetJWTAccessSecret() string { return testSecret }

type savedRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]repository.SavedNumber
}

func (r *savedRepo) Create(_ context.Context, p repository.CreateParams) (repository.SavedNumber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := repository.SavedNumber{
		ID: uuid.New(), UserID: p.UserID, SessionID: p.SessionID,
		Display: p.Display, Raw: p.Raw, Plan: p.Plan, Invalid: p.Invalid, Label: p.Label,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	r.items[saved.ID] = saved
	return saved, nil
}

func (r *savedRepo) GetByID(_ context.Context, userID, id uuid.UUID) (repository.SavedNumber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved, ok := r.items[id]
	if !ok || saved.UserID != userID {
		return repository.SavedNumber{}, apperr.NotFound("saved phone number not found")
	}
	return saved, nil
}

func (r *savedRepo) GetForNormalization(_ context.Context, id uuid.UUID) (repository.SavedNumber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved, ok := r.items[id]
	if !ok {
		return repository.SavedNumber{}, apperr.NotFound("saved phone number not found")
	}
	return saved, nil
}

func (r *savedRepo) List(_ context.Context, p repository.ListParams) ([]repository.SavedNumber, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []repository.SavedNumber
	for _, saved := range r.items {
		if saved.UserID == p.UserID {
			items = append(items, saved)
		}
	}
	return items, len(items), nil
}

func (r *savedRepo) ListPendingNormalization(context.Context, time.Time, int) ([]uuid.UUID, error) {
	return nil, nil
}

func (r *savedRepo) SetE164(context.Context, uuid.UUID, string) error { return nil }

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logger.NewWithWriter("test", io.Discard)
	sessions := repository.NewRedisSessionStore(client, time.Minute)
	svc := service.New(&savedRepo{items: map[uuid.UUID]repository.SavedNumber{}}, sessions, nil, time.Minute, log)
	h := New(svc, validator.New())

	engine := gin.New()
	h.RegisterPublicRoutes(engine.Group("/phone"))
	h.RegisterRoutes(engine.Group("/phone", httpkit.AuthRequired(testJWTConfig{})))
	return engine
}

func bearer(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID.String(),
		"type": "access",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

func do(t *testing.T, engine *gin.Engine, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestFormatEndpoints(t *testing.T) {
	engine := newTestEngine(t)

	rec := do(t, engine, http.MethodPost, "/phone/format", "", map[string]string{"value": "01012345678"})
	if rec.Code != http.StatusOK {
		t.Fatalf("format: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var one transport.FormatResponse
	decode(t, rec, &one)
	if one.Display != "010-1234-5678" || one.Plan != "domestic" {
		t.Fatalf("unexpected format response %+v", one)
	}

	rec = do(t, engine, http.MethodPost, "/phone/format/batch", "", map[string][]string{"values": {"+8613812345678", "12"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("batch: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var batch transport.FormatBatchResponse
	decode(t, rec, &batch)
	if len(batch.Items) != 2 || batch.Items[0].Display != "+86 138 1234 5678" || !batch.Items[1].Invalid {
		t.Fatalf("unexpected batch response %+v", batch)
	}

	rec = do(t, engine, http.MethodGet, "/phone/plans", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("plans: expected 200, got %d", rec.Code)
	}
}

func TestFormatValidation(t *testing.T) {
	engine := newTestEngine(t)

	tooMany := make([]string, transport.MaxBatchSize+1)
	cases := []struct {
		name string
		path string
		body interface{}
	}{
		{"too large", "/phone/format", map[string]string{"value": string(bytes.Repeat([]byte("1"), validator.MaxPhoneInputBytes+1))}},
		{"empty batch", "/phone/format/batch", map[string][]string{"values": {}}},
		{"oversized batch", "/phone/format/batch", map[string][]string{"values": tooMany}},
		{"malformed", "/phone/format", "not an object"},
	}
	for _, tc := range cases {
		rec := do(t, engine, http.MethodPost, tc.path, "", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}

func TestPastedTextIsSanitized(t *testing.T) {
	engine := newTestEngine(t)
	auth := bearer(t, uuid.New())

	rec := do(t, engine, http.MethodPost, "/phone/format", "", map[string]string{"value": "010\t1234\n5678"})
	if rec.Code != http.StatusOK {
		t.Fatalf("format: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var formatted transport.FormatResponse
	decode(t, rec, &formatted)
	if formatted.Raw != "01012345678" || formatted.Display != "010-1234-5678" {
		t.Fatalf("unexpected format response %+v", formatted)
	}

	rec = do(t, engine, http.MethodPost, "/phone/fields", auth, map[string]string{"initialPhoneNumber": ""})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var field transport.FieldResponse
	decode(t, rec, &field)
	base := fmt.Sprintf("/phone/fields/%s", field.ID)

	rec = do(t, engine, http.MethodPost, base+"/changes", auth, map[string]interface{}{"seq": field.Seq, "value": "010\t1234\r\n5678\x00"})
	if rec.Code != http.StatusOK {
		t.Fatalf("change: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &field)
	if field.Raw != "01012345678" || field.Invalid {
		t.Fatalf("unexpected field %+v", field)
	}

	long := string(bytes.Repeat([]byte("1"), 80))
	rec = do(t, engine, http.MethodPut, base+"/value", auth, map[string]interface{}{"seq": field.Seq, "value": long})
	if rec.Code != http.StatusOK {
		t.Fatalf("sync with long value: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestFieldLifecycle(t *testing.T) {
	engine := newTestEngine(t)
	auth := bearer(t, uuid.New())

	rec := do(t, engine, http.MethodPost, "/phone/fields", auth, map[string]string{"initialPhoneNumber": "+8"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var field transport.FieldResponse
	decode(t, rec, &field)
	if field.Detection != "ambiguous_or_incomplete" {
		t.Fatalf("unexpected detection %q", field.Detection)
	}
	base := fmt.Sprintf("/phone/fields/%s", field.ID)

	rec = do(t, engine, http.MethodPost, base+"/keystrokes", auth, map[string]interface{}{"seq": field.Seq, "text": "613812345678"})
	if rec.Code != http.StatusOK {
		t.Fatalf("keystroke: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &field)
	if field.Display != "+8613812345678" || field.Plan != "+86" {
		t.Fatalf("unexpected field %+v", field)
	}

	rec = do(t, engine, http.MethodPost, base+"/keystrokes", auth, map[string]interface{}{"seq": 0, "text": "9"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("stale keystroke: expected 409, got %d", rec.Code)
	}

	rec = do(t, engine, http.MethodPost, base+"/keystrokes", auth, map[string]string{"text": "9"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing seq: expected 400, got %d", rec.Code)
	}

	rec = do(t, engine, http.MethodPost, base+"/commit", auth, map[string]interface{}{"seq": field.Seq, "label": "Office"})
	if rec.Code != http.StatusOK {
		t.Fatalf("commit: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var commit transport.CommitResponse
	decode(t, rec, &commit)
	if commit.Field.Display != "+86 138 1234 5678" || commit.SavedNumber == nil {
		t.Fatalf("unexpected commit response %+v", commit)
	}

	rec = do(t, engine, http.MethodPut, base+"/value", auth, map[string]interface{}{"seq": commit.Field.Seq, "value": commit.Field.Display})
	if rec.Code != http.StatusOK {
		t.Fatalf("sync: expected 200, got %d", rec.Code)
	}
	var synced transport.SyncResponse
	decode(t, rec, &synced)
	if synced.Changed {
		t.Fatalf("echoing the saved value must not reseed the field")
	}

	rec = do(t, engine, http.MethodGet, "/phone/saved/"+commit.SavedNumber.ID.String(), auth, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get saved: expected 200, got %d", rec.Code)
	}

	rec = do(t, engine, http.MethodGet, "/phone/saved?page=1&pageSize=10", auth, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list saved: expected 200, got %d", rec.Code)
	}
	var list transport.SavedNumberListResponse
	decode(t, rec, &list)
	if list.Total != 1 || len(list.Items) != 1 {
		t.Fatalf("unexpected list %+v", list)
	}

	rec = do(t, engine, http.MethodDelete, base, auth, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	rec = do(t, engine, http.MethodGet, base, auth, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", rec.Code)
	}
}

func TestFieldEdits(t *testing.T) {
	engine := newTestEngine(t)
	auth := bearer(t, uuid.New())

	rec := do(t, engine, http.MethodPost, "/phone/fields", auth, map[string]string{"initialPhoneNumber": "010-1234-5678"})
	var field transport.FieldResponse
	decode(t, rec, &field)
	base := "/phone/fields/" + field.ID.String()

	rec = do(t, engine, http.MethodPost, base+"/edits", auth, map[string]interface{}{"seq": field.Seq, "start": 3, "end": 3, "text": "9"})
	if rec.Code != http.StatusOK {
		t.Fatalf("edit: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &field)
	if field.Raw != "010912345678" {
		t.Fatalf("unexpected raw after edit %q", field.Raw)
	}

	rec = do(t, engine, http.MethodPost, base+"/edits", auth, map[string]interface{}{"seq": field.Seq, "start": 5, "end": 2, "text": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("inverted range: expected 400, got %d", rec.Code)
	}

	rec = do(t, engine, http.MethodPost, base+"/changes", auth, map[string]interface{}{"seq": field.Seq, "value": "010-9999-0000"})
	if rec.Code != http.StatusOK {
		t.Fatalf("change: expected 200, got %d", rec.Code)
	}
	decode(t, rec, &field)
	if field.Raw != "01099990000" || field.State != "editing" {
		t.Fatalf("unexpected field after change %+v", field)
	}
}

func TestFieldAuthAndIsolation(t *testing.T) {
	engine := newTestEngine(t)
	owner := bearer(t, uuid.New())
	other := bearer(t, uuid.New())

	rec := do(t, engine, http.MethodPost, "/phone/fields", "", map[string]string{})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: expected 401, got %d", rec.Code)
	}

	rec = do(t, engine, http.MethodPost, "/phone/fields", owner, map[string]string{})
	var field transport.FieldResponse
	decode(t, rec, &field)

	rec = do(t, engine, http.MethodGet, "/phone/fields/"+field.ID.String(), other, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign session: expected 404, got %d", rec.Code)
	}

	rec = do(t, engine, http.MethodGet, "/phone/fields/not-a-uuid", owner, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", rec.Code)
	}
}
