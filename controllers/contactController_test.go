package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactus-backend/database"
	"contactus-backend/middlewares"
	"contactus-backend/models"
)

// syncBuffer is a bytes.Buffer safe for the logger's concurrent writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type brokenStore struct {
	database.ContactStore
}

func (brokenStore) Append(context.Context, *models.ContactSubmission) (uint64, error) {
	return 0, &database.StorageError{Op: "append", Err: errors.New("pq: relation contact_submissions does not exist")}
}

type chanNotifier chan models.ContactSubmission

func (n chanNotifier) Notify(_ context.Context, sub models.ContactSubmission) error {
	n <- sub
	return nil
}

func (n chanNotifier) Close() error { return nil }

func newTestApp(store database.ContactStore, logOut io.Writer, notifier chanNotifier) *fiber.App {
	logger := slog.New(slog.NewJSONHandler(logOut, nil))
	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler(logger)})

	var h *ContactController
	if notifier != nil {
		h = NewContactController(store, notifier, logger)
	} else {
		h = NewContactController(store, nil, logger)
	}
	app.Post("/api/contact", h.Submit)
	app.Get("/api/admin/contacts", h.ListContacts)
	app.Get("/api/admin/contacts/:id", h.GetContact)
	return app
}

func postJSON(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return do(t, app, req)
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp.StatusCode, out
}

func TestSubmit_Accepted(t *testing.T) {
	store := database.NewMemoryStore()
	notified := make(chanNotifier, 1)
	app := newTestApp(store, io.Discard, notified)

	status, body := postJSON(t, app, `{"name":"Alice","email":"alice@example.com","subject":"Hello","inquiry":"Test message"}`)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "Contact form submitted successfully", body["message"])
	assert.EqualValues(t, 1, body["id"])

	got, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, 5*time.Second)

	select {
	case sub := <-notified:
		assert.Equal(t, uint64(1), sub.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("notifier not called")
	}
}

func TestSubmit_FormEncoded(t *testing.T) {
	store := database.NewMemoryStore()
	app := newTestApp(store, io.Discard, nil)

	form := "name=Bob&email=bob%40example.com&subject=Hi&inquiry=Call+me&phone=%2B4930123&contact_method=phone"
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(form))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)

	status, _ := do(t, app, req)
	require.Equal(t, fiber.StatusCreated, status)

	got, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "+4930123", got.Phone)
	assert.Equal(t, "phone", got.ContactMethod)
}

func TestSubmit_FormEncodedRejectsMalformedText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"nul byte", "Al%00ice", "Null characters are not allowed."},
		{"invalid utf8", "Al%FFice", "Not a valid string."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := database.NewMemoryStore()
			app := newTestApp(store, io.Discard, nil)

			form := "name=" + tc.raw + "&email=bob%40example.com&subject=Hi&inquiry=Call+me"
			req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(form))
			req.Header.Set("Content-Type", fiber.MIMEApplicationForm)

			status, body := do(t, app, req)
			require.Equal(t, fiber.StatusBadRequest, status)
			errs, ok := body["errors"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, []any{tc.want}, errs["name"])

			_, err := store.Get(context.Background(), 1)
			assert.ErrorIs(t, err, database.ErrNotFound)
		})
	}
}

func TestSubmit_Rejected(t *testing.T) {
	store := database.NewMemoryStore()
	app := newTestApp(store, io.Discard, nil)

	status, body := postJSON(t, app, `{"name":"Alice","email":"not-an-email","inquiry":"Test message"}`)
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid data", body["message"])

	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok, "errors should be an object: %v", body)
	assert.Equal(t, []any{"Enter a valid email address."}, errs["email"])
	assert.Equal(t, []any{"This field is required."}, errs["subject"])
	assert.NotContains(t, errs, "name")

	_, total, err := store.List(context.Background(), database.ContactQuery{})
	require.NoError(t, err)
	assert.Zero(t, total, "rejected input is never stored")
}

func TestSubmit_NonObjectBody(t *testing.T) {
	app := newTestApp(database.NewMemoryStore(), io.Discard, nil)

	status, body := postJSON(t, app, `["Alice"]`)
	require.Equal(t, fiber.StatusBadRequest, status)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "non_field_errors")
}

func TestSubmit_MalformedJSON(t *testing.T) {
	app := newTestApp(database.NewMemoryStore(), io.Discard, nil)

	status, body := postJSON(t, app, `{"name":`)
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "invalid request body", body["message"])
}

func TestSubmit_StorageFailureIsLoggedNotLeaked(t *testing.T) {
	var logOut syncBuffer
	app := newTestApp(brokenStore{}, &logOut, nil)

	status, body := postJSON(t, app, `{"name":"Alice","email":"alice@example.com","subject":"Hello","inquiry":"Test message"}`)
	require.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, map[string]any{"message": "An error occurred while processing your request"}, body)

	logged := logOut.String()
	assert.Contains(t, logged, "relation contact_submissions does not exist")
	assert.Contains(t, logged, `"kind":"storage"`)
}

func TestSubmit_ConcurrentRequestsGetDistinctIDs(t *testing.T) {
	app := newTestApp(database.NewMemoryStore(), io.Discard, nil)

	var wg sync.WaitGroup
	ids := make([]any, 2)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/contact",
				strings.NewReader(`{"name":"Alice","email":"alice@example.com","subject":"Hello","inquiry":"Test message"}`))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()
			var out map[string]any
			assert.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			ids[i] = out["id"]
		}(i)
	}
	wg.Wait()

	assert.NotNil(t, ids[0])
	assert.NotEqual(t, ids[0], ids[1])
}

func seed(t *testing.T, store database.ContactStore, subjects ...string) {
	t.Helper()
	for i, s := range subjects {
		_, err := store.Append(context.Background(), &models.ContactSubmission{
			Name: "User", Email: "user@example.com", Subject: s, Inquiry: strings.Repeat("x", i+1),
		})
		require.NoError(t, err)
	}
}

func TestListContacts(t *testing.T) {
	store := database.NewMemoryStore()
	seed(t, store, "Sales", "Support", "Sales")
	app := newTestApp(store, io.Discard, nil)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/admin/contacts?subject=Sales&limit=1", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 2, body["total"])
	assert.EqualValues(t, 1, body["limit"])
	contacts := body["contacts"].([]any)
	require.Len(t, contacts, 1)
	assert.EqualValues(t, 3, contacts[0].(map[string]any)["id"])
}

func TestListContacts_DateOnlyToIncludesThatDay(t *testing.T) {
	store := database.NewMemoryStore()
	seed(t, store, "Sales")
	app := newTestApp(store, io.Discard, nil)

	today := time.Now().UTC().Format(time.DateOnly)
	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/admin/contacts?from="+today+"&to="+today, nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, body["total"])
}

func TestListContacts_BadDate(t *testing.T) {
	app := newTestApp(database.NewMemoryStore(), io.Discard, nil)

	status, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/api/admin/contacts?from=last-week", nil))
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestGetContact(t *testing.T) {
	store := database.NewMemoryStore()
	seed(t, store, "Sales")
	app := newTestApp(store, io.Discard, nil)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/admin/contacts/1", nil))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Sales", body["subject"])
	assert.NotEmpty(t, body["created_at"])

	status, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/admin/contacts/2", nil))
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "contact not found", body["message"])

	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/admin/contacts/abc", nil))
	assert.Equal(t, fiber.StatusBadRequest, status)
}
