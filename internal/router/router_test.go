package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"corkboard/internal/session"
	"corkboard/internal/store"

	"github.com/gin-gonic/gin"
)

const templatesDir = "../../web/templates"

func newTestServer(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := store.Open(t.TempDir())
	return New(st, session.NewTable(), templatesDir), st
}

func get(r http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(r http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "sessionId" {
			return c
		}
	}
	t.Fatalf("no sessionId cookie in response")
	return nil
}

func register(t *testing.T, r http.Handler, username, password, nickname string) {
	t.Helper()
	w := postForm(r, "/register_process", url.Values{
		"username": {username},
		"password": {password},
		"nickname": {nickname},
	})
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("register %s: code=%d location=%q", username, w.Code, w.Header().Get("Location"))
	}
}

func login(t *testing.T, r http.Handler, username, password string) *http.Cookie {
	t.Helper()
	w := postForm(r, "/login_process", url.Values{
		"username": {username},
		"password": {password},
	})
	if w.Code != http.StatusFound {
		t.Fatalf("login %s: code=%d", username, w.Code)
	}
	return sessionCookie(t, w)
}

// The full register -> login -> create -> read -> update -> delete walk.
func TestBoardFlow(t *testing.T) {
	r, st := newTestServer(t)

	register(t, r, "alice1", "pw", "Alice")
	cookie := login(t, r, "alice1", "pw")

	// Create a post.
	w := postForm(r, "/create_process", url.Values{
		"title":       {"Hello"},
		"description": {"World"},
	}, cookie)
	if w.Code != http.StatusFound {
		t.Fatalf("create: code=%d", w.Code)
	}
	loc := w.Header().Get("Location")
	for _, part := range []string{"page=1", "limit=10", "sort=latest"} {
		if !strings.Contains(loc, part) {
			t.Errorf("create redirect %q lost list state (%s)", loc, part)
		}
	}

	post, ok := st.FindPost(1)
	if !ok || post.Author != 1 {
		t.Fatalf("post not stored with author=1: %+v", post)
	}

	// Listing reflects it immediately.
	w = get(r, "/")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Hello") {
		t.Errorf("front page missing the new post")
	}

	// Detail renders the markdown body.
	w = get(r, "/?id=1", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("detail: code=%d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Hello") || !strings.Contains(body, "World") {
		t.Errorf("detail page missing title or body")
	}
	if !strings.Contains(body, "/update?id=1") {
		t.Errorf("author should see the edit control")
	}

	// Anonymous viewers get no controls.
	w = get(r, "/?id=1")
	if strings.Contains(w.Body.String(), "/update?id=1") {
		t.Errorf("anonymous viewer should not see the edit control")
	}

	// Author display name.
	if !strings.Contains(body, "Alice") {
		t.Errorf("detail page should show the author nickname")
	}

	// Update.
	w = postForm(r, "/update_process", url.Values{
		"id":          {"1"},
		"title":       {"Hello again"},
		"description": {"World, twice"},
	}, cookie)
	if w.Code != http.StatusFound || !strings.Contains(w.Header().Get("Location"), "id=1") {
		t.Fatalf("update: code=%d location=%q", w.Code, w.Header().Get("Location"))
	}
	w = get(r, "/?id=1")
	if !strings.Contains(w.Body.String(), "Hello again") {
		t.Errorf("detail still serves the stale title after update")
	}

	// Delete.
	w = postForm(r, "/delete_process", url.Values{"id": {"1"}}, cookie)
	if w.Code != http.StatusFound {
		t.Fatalf("delete: code=%d", w.Code)
	}
	if w = get(r, "/?id=1"); w.Code != http.StatusNotFound {
		t.Errorf("deleted post should 404, got %d", w.Code)
	}
	if _, ok := st.FindPost(1); ok {
		t.Errorf("post survived deletion")
	}
}

func TestOnlyTheAuthorMayEditOrDelete(t *testing.T) {
	r, st := newTestServer(t)

	register(t, r, "alice1", "pw", "Alice")
	register(t, r, "bob22", "pw", "Bob")
	alice := login(t, r, "alice1", "pw")
	bob := login(t, r, "bob22", "pw")

	postForm(r, "/create_process", url.Values{
		"title":       {"Alice's post"},
		"description": {"mine"},
	}, alice)

	if w := get(r, "/update?id=1", bob); w.Code != http.StatusForbidden {
		t.Errorf("edit form for someone else's post: code=%d, want 403", w.Code)
	}
	if w := postForm(r, "/update_process", url.Values{
		"id": {"1"}, "title": {"hijack"}, "description": {"x"},
	}, bob); w.Code != http.StatusForbidden {
		t.Errorf("update of someone else's post: code=%d, want 403", w.Code)
	}
	if w := postForm(r, "/delete_process", url.Values{"id": {"1"}}, bob); w.Code != http.StatusForbidden {
		t.Errorf("delete of someone else's post: code=%d, want 403", w.Code)
	}

	if post, ok := st.FindPost(1); !ok || post.Title != "Alice's post" {
		t.Errorf("post was modified despite 403s: %+v", post)
	}
}

func TestAuthRequiredRedirectsToLogin(t *testing.T) {
	r, _ := newTestServer(t)

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/create"},
		{http.MethodPost, "/create_process"},
		{http.MethodGet, "/update?id=1"},
		{http.MethodPost, "/update_process"},
		{http.MethodPost, "/delete_process"},
	}
	for _, p := range paths {
		var w *httptest.ResponseRecorder
		if p.method == http.MethodGet {
			w = get(r, p.path)
		} else {
			w = postForm(r, p.path, url.Values{})
		}
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
			t.Errorf("%s %s anonymous: code=%d location=%q, want 302 /login",
				p.method, p.path, w.Code, w.Header().Get("Location"))
		}
	}
}

func TestRegisterValidation(t *testing.T) {
	r, st := newTestServer(t)

	cases := []url.Values{
		{"username": {""}, "password": {"pw"}, "nickname": {"x"}},
		{"username": {"abc"}, "password": {"pw"}, "nickname": {"x"}},      // too short
		{"username": {"bad name"}, "password": {"pw"}, "nickname": {"x"}}, // not alphanumeric
		{"username": {"good1"}, "password": {""}, "nickname": {"x"}},
		{"username": {"good1"}, "password": {"pw"}, "nickname": {""}},
	}
	for i, form := range cases {
		if w := postForm(r, "/register_process", form); w.Code != http.StatusBadRequest {
			t.Errorf("case %d: code=%d, want 400", i, w.Code)
		}
	}
	if st.UserCount() != 0 {
		t.Errorf("invalid registrations created users")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	r, st := newTestServer(t)

	register(t, r, "alice1", "pw", "Alice")
	before := st.UserCount()

	w := postForm(r, "/register_process", url.Values{
		"username": {"alice1"},
		"password": {"other"},
		"nickname": {"Other"},
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate username: code=%d, want 409", w.Code)
	}
	if st.UserCount() != before {
		t.Errorf("duplicate registration changed the user collection")
	}
}

func TestLoginFailures(t *testing.T) {
	r, _ := newTestServer(t)
	register(t, r, "alice1", "pw", "Alice")

	for _, form := range []url.Values{
		{"username": {"alice1"}, "password": {"wrong"}},
		{"username": {"nobody"}, "password": {"pw"}},
	} {
		if w := postForm(r, "/login_process", form); w.Code != http.StatusUnauthorized {
			t.Errorf("bad credentials: code=%d, want 401", w.Code)
		}
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	r, _ := newTestServer(t)
	register(t, r, "alice1", "pw", "Alice")
	cookie := login(t, r, "alice1", "pw")

	// Session works.
	if w := get(r, "/create", cookie); w.Code != http.StatusOK {
		t.Fatalf("create form with session: code=%d", w.Code)
	}

	w := postForm(r, "/logout_process", url.Values{}, cookie)
	if w.Code != http.StatusFound {
		t.Fatalf("logout: code=%d", w.Code)
	}

	// The old token no longer resolves.
	if w := get(r, "/create", cookie); w.Code != http.StatusFound {
		t.Errorf("stale session still accepted after logout: code=%d", w.Code)
	}

	// Logout without a session is a no-op redirect.
	if w := postForm(r, "/logout_process", url.Values{}); w.Code != http.StatusFound {
		t.Errorf("logout without session: code=%d", w.Code)
	}
}

func TestListStateRoundTripsThroughLogin(t *testing.T) {
	r, _ := newTestServer(t)
	register(t, r, "alice1", "pw", "Alice")

	w := postForm(r, "/login_process", url.Values{
		"username": {"alice1"},
		"password": {"pw"},
		"page":     {"2"},
		"limit":    {"5"},
		"sort":     {"oldest"},
	})
	loc := w.Header().Get("Location")
	for _, part := range []string{"page=2", "limit=5", "sort=oldest"} {
		if !strings.Contains(loc, part) {
			t.Errorf("login redirect %q lost list state (%s)", loc, part)
		}
	}
}

func TestListingPagination(t *testing.T) {
	r, st := newTestServer(t)
	for i := 1; i <= 12; i++ {
		st.CreatePost(fmt.Sprintf("post-%02d", i), "body", 0)
	}

	w := get(r, "/?page=3&limit=5&sort=oldest")
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "post-11") || !strings.Contains(body, "post-12") {
		t.Errorf("page 3 of 5 should hold posts 11 and 12")
	}
	if strings.Contains(body, "post-10") {
		t.Errorf("page 3 leaked posts from page 2")
	}
	// System posts show the system author.
	if !strings.Contains(body, "system") {
		t.Errorf("author 0 should display as system")
	}

	// A page past the end renders, just empty.
	if w := get(r, "/?page=99&limit=5"); w.Code != http.StatusOK {
		t.Errorf("page past the end: code=%d, want 200", w.Code)
	}
}

func TestNotFound(t *testing.T) {
	r, _ := newTestServer(t)

	if w := get(r, "/no/such/page"); w.Code != http.StatusNotFound {
		t.Errorf("unknown path: code=%d, want 404", w.Code)
	}
	if w := get(r, "/?id=999"); w.Code != http.StatusNotFound {
		t.Errorf("unknown post id: code=%d, want 404", w.Code)
	}
	if w := get(r, "/?id=abc"); w.Code != http.StatusNotFound {
		t.Errorf("non-numeric post id: code=%d, want 404", w.Code)
	}
}

func TestCreateValidation(t *testing.T) {
	r, st := newTestServer(t)
	register(t, r, "alice1", "pw", "Alice")
	cookie := login(t, r, "alice1", "pw")

	for _, form := range []url.Values{
		{"title": {""}, "description": {"x"}},
		{"title": {"x"}, "description": {""}},
	} {
		if w := postForm(r, "/create_process", form, cookie); w.Code != http.StatusBadRequest {
			t.Errorf("blank field: code=%d, want 400", w.Code)
		}
	}
	if len(st.Posts()) != 0 {
		t.Errorf("invalid submissions created posts")
	}
}
