package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pavelanni/devreport/internal/assess"
	appI18n "github.com/pavelanni/devreport/internal/i18n"
	"github.com/pavelanni/devreport/internal/instrument"
	"github.com/pavelanni/devreport/internal/metrics"
	"github.com/pavelanni/devreport/internal/model"
	"github.com/pavelanni/devreport/internal/store"
)

func smallInstrument() model.Instrument {
	na := model.Level(0)
	return model.Instrument{
		ID:   "early-years",
		Name: "Early years",
		Scale: model.RatingScale{
			Defs: []model.LevelDef{
				{Value: 0, Label: "Not applicable"},
				{Value: 1, Label: "Not apparent"},
				{Value: 2, Label: "Developing"},
				{Value: 3, Label: "Well developed"},
			},
			NotApplicable: &na,
		},
		Bands: model.Bands{High: 2.6, Mid: 1.8, Class: 2.5},
		Dimensions: []model.Dimension{
			{Code: "S", Name: "Social skills", NameAlt: "Habilidades sociais", Theme: model.ThemeSocial, Items: []model.Item{
				{Code: "S1", Text: "Shares toys"}, {Code: "S2", Text: "Waits for turn"},
			}},
			{Code: "M", Name: "Motor skills", Theme: model.ThemeMotor, Items: []model.Item{
				{Code: "M1", Text: "Cuts paper"},
			}},
		},
	}
}

type testClient struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
}

func newTestServer(t *testing.T) (*testClient, *store.Store) {
	t.Helper()
	require.NoError(t, appI18n.Init("en"))

	st, err := store.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	reg := instrument.NewRegistry()
	require.NoError(t, reg.Add(smallInstrument()))
	m := metrics.New()
	svc := assess.New(st, reg, nil, m, assess.Config{School: "Test School"})

	h := New(svc, st, m, model.AppConfig{})
	r := chi.NewRouter()
	r.Use(h.BasePathMiddleware)
	h.Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return (&testClient{t: t, srv: srv}).session(), st
}

// session returns a client with an empty cookie jar on the same server.
func (c *testClient) session() *testClient {
	c.t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(c.t, err)
	return &testClient{
		t:   c.t,
		srv: c.srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func addUser(t *testing.T, st *store.Store, username string, role model.UserRole) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = st.CreateUser(context.Background(), model.User{
		Username:     username,
		DisplayName:  strings.ToUpper(username[:1]) + username[1:],
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	})
	require.NoError(t, err)
}

func (c *testClient) get(path string) (*http.Response, string) {
	c.t.Helper()
	resp, err := c.client.Get(c.srv.URL + path)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(body)
}

// post sends a form with the current CSRF cookie value.
func (c *testClient) post(path string, form url.Values) (*http.Response, string) {
	c.t.Helper()
	u, err := url.Parse(c.srv.URL)
	require.NoError(c.t, err)
	for _, ck := range c.client.Jar.Cookies(u) {
		if ck.Name == csrfCookieName {
			form.Set("csrf_token", ck.Value)
		}
	}
	resp, err := c.client.PostForm(c.srv.URL+path, form)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(body)
}

func (c *testClient) login(username string) {
	c.t.Helper()
	c.get("/login")
	resp, _ := c.post("/login", url.Values{"username": {username}, "password": {"secret"}})
	require.Equal(c.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(c.t, "/", resp.Header.Get("Location"))
}

func ratingForm(name string, level string) url.Values {
	return url.Values{
		"stage":     {"early-years"},
		"name":      {name},
		"age":       {"5 years"},
		"sex":       {"female"},
		"class":     {"K1"},
		"period":    {"2026-1"},
		"evaluator": {"Ana"},
		"level_S1":  {level},
		"level_S2":  {level},
		"level_M1":  {level},
	}
}

func TestHealthAndMetrics(t *testing.T) {
	c, _ := newTestServer(t)

	resp, body := c.get("/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)

	resp, body = c.get("/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "http_requests_total")
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	c, _ := newTestServer(t)

	resp, _ := c.get("/records")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLoginRejectsBadPassword(t *testing.T) {
	c, st := newTestServer(t)
	addUser(t, st, "ana", model.UserRoleEvaluator)

	c.get("/login")
	resp, body := c.post("/login", url.Values{"username": {"ana"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid username or password")
}

func TestPostWithoutCSRFIsForbidden(t *testing.T) {
	c, _ := newTestServer(t)

	resp, err := c.client.PostForm(c.srv.URL+"/login", url.Values{"username": {"ana"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAssessmentFlow(t *testing.T) {
	cs, st := newTestServer(t)
	addUser(t, st, "ana", model.UserRoleEvaluator)
	cs.login("ana")

	resp, body := cs.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `name="level_S1"`)
	assert.Contains(t, body, `value="Ana"`)

	incomplete := ratingForm("João da Silva", "2")
	incomplete.Del("level_M1")
	resp, body = cs.post("/assess/preview", incomplete)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Every item needs a rating")

	resp, body = cs.post("/assess/preview", ratingForm("João da Silva", "2"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Individual report of João da Silva")
	assert.Contains(t, body, "2.00")

	save := ratingForm("João da Silva", "2")
	save.Set("report", "Edited report")
	save.Set("suggestions", "Edited suggestions")
	resp, _ = cs.post("/assess/save", save)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/records/1?flash=RecordSaved", resp.Header.Get("Location"))

	resp, body = cs.get("/records/1?flash=RecordSaved")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Edited report")
	assert.Contains(t, body, "Assessment saved.")

	resp, body = cs.get("/records/1/items.csv")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Joao_da_Silva_")
	assert.Contains(t, body, "Shares toys")

	resp, _ = cs.get("/records/1/radar.png")
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	resp, body = cs.get("/records?class=K1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "1 record found.")

	resp, _ = cs.post("/records/1/delete", url.Values{})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp, _ = cs.get("/records/1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPortuguesePreview(t *testing.T) {
	cs, st := newTestServer(t)
	addUser(t, st, "ana", model.UserRoleEvaluator)
	cs.login("ana")

	resp, body := cs.get("/?lang=pt-BR")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<html lang="pt-BR"`)
	assert.Contains(t, body, "Habilidades sociais")

	resp, body = cs.post("/assess/preview", ratingForm("João da Silva", "3"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Relatório individual de João da Silva")
	assert.Contains(t, body, "Relatório descritivo de desenvolvimento")
	assert.Contains(t, body, "Habilidades sociais:")
	assert.NotContains(t, body, "Descriptive development report")
}

func TestRoleRestrictions(t *testing.T) {
	c, st := newTestServer(t)
	addUser(t, st, "ana", model.UserRoleEvaluator)
	c.login("ana")

	resp, _ := c.get("/consolidated")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = c.get("/admin/users")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestConsolidatedForCoordinator(t *testing.T) {
	c, st := newTestServer(t)
	addUser(t, st, "ana", model.UserRoleEvaluator)
	addUser(t, st, "bia", model.UserRoleCoordinator)

	c.login("ana")
	for _, name := range []string{"Aline", "Bruno"} {
		resp, _ := c.post("/assess/save", ratingForm(name, "3"))
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	}

	coord := c.session()
	coord.login("bia")

	resp, body := coord.get("/consolidated?class=K1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "2 records found.")

	resp, body = coord.get("/consolidated/class.csv?class=K1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "K1,2,3.00")

	resp, _ = coord.get("/consolidated/unknown.csv")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = coord.get("/class-report?class=K1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Class report: K1")

	resp, _ = coord.get("/class-report?class=none")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
