package handler

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"tech-selector/internal/middleware"
	"tech-selector/internal/models"
	"tech-selector/internal/repository"
	"tech-selector/internal/service"
	"tech-selector/internal/session"
	"tech-selector/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const cookieName = "sid"

type harness struct {
	t        *testing.T
	router   *gin.Engine
	store    repository.EvaluationStore
	sessions *session.Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)

	store := repository.NewMemoryStore(logger)
	sessions := session.NewManager(0, logger)
	h := NewHandler(service.NewEvaluator(store, logger), sessions, logger)
	h.now = func() time.Time { return time.Date(2026, 10, 19, 8, 30, 1, 0, time.Local) }

	router := gin.New()
	router.Use(middleware.Session(sessions, cookieName))
	h.RegisterRoutes(router)

	return &harness{t: t, router: router, store: store, sessions: sessions}
}

// client is one browser: it keeps its session cookie between requests
type client struct {
	h   *harness
	sid string
}

func (h *harness) client() *client {
	return &client{h: h, sid: h.sessions.NewID()}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	req.AddCookie(&http.Cookie{Name: cookieName, Value: c.sid})
	w := httptest.NewRecorder()
	c.h.router.ServeHTTP(w, req)
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) postJSON(path string, body any) *httptest.ResponseRecorder {
	data, err := json.Marshal(body)
	require.NoError(c.h.t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (h *harness) storeLen() int {
	n, err := h.store.Count(context.Background())
	require.NoError(h.t, err)
	return n
}

func cellsForm(name, comment string, cells ...string) url.Values {
	form := url.Values{}
	form.Set("evaluator_name", name)
	form.Set("comments", comment)
	for _, cell := range cells {
		form.Add("cell", cell)
	}
	return form
}

func TestIndex_NoData(t *testing.T) {
	h := newHarness(t)
	w := h.client().get("/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), models.NoDataMessage)
	assert.NotContains(t, w.Body.String(), "<svg")
}

func TestSubmit_Scenario(t *testing.T) {
	h := newHarness(t)
	alice := h.client()

	w := alice.postForm("/submit", cellsForm("Alice", "good fit", view.CellValue(models.TechA, models.Criterion1)))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, 1, h.storeLen())

	page := alice.get("/").Body.String()
	assert.Contains(t, page, "Thank you, Alice! Your evaluation has been submitted.")
	assert.Contains(t, page, `value="Alice"`, "name survives submission")
	assert.NotContains(t, page, " checked", "grid is reset")
	assert.Contains(t, page, "<svg")

	// the flash is shown once
	assert.NotContains(t, alice.get("/").Body.String(), "Thank you, Alice!")

	var res models.Results
	w = alice.get("/api/v1/results")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.False(t, res.Empty)
	for _, s := range res.Series {
		for i, v := range s.Values {
			if s.Name == "Tech A" && i == int(models.Criterion1) {
				assert.Equal(t, 100.0, v)
			} else {
				assert.Zero(t, v)
			}
		}
	}
}

func TestSubmit_BlankName(t *testing.T) {
	h := newHarness(t)
	c := h.client()

	w := c.postForm("/submit", cellsForm("   ", "kept", view.CellValue(models.TechC, models.Criterion2)))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Zero(t, h.storeLen())

	page := c.get("/").Body.String()
	assert.Contains(t, page, "Please enter your name before submitting.")
	assert.Contains(t, page, `value="tech-c:criteria-2" aria-label="Tech C / Criteria 2" checked`)
	assert.Contains(t, page, ">kept</textarea>")
}

func TestSubmit_SessionsAreIndependent(t *testing.T) {
	h := newHarness(t)
	alice, bob := h.client(), h.client()

	alice.postForm("/grid", cellsForm("Alice", "", view.CellValue(models.TechB, models.Criterion2)))
	bob.postForm("/submit", cellsForm("Bob", "", view.CellValue(models.TechB, models.Criterion2)))

	assert.Contains(t, alice.get("/").Body.String(), `checked`)
	alice.postForm("/submit", cellsForm("Alice", "", view.CellValue(models.TechB, models.Criterion2)))

	var res models.Results
	require.NoError(t, json.Unmarshal(alice.get("/api/v1/results").Body.Bytes(), &res))
	assert.Equal(t, 2, res.TotalEvaluators)
	assert.Equal(t, 100.0, res.Series[models.TechB].Values[models.Criterion2])
}

func TestToggleCell(t *testing.T) {
	h := newHarness(t)
	c := h.client()

	toggle := func(form url.Values) map[string]any {
		w := c.postForm("/grid/toggle", form)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body
	}

	body := toggle(url.Values{"cell": {"tech-d:criteria-4"}})
	assert.Equal(t, true, body["selected"])
	assert.Equal(t, "Tech D", body["technology"])
	assert.Equal(t, "Criteria 4", body["criterion"])

	body = toggle(url.Values{"technology": {"Tech D"}, "criterion": {"Criteria 4"}})
	assert.Equal(t, false, body["selected"])

	body = toggle(url.Values{"cell": {"tech-d:criteria-4"}, "value": {"true"}})
	assert.Equal(t, true, body["selected"])
	body = toggle(url.Values{"cell": {"tech-d:criteria-4"}, "value": {"true"}})
	assert.Equal(t, true, body["selected"])

	assert.True(t, h.sessions.View(c.sid).Selections.Get(models.TechD, models.Criterion4))

	w := c.postForm("/grid/toggle", url.Values{"cell": {"tech-z:criteria-4"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = c.postForm("/grid/toggle", url.Values{"cell": {"tech-a:criteria-1"}, "value": {"maybe"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetGrid(t *testing.T) {
	h := newHarness(t)
	c := h.client()

	c.postForm("/grid", cellsForm("Alice", "draft",
		view.CellValue(models.TechA, models.Criterion1),
		view.CellValue(models.TechE, models.Criterion5)))
	require.Equal(t, 2, h.sessions.View(c.sid).Selections.Count())

	w := c.postForm("/grid/reset", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	draft := h.sessions.View(c.sid)
	assert.Zero(t, draft.Selections.Count())
	assert.Equal(t, "draft", draft.Comment)
}

func TestSaveDraft_RejectsUnknownCell(t *testing.T) {
	h := newHarness(t)
	w := h.client().postForm("/grid", cellsForm("Alice", "", "tech-a:speed"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_CreateEvaluation(t *testing.T) {
	h := newHarness(t)
	c := h.client()

	w := c.postJSON("/api/v1/evaluations", gin.H{
		"evaluator_name": "  ",
		"selections":     gin.H{"Tech A": gin.H{"Criteria 1": true}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter your name")
	assert.Zero(t, h.storeLen())

	w = c.postJSON("/api/v1/evaluations", gin.H{
		"evaluator_name": "Zed",
		"selections":     gin.H{"Tech Q": gin.H{"Criteria 1": true}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, h.storeLen())

	w = c.postJSON("/api/v1/evaluations", gin.H{
		"evaluator_name": " Carol ",
		"comments":       "ok",
		"selections":     gin.H{"Tech B": gin.H{"Criteria 2": true}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Carol", created["evaluator_name"])
	assert.NotEmpty(t, created["id"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}$`, created["timestamp"])

	w = c.get("/api/v1/evaluations")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Evaluations []map[string]any `json:"evaluations"`
		Total       int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "Carol", list.Evaluations[0]["evaluator_name"])
}

func TestAPI_ResultsEmpty(t *testing.T) {
	h := newHarness(t)
	w := h.client().get("/api/v1/results")

	require.Equal(t, http.StatusOK, w.Code)
	var res models.Results
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Empty)
	assert.Equal(t, models.NoDataMessage, res.Message)
}

func TestAPI_Catalog(t *testing.T) {
	h := newHarness(t)
	w := h.client().get("/api/v1/catalog")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Technologies []map[string]string `json:"technologies"`
		Criteria     []map[string]string `json:"criteria"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Technologies, models.NumTechnologies)
	require.Len(t, body.Criteria, models.NumCriteria)
	assert.Equal(t, "Tech A", body.Technologies[0]["name"])
	assert.Equal(t, "criteria-5", body.Criteria[4]["slug"])
}

func TestExport_NoData(t *testing.T) {
	h := newHarness(t)
	c := h.client()

	assert.Equal(t, http.StatusNotFound, c.get("/export/detailed.csv").Code)
	assert.Equal(t, http.StatusNotFound, c.get("/export/summary.csv").Code)
}

func TestExport_CSV(t *testing.T) {
	h := newHarness(t)
	c := h.client()

	c.postForm("/submit", cellsForm("Alice", "good fit", view.CellValue(models.TechA, models.Criterion1)))
	c.postForm("/submit", cellsForm("Bob", ""))
	require.Equal(t, 2, h.storeLen())

	w := c.get("/export/detailed.csv")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=technology_evaluation_2026-10-19_08-30-01.csv", w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")

	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1+2*models.NumTechnologies)
	assert.Equal(t, "✓", rows[1][4])

	w = c.get("/export/summary.csv")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=technology_evaluation_summary_2026-10-19_08-30-01.csv", w.Header().Get("Content-Disposition"))

	rows, err = csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Evaluator", "Timestamp", "Comments", "Selected Technologies"}, rows[0])
	assert.Equal(t, "Tech A", rows[1][3])
	assert.Equal(t, "(no comments)", rows[2][2])
	assert.Equal(t, "(none selected)", rows[2][3])
}

func TestHealthCheck(t *testing.T) {
	h := newHarness(t)
	c := h.client()

	w := c.get("/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"tech-selector","evaluations":0,"active_sessions":0}`, w.Body.String())

	c.postForm("/submit", cellsForm("Alice", "", view.CellValue(models.TechA, models.Criterion1)))
	h.client().postForm("/grid", cellsForm("Bob", ""))

	w = c.get("/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"tech-selector","evaluations":1,"active_sessions":2}`, w.Body.String())
}
