package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jonathan/cold-outreach/internal/config"
	"github.com/jonathan/cold-outreach/internal/drafting"
	"github.com/jonathan/cold-outreach/internal/llm"
	"github.com/jonathan/cold-outreach/internal/server/ratelimit"
	"github.com/jonathan/cold-outreach/internal/templates"
	"github.com/jonathan/cold-outreach/internal/types"
)

type stubClient struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (c *stubClient) Complete(_ context.Context, prompt string, _ llm.Options) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	return c.reply, c.err
}

func (c *stubClient) Close() error { return nil }

func (c *stubClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

type testEnv struct {
	handler http.Handler
	client  *stubClient
	library *templates.Library
}

func newTestEnv(t *testing.T, rl *ratelimit.Config) *testEnv {
	t.Helper()
	log := zaptest.NewLogger(t)
	client := &stubClient{}
	library := templates.NewLibrary(templates.NewMemoryStore(), log)
	if rl == nil {
		rl = &ratelimit.Config{Enabled: false}
	}

	s := New(config.ServerConfig{Port: 0, CORSOrigin: "https://app.example.com"}, Deps{
		Drafter:   drafting.New(client, log),
		Library:   library,
		Logger:    log,
		RateLimit: rl,
	})
	t.Cleanup(s.rateLimiter.Stop)

	return &testEnv{handler: s.Handler(), client: client, library: library}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func saveTemplate(t *testing.T, e *testEnv, title, subject, body string, score int) *types.Template {
	t.Helper()
	tmpl, err := e.library.SaveFromFields(context.Background(), types.TemplateFields{
		Title: title, Subject: subject, Body: body, Tags: []string{"networking"},
	}, "Networking", score)
	require.NoError(t, err)
	return tmpl
}

const jobDescription = "Acme Corp is hiring a Senior Backend Engineer. Contact Jane Doe or John Roe for details."

func TestHealth(t *testing.T) {
	e := newTestEnv(t, nil)
	rec := e.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody[map[string]string](t, rec)["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestEnv(t, nil)
	e.do(t, http.MethodGet, "/health", nil)

	rec := e.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "outreach_http_requests_total")
}

func TestCORS(t *testing.T) {
	e := newTestEnv(t, nil)

	rec := e.do(t, http.MethodOptions, "/emails", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Zero(t, e.client.calls())
}

func TestExtractJob(t *testing.T) {
	e := newTestEnv(t, nil)
	e.client.reply = "```json\n{\"companyName\":\"Acme Corp\",\"recruiterName\":\"Jane Doe\",\"roleTitle\":\"Senior Backend Engineer\",\"jobUrl\":\"\"}\n```"

	rec := e.do(t, http.MethodPost, "/jobs/extract", types.ExtractJobRequest{Description: jobDescription})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[ExtractJobResponse](t, rec)
	require.NotNil(t, resp.JobDetails)
	assert.Equal(t, "Acme Corp", resp.JobDetails.CompanyName)
	assert.Equal(t, "Jane Doe", resp.JobDetails.RecruiterName)
	assert.Equal(t, jobDescription, resp.JobDetails.JobDescription)
}

func TestExtractJob_ShortDescriptionReturnsNull(t *testing.T) {
	e := newTestEnv(t, nil)

	rec := e.do(t, http.MethodPost, "/jobs/extract", types.ExtractJobRequest{Description: "too short"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"jobDetails":null}`, rec.Body.String())
	assert.Zero(t, e.client.calls())
}

func TestExtractJob_FromURL(t *testing.T) {
	page := `<html><head><title>Backend Engineer at Acme</title></head><body><main>` +
		strings.Repeat("<p>Acme Corp is hiring a Senior Backend Engineer to build payment systems.</p>", 10) +
		`</main></body></html>`
	posting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer posting.Close()

	e := newTestEnv(t, nil)
	e.client.reply = `{"companyName":"Acme Corp","recruiterName":"","roleTitle":"Senior Backend Engineer","jobUrl":""}`

	rec := e.do(t, http.MethodPost, "/jobs/extract", types.ExtractJobRequest{URL: posting.URL})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[ExtractJobResponse](t, rec)
	require.NotNil(t, resp.JobDetails)
	assert.Equal(t, "Acme Corp", resp.JobDetails.CompanyName)
	assert.Equal(t, posting.URL, resp.JobDetails.JobURL)
	assert.Equal(t, "Backend Engineer at Acme", resp.Title)
	assert.Contains(t, e.client.prompts[0], "payment systems")
}

func TestExtractJob_Validation(t *testing.T) {
	e := newTestEnv(t, nil)

	tests := []struct {
		name string
		body any
	}{
		{"malformed body", "{not json"},
		{"neither description nor url", types.ExtractJobRequest{}},
		{"unsupported scheme", types.ExtractJobRequest{URL: "ftp://example.com/job"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/jobs/extract", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Zero(t, e.client.calls())
}

func TestGenerateEmail(t *testing.T) {
	e := newTestEnv(t, nil)
	e.client.reply = `{"subject":"Backend Engineer at Acme","body":"Hi Jane,<br/><br/>I would love to chat."}`

	rec := e.do(t, http.MethodPost, "/emails", types.GenerateRequest{
		JobDetails:    types.JobDetails{CompanyName: "Acme Corp", RoleTitle: "Backend Engineer"},
		PersonalInfo:  types.PersonalInfo{Name: "Sam", Skills: []string{"Go", "Postgres"}},
		EmailSettings: types.EmailSettings{Tone: types.ToneFriendly, Length: types.LengthShort},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decodeBody[drafting.Result](t, rec)
	assert.Equal(t, "Backend Engineer at Acme", result.Email.Subject)
	assert.Contains(t, result.Email.Body, "<br/>")
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, drafting.WordCountOutOfRange, result.Warnings[0].Code)
	assert.Contains(t, e.client.prompts[0], "Go, Postgres")
}

func TestGenerateEmail_InvalidLength(t *testing.T) {
	e := newTestEnv(t, nil)

	rec := e.do(t, http.MethodPost, "/emails", types.GenerateRequest{
		EmailSettings: types.EmailSettings{Length: "epic"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, e.client.calls())
}

func TestGenerateEmail_ProviderError(t *testing.T) {
	e := newTestEnv(t, nil)
	e.client.err = &llm.ProviderError{Provider: llm.ProviderGemini, Message: "quota exceeded"}

	rec := e.do(t, http.MethodPost, "/emails", types.GenerateRequest{})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, decodeBody[map[string]string](t, rec)["error"], "quota exceeded")
}

func TestReviseEmail(t *testing.T) {
	e := newTestEnv(t, nil)
	e.client.reply = `{"subject":"Shorter subject","body":"Revised body"}`

	req := types.ReviseRequest{
		CurrentEmail: types.GeneratedEmail{Subject: "Original subject", Body: "Original body"},
		Feedback:     "make it shorter",
	}
	rec := e.do(t, http.MethodPost, "/emails/revise", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decodeBody[drafting.Result](t, rec)
	assert.Equal(t, "Shorter subject", result.Email.Subject)
	assert.Contains(t, e.client.prompts[0], "Original body")
	assert.Contains(t, e.client.prompts[0], "make it shorter")
}

func TestReviseEmail_MalformedKeepsSubject(t *testing.T) {
	e := newTestEnv(t, nil)
	e.client.reply = "Sorry, here is a plain text version."

	rec := e.do(t, http.MethodPost, "/emails/revise", types.ReviseRequest{
		CurrentEmail: types.GeneratedEmail{Subject: "Original subject", Body: "Original body"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	result := decodeBody[drafting.Result](t, rec)
	assert.True(t, result.Fallback)
	assert.Equal(t, "Original subject", result.Email.Subject)
	assert.Equal(t, "Sorry, here is a plain text version.", result.Email.Body)
}

func TestReviseSubject(t *testing.T) {
	e := newTestEnv(t, nil)
	e.client.reply = "  Quick question about the Backend role  \n"

	rec := e.do(t, http.MethodPost, "/emails/subject", types.ReviseSubjectRequest{CurrentSubject: "Hello"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Quick question about the Backend role", decodeBody[SubjectResponse](t, rec).Subject)
}

func TestTemplatize(t *testing.T) {
	reply := `{"title":"Backend Intro","subject":"{{job_title}} at {{company_name}}","body":"Hi {{Recruiter Name}},<br/>I am {{your_name}}.","tags":["networking","backend"]}`

	t.Run("without save", func(t *testing.T) {
		e := newTestEnv(t, nil)
		e.client.reply = reply

		rec := e.do(t, http.MethodPost, "/emails/templatize", types.TemplatizeRequest{Subject: "Backend at Acme", Body: "Hi Jane"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := decodeBody[TemplatizeResponse](t, rec)
		assert.Equal(t, "Hi {{recruiter_name}},<br/>I am {{your_name}}.", resp.Fields.Body)
		assert.Nil(t, resp.Template)

		list, err := e.library.List(context.Background(), templates.Filter{})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("with save", func(t *testing.T) {
		e := newTestEnv(t, nil)
		e.client.reply = reply

		rec := e.do(t, http.MethodPost, "/emails/templatize", types.TemplatizeRequest{Subject: "Backend at Acme", Body: "Hi Jane", Save: true, Score: 90})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		resp := decodeBody[TemplatizeResponse](t, rec)
		require.NotNil(t, resp.Template)
		assert.NotEmpty(t, resp.Template.ID)
		assert.Equal(t, 90, resp.Template.AIResponseScore)

		stored, err := e.library.Get(context.Background(), resp.Template.ID)
		require.NoError(t, err)
		assert.Equal(t, "Backend Intro", stored.Title)
	})

	t.Run("blank model subject is an upstream failure", func(t *testing.T) {
		e := newTestEnv(t, nil)
		e.client.reply = `{"title":"Backend Intro","subject":"","body":"Hi {{recruiter_name}}","tags":["backend"]}`

		rec := e.do(t, http.MethodPost, "/emails/templatize", types.TemplatizeRequest{Subject: "Backend at Acme", Body: "Hi Jane", Save: true})
		assert.Equal(t, http.StatusBadGateway, rec.Code, rec.Body.String())

		list, err := e.library.List(context.Background(), templates.Filter{})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("unusable output saves nothing", func(t *testing.T) {
		e := newTestEnv(t, nil)
		e.client.reply = "I cannot do that."

		rec := e.do(t, http.MethodPost, "/emails/templatize", types.TemplatizeRequest{Subject: "s", Body: "b", Save: true})
		assert.Equal(t, http.StatusBadGateway, rec.Code)

		list, err := e.library.List(context.Background(), templates.Filter{})
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestAnalyzeResume(t *testing.T) {
	e := newTestEnv(t, nil)
	e.client.reply = `{"name":"Sam Lee","skills":["Go","Kubernetes"],"links":["https://github.com/samlee"]}`

	rec := e.do(t, http.MethodPost, "/resumes/analyze", types.AnalyzeResumeRequest{
		Text: "Sam Lee\nBackend engineer with six years of Go and Kubernetes experience.",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	info := decodeBody[AnalyzeResumeResponse](t, rec).PersonalInfo
	assert.Equal(t, "Sam Lee", info.Name)
	assert.Equal(t, []string{"Go", "Kubernetes"}, info.Skills)
}

func TestAnalyzeResume_TooShort(t *testing.T) {
	e := newTestEnv(t, nil)

	rec := e.do(t, http.MethodPost, "/resumes/analyze", types.AnalyzeResumeRequest{Text: "Sam"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, e.client.calls())
}

func TestSummarizeCompany(t *testing.T) {
	e := newTestEnv(t, nil)
	e.client.reply = `{"mission":"Payments for everyone","values":"Candor","recentNews":""}`

	rec := e.do(t, http.MethodPost, "/companies/summarize", types.SummarizeCompanyRequest{
		CompanyName: "Acme",
		Text:        "About Acme. We are building payment rails for everyone.",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[SummarizeCompanyResponse](t, rec)
	assert.Equal(t, "Payments for everyone", resp.CompanyInfo.Mission)
	assert.Contains(t, e.client.prompts[0], "Company: Acme")
}

func TestSummarizeCompany_RequiresInput(t *testing.T) {
	e := newTestEnv(t, nil)

	rec := e.do(t, http.MethodPost, "/companies/summarize", types.SummarizeCompanyRequest{CompanyName: "Acme"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, e.client.calls())
}

func TestTemplates_CRUD(t *testing.T) {
	e := newTestEnv(t, nil)

	rec := e.do(t, http.MethodPost, "/templates", types.SaveTemplateRequest{
		Title:           "Referral ask",
		Subject:         "Referral for {{job_title}}",
		Body:            "Hi {{recruiter_name}}, could you refer me at {{company_name}}?",
		Tags:            []string{"referral"},
		Category:        "Referral Request",
		AIResponseScore: 70,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[types.Template](t, rec)
	require.NotEmpty(t, created.ID)

	rec = e.do(t, http.MethodGet, "/templates/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Referral ask", decodeBody[types.Template](t, rec).Title)

	rec = e.do(t, http.MethodPut, "/templates/"+created.ID, types.SaveTemplateRequest{
		Title:   "Referral ask v2",
		Subject: "Referral for {{job_title}}",
		Body:    "Hello {{recruiter_name}}",
		Tags:    []string{"referral", "short"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[types.Template](t, rec)
	assert.Equal(t, "Referral ask v2", updated.Title)
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())

	rec = e.do(t, http.MethodPost, "/templates/"+created.ID+"/use", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	used := decodeBody[types.Template](t, rec)
	assert.Equal(t, 1, used.UsageCount)
	require.NotNil(t, used.LastUsed)

	rec = e.do(t, http.MethodPost, "/templates/"+created.ID+"/fill", types.FillTemplateRequest{
		Values: map[string]string{"recruiter_name": "Jane"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	filled := decodeBody[templates.Filled](t, rec)
	assert.Equal(t, "Hello Jane", filled.Body)
	assert.Equal(t, []string{"job_title"}, filled.Missing)

	rec = e.do(t, http.MethodDelete, "/templates/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = e.do(t, http.MethodGet, "/templates/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTemplates_NotFound(t *testing.T) {
	e := newTestEnv(t, nil)

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/templates/missing", nil},
		{http.MethodDelete, "/templates/missing", nil},
		{http.MethodPost, "/templates/missing/use", nil},
		{http.MethodPost, "/templates/missing/fill", types.FillTemplateRequest{Values: map[string]string{}}},
		{http.MethodPut, "/templates/missing", types.SaveTemplateRequest{Title: "t", Subject: "s", Body: "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := e.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestTemplates_List(t *testing.T) {
	e := newTestEnv(t, nil)
	saveTemplate(t, e, "Coffee chat", "Coffee?", "Would you have time for coffee?", 90)
	saveTemplate(t, e, "Cold intro", "Hello", "Introducing myself", 40)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Cold intro", "Coffee chat"}},
		{"?view=high-performing", []string{"Coffee chat"}},
		{"?search=COFFEE", []string{"Coffee chat"}},
		{"?tag=networking&category=networking", []string{"Cold intro", "Coffee chat"}},
		{"?tag=referral", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := e.do(t, http.MethodGet, "/templates"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			resp := decodeBody[TemplateListResponse](t, rec)
			titles := make([]string, 0, len(resp.Templates))
			for _, tmpl := range resp.Templates {
				titles = append(titles, tmpl.Title)
			}
			assert.ElementsMatch(t, tt.want, titles)
			assert.Equal(t, len(tt.want), resp.Count)
		})
	}
}

func TestTemplates_ListRejectsUnknownView(t *testing.T) {
	e := newTestEnv(t, nil)
	rec := e.do(t, http.MethodGet, "/templates?view=popular", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit_LLMRoutesShareBudget(t *testing.T) {
	e := newTestEnv(t, ratelimit.FromSettings(config.RateLimitConfig{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		LLMLimit:      1,
		LLMWindow:     time.Hour,
	}))
	e.client.reply = "New subject"

	rec := e.do(t, http.MethodPost, "/emails/subject", types.ReviseSubjectRequest{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))

	rec = e.do(t, http.MethodPost, "/emails", types.GenerateRequest{})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decodeBody[map[string]any](t, rec)["error"])
	assert.Equal(t, 1, e.client.calls())

	rec = e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ErrValidation{Field: "url", Message: "bad"}, http.StatusBadRequest},
		{"template validation", &templates.ValidationError{Field: "body", Message: "empty"}, http.StatusBadRequest},
		{"empty input", drafting.ErrEmptyInput, http.StatusBadRequest},
		{"not found", templates.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", errors.Join(errors.New("lookup"), templates.ErrNotFound), http.StatusNotFound},
		{"provider", &llm.ProviderError{Provider: llm.ProviderGroq, Message: "429"}, http.StatusBadGateway},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
