// Package testutil содержит фейковые HTTP-сервера GitHub API и вебхуков для тестов.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// PullFixture описывает пул-реквест вместе со всеми деталями, которые отдаёт фейк.
type PullFixture struct {
	Number             int
	Title              string
	CreatedAt          time.Time
	Author             string
	Labels             []string
	Draft              bool
	HeadSHA            string
	Additions          int
	Deletions          int
	RequestedReviewers []string
	CIState            string
	Reviews            []ReviewFixture
}

// ReviewFixture - одно событие ревью.
type ReviewFixture struct {
	Author string
	State  string
}

// FakeGitHub - фейковый GitHub REST API на echo.
type FakeGitHub struct {
	Server *httptest.Server

	mu       sync.Mutex
	pulls    map[string][]PullFixture
	failures map[string]int
	requests []string
	queries  map[string]url.Values
	auth     string
}

// NewFakeGitHub запускает фейковый сервер. Сервер закрывается через Close.
func NewFakeGitHub(logger *logrus.Logger) *FakeGitHub {
	f := &FakeGitHub{
		pulls:    make(map[string][]PullFixture),
		failures: make(map[string]int),
		queries:  make(map[string]url.Values),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(LoggingMiddleware(logger))
	e.Use(f.recordMiddleware)

	e.GET("/repos/:owner/:repo/pulls", f.listPulls)
	e.GET("/repos/:owner/:repo/pulls/:number", f.getPull)
	e.GET("/repos/:owner/:repo/pulls/:number/reviews", f.listReviews)
	e.GET("/repos/:owner/:repo/commits/:ref/status", f.combinedStatus)

	f.Server = httptest.NewServer(e)
	return f
}

// URL возвращает базовый адрес API.
func (f *FakeGitHub) URL() string {
	return f.Server.URL
}

// Close останавливает сервер.
func (f *FakeGitHub) Close() {
	f.Server.Close()
}

// AddPull добавляет пул-реквест в репозиторий owner/repo.
func (f *FakeGitHub) AddPull(repo string, pull PullFixture) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pulls[repo] = append(f.pulls[repo], pull)
}

// Fail заставляет запросы по точному пути отвечать заданным статусом.
func (f *FakeGitHub) Fail(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[path] = status
}

// Requests возвращает пути всех полученных запросов.
func (f *FakeGitHub) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.requests))
	copy(out, f.requests)
	return out
}

// Query возвращает параметры последнего запроса по пути path.
func (f *FakeGitHub) Query(path string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[path]
}

// Authorization возвращает заголовок Authorization последнего запроса.
func (f *FakeGitHub) Authorization() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auth
}

func (f *FakeGitHub) recordMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path

		f.mu.Lock()
		f.requests = append(f.requests, path)
		f.queries[path] = c.Request().URL.Query()
		f.auth = c.Request().Header.Get("Authorization")
		status, failing := f.failures[path]
		f.mu.Unlock()

		if failing {
			return c.JSON(status, map[string]string{"message": http.StatusText(status)})
		}
		return next(c)
	}
}

func (f *FakeGitHub) listPulls(c echo.Context) error {
	repo := c.Param("owner") + "/" + c.Param("repo")

	f.mu.Lock()
	pulls := append([]PullFixture(nil), f.pulls[repo]...)
	f.mu.Unlock()

	body := make([]map[string]interface{}, 0, len(pulls))
	for _, p := range pulls {
		body = append(body, pullJSON(repo, p, false))
	}
	return c.JSON(http.StatusOK, body)
}

func (f *FakeGitHub) getPull(c echo.Context) error {
	repo, pull, ok := f.lookup(c)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Not Found"})
	}
	return c.JSON(http.StatusOK, pullJSON(repo, pull, true))
}

func (f *FakeGitHub) listReviews(c echo.Context) error {
	_, pull, ok := f.lookup(c)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Not Found"})
	}

	body := make([]map[string]interface{}, 0, len(pull.Reviews))
	for i, r := range pull.Reviews {
		body = append(body, map[string]interface{}{
			"id":    i + 1,
			"user":  map[string]string{"login": r.Author},
			"state": r.State,
		})
	}
	return c.JSON(http.StatusOK, body)
}

func (f *FakeGitHub) combinedStatus(c echo.Context) error {
	repo := c.Param("owner") + "/" + c.Param("repo")
	ref := c.Param("ref")

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.pulls[repo] {
		if p.HeadSHA == ref {
			return c.JSON(http.StatusOK, map[string]interface{}{
				"state": p.CIState,
				"sha":   ref,
			})
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"message": "No commit found for SHA: " + ref})
}

func (f *FakeGitHub) lookup(c echo.Context) (string, PullFixture, bool) {
	repo := c.Param("owner") + "/" + c.Param("repo")
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		return repo, PullFixture{}, false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.pulls[repo] {
		if p.Number == number {
			return repo, p, true
		}
	}
	return repo, PullFixture{}, false
}

func pullJSON(repo string, p PullFixture, detail bool) map[string]interface{} {
	labels := make([]map[string]string, 0, len(p.Labels))
	for _, l := range p.Labels {
		labels = append(labels, map[string]string{"name": l})
	}

	reviewers := make([]map[string]string, 0, len(p.RequestedReviewers))
	for _, r := range p.RequestedReviewers {
		reviewers = append(reviewers, map[string]string{"login": r})
	}

	body := map[string]interface{}{
		"number":              p.Number,
		"title":               p.Title,
		"html_url":            "https://github.com/" + repo + "/pull/" + strconv.Itoa(p.Number),
		"created_at":          p.CreatedAt.UTC().Format(time.RFC3339),
		"draft":               p.Draft,
		"state":               "open",
		"labels":              labels,
		"head":                map[string]string{"sha": p.HeadSHA},
		"requested_reviewers": reviewers,
	}
	if p.Author != "" {
		body["user"] = map[string]string{"login": p.Author}
	}
	if detail {
		body["additions"] = p.Additions
		body["deletions"] = p.Deletions
	}
	return body
}
