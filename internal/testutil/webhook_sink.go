package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Delivery - один принятый вебхук.
type Delivery struct {
	Name        string
	ContentType string
	Body        []byte
}

// WebhookSink принимает POST /hooks/:name и запоминает тела запросов.
type WebhookSink struct {
	Server *httptest.Server

	mu         sync.Mutex
	deliveries []Delivery
	statuses   map[string]int
}

// NewWebhookSink запускает приёмник вебхуков.
func NewWebhookSink(logger *logrus.Logger) *WebhookSink {
	s := &WebhookSink{statuses: make(map[string]int)}

	e := echo.New()
	e.HideBanner = true
	e.Use(LoggingMiddleware(logger))
	e.POST("/hooks/:name", s.receive)

	s.Server = httptest.NewServer(e)
	return s
}

// URL возвращает адрес вебхука с указанным именем.
func (s *WebhookSink) URL(name string) string {
	return s.Server.URL + "/hooks/" + name
}

// Close останавливает сервер.
func (s *WebhookSink) Close() {
	s.Server.Close()
}

// RespondWith задаёт код ответа для вебхука name.
func (s *WebhookSink) RespondWith(name string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[name] = status
}

// Deliveries возвращает принятые вебхуки в порядке поступления.
func (s *WebhookSink) Deliveries() []Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Delivery, len(s.deliveries))
	copy(out, s.deliveries)
	return out
}

func (s *WebhookSink) receive(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	name := c.Param("name")

	s.mu.Lock()
	s.deliveries = append(s.deliveries, Delivery{
		Name:        name,
		ContentType: c.Request().Header.Get(echo.HeaderContentType),
		Body:        body,
	})
	status, ok := s.statuses[name]
	s.mu.Unlock()

	if !ok {
		status = http.StatusOK
	}
	if status >= http.StatusBadRequest {
		return c.String(status, "invalid_payload")
	}
	return c.String(status, "ok")
}
