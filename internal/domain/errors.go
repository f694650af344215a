package domain

import "errors"

// Domain errors (классы ошибок запуска)
var (
	// Ошибки конфигурации, прерывают запуск до сетевых вызовов
	ErrConfig                   = errors.New("configuration error")
	ErrMissingToken             = errors.New("GITHUB_TOKEN is not set")
	ErrMissingRepositories      = errors.New("repository list is empty")
	ErrInvalidRepository        = errors.New("repository must be in owner/repo form")
	ErrInvalidRoutingRule       = errors.New("invalid routing rule")
	ErrUnsupportedRoutingFormat = errors.New("unsupported routing file format")

	// Ошибки хостинга кода
	ErrFetch  = errors.New("failed to list pull requests")
	ErrEnrich = errors.New("failed to enrich pull request")

	// Ошибки доставки
	ErrDelivery       = errors.New("webhook delivery failed")
	ErrInvalidPayload = errors.New("invalid message payload")
)

// Exit codes процесса
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfigError = 2
)

// Маппинг классов ошибок в коды выхода
var exitCodeMapping = []struct {
	err  error
	code int
}{
	{ErrConfig, ExitConfigError},
	{ErrMissingToken, ExitConfigError},
	{ErrMissingRepositories, ExitConfigError},
	{ErrInvalidRepository, ExitConfigError},
	{ErrInvalidRoutingRule, ExitConfigError},
	{ErrUnsupportedRoutingFormat, ExitConfigError},
}

// ExitCode преобразует ошибку верхнего уровня в код выхода процесса.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	for _, m := range exitCodeMapping {
		if errors.Is(err, m.err) {
			return m.code
		}
	}
	return ExitFailure
}
