package config

import (
	"fmt"
	"strings"

	"pr-bump-notifier/internal/domain"
)

// ParseRepositories разбирает строку вида "owner/repo, owner2/repo2".
// Пробелы обрезаются, пустые элементы пропускаются, дубликаты и порядок сохраняются.
func ParseRepositories(raw string) ([]domain.RepositoryRef, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfig, domain.ErrMissingRepositories)
	}

	repos := make([]domain.RepositoryRef, 0)
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		parts := strings.Split(token, "/")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: %w: %q", domain.ErrConfig, domain.ErrInvalidRepository, token)
		}
		owner, name := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if owner == "" || name == "" {
			return nil, fmt.Errorf("%w: %w: %q", domain.ErrConfig, domain.ErrInvalidRepository, token)
		}

		repos = append(repos, domain.RepositoryRef{Owner: owner, Name: name})
	}

	if len(repos) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfig, domain.ErrMissingRepositories)
	}
	return repos, nil
}
