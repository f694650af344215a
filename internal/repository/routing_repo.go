package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pr-bump-notifier/internal/domain"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// RoutingRepository загружает таблицу маршрутизации из файла или отдаёт встроенную.
type RoutingRepository struct{}

// NewRoutingRepository создает новый экземпляр RoutingRepository.
func NewRoutingRepository() domain.RoutingRepository {
	return &RoutingRepository{}
}

// DefaultRoutingTable возвращает встроенные правила маршрутизации.
func DefaultRoutingTable() *domain.RoutingTable {
	return &domain.RoutingTable{
		Rules: []domain.RoutingRule{
			{Label: "backend", DestinationID: "WEBHOOK_BACKEND", DisplayName: "Backend Team"},
			{Label: "frontend", DestinationID: "WEBHOOK_FRONTEND", DisplayName: "Frontend Team"},
		},
	}
}

// Load читает таблицу из YAML, TOML или JSON файла. Пустой путь - встроенная таблица.
func (r *RoutingRepository) Load(path string) (*domain.RoutingTable, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultRoutingTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read routing file: %w", domain.ErrConfig, err)
	}

	table, err := decodeRoutingTable(path, data)
	if err != nil {
		return nil, err
	}

	if err := normalizeRoutingTable(table); err != nil {
		return nil, err
	}
	return table, nil
}

func decodeRoutingTable(path string, data []byte) (*domain.RoutingTable, error) {
	var table domain.RoutingTable

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("%w: yaml unmarshal: %w", domain.ErrConfig, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &table); err != nil {
			return nil, fmt.Errorf("%w: toml decode: %w", domain.ErrConfig, err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&table); err != nil {
			return nil, fmt.Errorf("%w: json decode: %w", domain.ErrConfig, err)
		}
	default:
		return nil, fmt.Errorf("%w: %w: %q", domain.ErrConfig, domain.ErrUnsupportedRoutingFormat, ext)
	}

	return &table, nil
}

// Правило без адресата допустимо: оно участвует в разборе, но никогда не срабатывает.
func normalizeRoutingTable(table *domain.RoutingTable) error {
	for i := range table.Rules {
		rule := &table.Rules[i]
		rule.Label = strings.TrimSpace(rule.Label)
		rule.DestinationID = strings.TrimSpace(rule.DestinationID)
		rule.DisplayName = strings.TrimSpace(rule.DisplayName)

		if rule.Label == "" {
			return fmt.Errorf("%w: %w: rule #%d has no label", domain.ErrConfig, domain.ErrInvalidRoutingRule, i+1)
		}
	}

	if fb := table.Fallback; fb != nil {
		fb.DestinationID = strings.TrimSpace(fb.DestinationID)
		fb.DisplayName = strings.TrimSpace(fb.DisplayName)
		if fb.DestinationID == "" {
			return fmt.Errorf("%w: %w: fallback has no destination", domain.ErrConfig, domain.ErrInvalidRoutingRule)
		}
	}

	return nil
}
