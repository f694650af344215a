package usecase

import "pr-bump-notifier/internal/domain"

// MatchRules возвращает все правила, чья метка есть у пул-реквеста и у которых задан адресат.
// Порядок - порядок правил в таблице. Если ничего не подошло, используется запасное правило.
func MatchRules(labels []string, table *domain.RoutingTable) []domain.RoutingRule {
	if table == nil {
		return nil
	}

	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}

	var matched []domain.RoutingRule
	for _, rule := range table.Rules {
		if rule.DestinationID == "" {
			continue
		}
		if _, ok := set[rule.Label]; ok {
			matched = append(matched, rule)
		}
	}

	if len(matched) == 0 && table.Fallback != nil && table.Fallback.DestinationID != "" {
		matched = append(matched, *table.Fallback)
	}
	return matched
}
