package domain

// RoutingRule связывает метку пул-реквеста с адресатом уведомления.
type RoutingRule struct {
	Label         string `json:"label" yaml:"label" toml:"label"`
	DestinationID string `json:"destination" yaml:"destination" toml:"destination"`
	DisplayName   string `json:"display_name" yaml:"display_name" toml:"display_name"`
}

// RoutingTable - неизменяемая после загрузки таблица маршрутизации.
type RoutingTable struct {
	Rules    []RoutingRule `json:"rules" yaml:"rules" toml:"rules"`
	Fallback *RoutingRule  `json:"fallback,omitempty" yaml:"fallback,omitempty" toml:"fallback,omitempty"`
}

// RoutingRepository определяет контракт для загрузки таблицы маршрутизации.
type RoutingRepository interface {
	Load(path string) (*RoutingTable, error)
}

// Bucket - набор пул-реквестов для одного адресата.
type Bucket struct {
	Rule  RoutingRule
	Items []EnrichedPullRequest
}

func (b *Bucket) contains(item EnrichedPullRequest) bool {
	for _, existing := range b.Items {
		if existing.Number == item.Number && existing.Repository == item.Repository {
			return true
		}
	}
	return false
}

// Buckets - корзины по адресатам с сохранением порядка вставки.
type Buckets struct {
	order []string
	byID  map[string]*Bucket
}

// NewBuckets создает пустой набор корзин.
func NewBuckets() *Buckets {
	return &Buckets{byID: make(map[string]*Bucket)}
}

// Add кладёт пул-реквест в корзину адресата правила, создавая её при необходимости.
// Повторное добавление того же пул-реквеста в ту же корзину игнорируется.
func (b *Buckets) Add(rule RoutingRule, item EnrichedPullRequest) {
	bucket, ok := b.byID[rule.DestinationID]
	if !ok {
		bucket = &Bucket{Rule: rule}
		b.byID[rule.DestinationID] = bucket
		b.order = append(b.order, rule.DestinationID)
	}
	if bucket.contains(item) {
		return
	}
	bucket.Items = append(bucket.Items, item)
}

// Get возвращает корзину по идентификатору адресата.
func (b *Buckets) Get(destinationID string) (*Bucket, bool) {
	bucket, ok := b.byID[destinationID]
	return bucket, ok
}

// Keys возвращает идентификаторы адресатов в порядке вставки.
func (b *Buckets) Keys() []string {
	keys := make([]string, len(b.order))
	copy(keys, b.order)
	return keys
}

// Len возвращает число адресатов.
func (b *Buckets) Len() int {
	return len(b.order)
}

// IsEmpty сообщает, что ни один пул-реквест не подошёл ни под одно правило.
func (b *Buckets) IsEmpty() bool {
	return len(b.order) == 0
}

// Each обходит корзины в порядке вставки.
func (b *Buckets) Each(fn func(destinationID string, bucket *Bucket)) {
	for _, id := range b.order {
		fn(id, b.byID[id])
	}
}
