package domain

import "context"

// CollectUseCase определяет сбор и обогащение пул-реквестов по всем репозиториям.
type CollectUseCase interface {
	Collect(ctx context.Context, repos []RepositoryRef) (*Buckets, error)
	CollectRaw(ctx context.Context, repos []RepositoryRef) (*Buckets, error)
}

// DispatchUseCase определяет рассылку корзин по адресатам.
type DispatchUseCase interface {
	Dispatch(ctx context.Context, buckets *Buckets) *DeliveryReport
}
