package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agrovia/liquidacion-api/internal/domain/entity"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
)

var _ repository.SalesRepository = (*SalesRepo)(nil)

// SalesRepo ventas históricas reconstruidas sobre la colección sales_records.
type SalesRepo struct {
	coll *mongo.Collection
}

// NewSalesRepository construye el adaptador sobre el store compartido.
func NewSalesRepository(s *Store) *SalesRepo {
	return &SalesRepo{coll: s.db.Collection("sales_records")}
}

// CreateMany inserta un lote sin orden, igual que las actas: los documentos
// sanos sobreviven a los rechazados.
func (r *SalesRepo) CreateMany(ctx context.Context, records []*entity.SalesRecord) (int, []repository.FailedDoc, error) {
	docs := make([]any, len(records))
	for i, rec := range records {
		docs[i] = rec
	}
	_, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return collectFailures(err, len(docs))
}
