package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agrovia/liquidacion-api/internal/domain/entity"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
)

var _ repository.RectificationRepository = (*RectificationRepo)(nil)

// RectificationRepo propuestas de corrección sobre la colección stock_rectifications.
type RectificationRepo struct {
	coll *mongo.Collection
}

// NewRectificationRepository construye el adaptador sobre el store compartido.
func NewRectificationRepository(s *Store) *RectificationRepo {
	return &RectificationRepo{coll: s.db.Collection("stock_rectifications")}
}

// Create inserta una propuesta pendiente.
func (r *RectificationRepo) Create(ctx context.Context, rect *entity.StockRectification) error {
	if _, err := r.coll.InsertOne(ctx, rect); err != nil {
		return fmt.Errorf("insert rectification: %w", err)
	}
	return nil
}

// ListPending lista propuestas pendientes, más antiguas primero para revisión FIFO.
func (r *RectificationRepo) ListPending(ctx context.Context, limit int) ([]*entity.StockRectification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "requested_at", Value: 1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{"status": "pending"}, opts)
	if err != nil {
		return nil, fmt.Errorf("list rectifications: %w", err)
	}
	defer cursor.Close(ctx)

	var rs []*entity.StockRectification
	if err := cursor.All(ctx, &rs); err != nil {
		return nil, fmt.Errorf("decode rectifications: %w", err)
	}
	return rs, nil
}
