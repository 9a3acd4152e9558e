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

var _ repository.VerificationRepository = (*VerificationRepo)(nil)

// VerificationRepo actas de verificación física sobre la colección retailer_verifications.
type VerificationRepo struct {
	coll *mongo.Collection
}

// NewVerificationRepository construye el adaptador sobre el store compartido.
func NewVerificationRepository(s *Store) *VerificationRepo {
	return &VerificationRepo{coll: s.db.Collection("retailer_verifications")}
}

// Create inserta un acta de verificación. Se persiste siempre, incluso con
// todas las varianzas en cero.
func (r *VerificationRepo) Create(ctx context.Context, v *entity.RetailerVerification) error {
	if _, err := r.coll.InsertOne(ctx, v); err != nil {
		return fmt.Errorf("insert verification: %w", err)
	}
	return nil
}

// ListByRetailer lista actas de un agroservicio, más recientes primero.
func (r *VerificationRepo) ListByRetailer(ctx context.Context, retailerCode string, limit int) ([]*entity.RetailerVerification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "verified_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{"retailer_code": retailerCode}, opts)
	if err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}
	defer cursor.Close(ctx)

	var vs []*entity.RetailerVerification
	if err := cursor.All(ctx, &vs); err != nil {
		return nil, fmt.Errorf("decode verifications: %w", err)
	}
	return vs, nil
}
