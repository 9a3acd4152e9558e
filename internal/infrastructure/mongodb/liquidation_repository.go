package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agrovia/liquidacion-api/internal/domain"
	"github.com/agrovia/liquidacion-api/internal/domain/entity"
	"github.com/agrovia/liquidacion-api/internal/domain/repository"
)

var _ repository.LiquidationRepository = (*LiquidationRepo)(nil)

// LiquidationRepo actas de liquidación sobre la colección liquidation_entries.
type LiquidationRepo struct {
	coll *mongo.Collection
}

// NewLiquidationRepository construye el adaptador sobre el store compartido.
func NewLiquidationRepository(s *Store) *LiquidationRepo {
	return &LiquidationRepo{coll: s.db.Collection("liquidation_entries")}
}

// Create inserta un acta individual (flujo de tiempo real).
func (r *LiquidationRepo) Create(ctx context.Context, entry *entity.LiquidationEntry) error {
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("insert liquidation entry: %w", err)
	}
	return nil
}

// CreateMany inserta un lote SIN orden: un documento rechazado no impide la
// inserción de los demás. Los fallidos se devuelven con su índice del lote.
func (r *LiquidationRepo) CreateMany(ctx context.Context, entries []*entity.LiquidationEntry) (int, []repository.FailedDoc, error) {
	docs := make([]any, len(entries))
	for i, e := range entries {
		docs[i] = e
	}
	_, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return collectFailures(err, len(docs))
}

// GetByID obtiene un acta por ID.
func (r *LiquidationRepo) GetByID(ctx context.Context, id string) (*entity.LiquidationEntry, error) {
	var entry entity.LiquidationEntry
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find liquidation entry: %w", err)
	}
	return &entry, nil
}

// ListByDistributor lista actas de un distribuidor, más recientes primero.
func (r *LiquidationRepo) ListByDistributor(ctx context.Context, distributorCode string, limit int) ([]*entity.LiquidationEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "submitted_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{"distributor_code": distributorCode}, opts)
	if err != nil {
		return nil, fmt.Errorf("list liquidation entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*entity.LiquidationEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode liquidation entries: %w", err)
	}
	return entries, nil
}

// UpdateStatus transiciona un acta pendiente. El filtro exige status=pending
// en el mismo update, así dos revisores concurrentes no se pisan.
func (r *LiquidationRepo) UpdateStatus(ctx context.Context, id, status, reviewedBy string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": entity.EntryStatusPending},
		bson.M{"$set": bson.M{
			"status":      status,
			"reviewed_by": reviewedBy,
			"reviewed_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("update entry status: %w", err)
	}
	if res.MatchedCount == 0 {
		// O no existe o ya no está pendiente; distinguir con una lectura.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrEntryNotPending
	}
	return nil
}
