// Package mongodb implementa los puertos de auditoría append-only sobre
// MongoDB: actas de liquidación, verificaciones físicas, ventas históricas y
// rectificaciones. El libro mayor vive en PostgreSQL; aquí solo hay evidencia.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agrovia/liquidacion-api/internal/domain/repository"
	"github.com/agrovia/liquidacion-api/pkg/config"
)

// Store conexión compartida por todos los repositorios de auditoría.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect abre el cliente y verifica la conexión con un ping. El registry
// lleva el codec de decimal.Decimal: sin él las cantidades se persistirían
// como documentos vacíos.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetRegistry(newRegistry())
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("conectar a mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &Store{client: client, db: client.Database(cfg.DBName)}, nil
}

// Close cierra la conexión.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// collectFailures traduce un BulkWriteException a FailedDoc por índice del
// lote. Con inserciones no ordenadas los documentos sanos quedan insertados
// aunque otros del mismo lote fallen.
func collectFailures(err error, batchLen int) (inserted int, failed []repository.FailedDoc, outErr error) {
	if err == nil {
		return batchLen, nil, nil
	}
	var bulkErr mongo.BulkWriteException
	if !errors.As(err, &bulkErr) {
		return 0, nil, err
	}
	for _, we := range bulkErr.WriteErrors {
		failed = append(failed, repository.FailedDoc{
			Index:   we.Index,
			Message: we.Message,
		})
	}
	return batchLen - len(failed), failed, nil
}
