// importer carga planillas históricas de stock de distribuidores directamente
// contra las bases configuradas, sin pasar por el servidor HTTP.
//
// Uso: importer import -file planilla.csv [-latin1] [-batch 500]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/agrovia/liquidacion-api/internal/application/bulkimport"
	"github.com/agrovia/liquidacion-api/internal/infrastructure/mongodb"
	"github.com/agrovia/liquidacion-api/internal/infrastructure/postgres"
	"github.com/agrovia/liquidacion-api/pkg/config"
	"github.com/agrovia/liquidacion-api/pkg/logger"
)

type importCmd struct {
	file   string
	latin1 bool
	batch  int
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "importa una planilla histórica CSV al libro mayor" }
func (*importCmd) Usage() string {
	return `import -file <planilla.csv> [-latin1] [-batch 500]

  Procesa la planilla completa: actualiza el libro mayor de distribuidores y
  reconstruye actas de liquidación y ventas mensuales (abril a septiembre).
  Las filas con error se reportan en el resumen; la corrida nunca aborta por
  una fila.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "Ruta de la planilla CSV (requerido)")
	f.BoolVar(&c.latin1, "latin1", false, "Decodificar el archivo como Latin-1 en lugar de UTF-8")
	f.IntVar(&c.batch, "batch", 0, "Documentos por lote de escritura (default: config)")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(os.Stderr, "Error: el flag -file es requerido.")
		return subcommands.ExitUsageError
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error cargando configuración: %v\n", err)
		return subcommands.ExitFailure
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	f, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error abriendo la planilla: %v\n", err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	rows, err := bulkimport.ParseReader(f, c.latin1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error leyendo CSV: %v\n", err)
		return subcommands.ExitFailure
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error conectando a PostgreSQL: %v\n", err)
		return subcommands.ExitFailure
	}
	defer pool.Close()

	store, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error conectando a MongoDB: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close(context.Background())

	batchSize := cfg.Import.BatchSize
	if c.batch > 0 {
		batchSize = c.batch
	}
	pipeline := bulkimport.NewPipeline(
		postgres.NewProductRepository(pool),
		postgres.NewDistributorStockRepository(pool),
		mongodb.NewLiquidationRepository(store),
		mongodb.NewSalesRepository(store),
		bulkimport.Config{BatchSize: batchSize, MaxErrors: cfg.Import.MaxErrors},
		log,
	)

	summary, err := pipeline.Run(ctx, rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error en la corrida: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Filas: %d  Creados: %d  Actualizados: %d  Errores: %d\n",
		summary.TotalRows, summary.Created, summary.Updated, len(summary.Errors))
	for _, e := range summary.Errors {
		fmt.Fprintln(os.Stderr, "  "+e)
	}
	if len(summary.Errors) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(subcommands.HelpCommand(), "")
	commander.Register(&importCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
