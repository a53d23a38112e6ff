package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/cache"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/ingest"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/metrics"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/service"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/storage"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/units"
)

const defaultActivityLimit = 50

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Record bulk intakes from CSV, tab separated or XLSX files",
		Description: "Each file becomes one intake. Files come from --file, or from an\n" +
			"S3-compatible bucket with --object (one key) or --prefix (every .csv/.tsv/.txt/.xlsx).",
		Flags: []cli.Flag{
			newDBURLFlag(),
			&cli.StringFlag{Name: "user", Required: true, Usage: "Owner of the inventory"},
			&cli.StringFlag{Name: "file", Usage: "Local file of food_type,quantity,unit[,expiration] rows"},
			&cli.StringFlag{Name: "object", Usage: "Object key to import from the bucket"},
			&cli.StringFlag{Name: "prefix", Usage: "Bucket prefix; imports every file under it", EnvVars: []string{"STORAGE_PREFIX"}},
			&cli.StringFlag{Name: "donor", Usage: "Donor recorded on the intake"},
			&cli.IntFlag{Name: "workers", Value: 4, Usage: "Files fetched and parsed concurrently"},
			&cli.IntFlag{Name: "activity-limit", Value: defaultActivityLimit, EnvVars: []string{"INVENTORY_ACTIVITY_LIMIT"}},
			&cli.StringFlag{Name: "storage-endpoint", EnvVars: []string{"STORAGE_ENDPOINT"}},
			&cli.StringFlag{Name: "storage-access-key", EnvVars: []string{"STORAGE_ACCESS_KEY"}},
			&cli.StringFlag{Name: "storage-secret-key", EnvVars: []string{"STORAGE_SECRET_KEY"}},
			&cli.StringFlag{Name: "storage-bucket", EnvVars: []string{"STORAGE_BUCKET"}},
			&cli.StringFlag{Name: "storage-region", EnvVars: []string{"STORAGE_REGION"}},
			&cli.BoolFlag{Name: "storage-use-ssl", Value: true, EnvVars: []string{"STORAGE_USE_SSL"}},
		},
		Before: initDB,
		After:  closeDB,
		Action: runImportCommand,
	}
}

func runImportCommand(c *cli.Context) error {
	sqlDB, err := dbFrom(c)
	if err != nil {
		return err
	}

	sources, err := importSources(c)
	if err != nil {
		return err
	}

	db := postgres.Wrap(sqlx.NewDb(sqlDB, "pgx"), 0)
	configs := service.NewConfigService(postgres.NewConfigRepository(db), domain.DefaultSettings(), cache.NewNoopDashboardCache())
	inventory := service.NewInventoryService(
		postgres.NewInventoryRepository(db, c.Int("activity-limit")),
		configs,
		metrics.NewCollector(),
	)

	return runImport(c.Context, c.App.Writer, inventory, c.String("user"), c.String("donor"), sources, c.Int("workers"))
}

func importSources(c *cli.Context) ([]ingest.Source, error) {
	if path := c.String("file"); path != "" {
		return []ingest.Source{{
			Name: path,
			Open: func(context.Context) (io.ReadCloser, error) { return os.Open(path) },
		}}, nil
	}

	if c.String("object") == "" && c.String("prefix") == "" {
		return nil, fmt.Errorf("one of --file, --object or --prefix is required")
	}

	client, err := storage.NewBucketClient(storage.BucketConfig{
		Endpoint:  c.String("storage-endpoint"),
		AccessKey: c.String("storage-access-key"),
		SecretKey: c.String("storage-secret-key"),
		Bucket:    c.String("storage-bucket"),
		Region:    c.String("storage-region"),
		UseSSL:    c.Bool("storage-use-ssl"),
	})
	if err != nil {
		return nil, err
	}

	return bucketSources(c.Context, client, c.String("prefix"), c.String("object"))
}

func bucketSources(ctx context.Context, store storage.ObjectStorage, prefix, object string) ([]ingest.Source, error) {
	var keys []string
	if object != "" {
		keys = []string{storage.ResolveKey(prefix, object)}
	} else {
		found, err := storage.ImportKeys(ctx, store, prefix)
		if err != nil {
			return nil, err
		}
		keys = found
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("no import files found under prefix %q", prefix)
	}

	sources := make([]ingest.Source, 0, len(keys))
	for _, key := range keys {
		sources = append(sources, ingest.Source{
			Name: key,
			Open: func(ctx context.Context) (io.ReadCloser, error) {
				content, err := store.GetObject(ctx, key)
				if err != nil {
					return nil, err
				}
				return io.NopCloser(bytes.NewReader(content)), nil
			},
		})
	}

	return sources, nil
}

// runImport parses every source concurrently, then records one intake per
// file in source order. The first unreadable or empty file stops the run.
func runImport(ctx context.Context, w io.Writer, inventory *service.InventoryService, userID, donor string, sources []ingest.Source, workers int) error {
	for _, parsed := range ingest.ParseSources(ctx, sources, workers) {
		if parsed.Err != nil {
			return parsed.Err
		}
		if err := recordImport(ctx, w, inventory, userID, donor, parsed); err != nil {
			return fmt.Errorf("%s: %w", parsed.Name, err)
		}
	}
	return nil
}

func recordImport(ctx context.Context, w io.Writer, inventory *service.InventoryService, userID, donor string, parsed ingest.FileResult) error {
	for _, row := range parsed.Skipped {
		log.Warn().Str("source", parsed.Name).Int("line", row.Line).Str("reason", row.Reason).Msg("import: row skipped")
	}
	if len(parsed.Items) == 0 {
		return fmt.Errorf("no importable rows (%d skipped)", len(parsed.Skipped))
	}

	result, err := inventory.RecordIntake(ctx, userID, domain.Transaction{
		Items: parsed.Items,
		Donor: donor,
		Notes: "bulk import: " + parsed.Name,
	})
	if err != nil {
		return fmt.Errorf("record intake: %w", err)
	}

	_, err = fmt.Fprintf(w, "%s: imported %d rows (%d skipped), %s, inventory now %s\n",
		parsed.Name,
		len(parsed.Items),
		len(parsed.Skipped),
		units.FormatWithUnit(result.Transaction.TotalWeight, domain.UnitPound),
		units.FormatWithUnit(result.Snapshot.Total(), domain.UnitPound),
	)
	return err
}
