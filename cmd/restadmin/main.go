// Command restadmin serves an auto-generated admin REST API over every
// table in the configured database.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openadm/restadmin/internal/admin"
	"github.com/openadm/restadmin/internal/config"
	"github.com/openadm/restadmin/internal/database"
	"github.com/openadm/restadmin/internal/database/mysql"
	"github.com/openadm/restadmin/internal/database/postgres"
	"github.com/openadm/restadmin/internal/filestore"
	miniostore "github.com/openadm/restadmin/internal/filestore/minio"
	"github.com/openadm/restadmin/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "restadmin:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Infof("connected to %s database", cfg.Database.Dialect)

	var store filestore.Store
	if cfg.Filestore.Enabled {
		store, err = miniostore.New(ctx, cfg.FilestoreConfig())
		if err != nil {
			return err
		}
		log.Infof("connected to filestore at %s", cfg.Filestore.Endpoint)
	}

	schema, err := buildSchema(ctx, cfg, db, store, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           schema.Routes(log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("admin API listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openDatabase(ctx context.Context, cfg *config.Config) (database.DB, error) {
	dbCfg := cfg.DatabaseConfig()
	switch cfg.Database.Dialect {
	case "postgres":
		db, err := postgres.New(ctx, dbCfg)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "mysql":
		db, err := mysql.New(ctx, dbCfg)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", cfg.Database.Dialect)
	}
}

// buildSchema introspects the database and registers one resource per table.
func buildSchema(ctx context.Context, cfg *config.Config, db database.DB, store filestore.Store, log *logger.Logger) (*admin.Schema, error) {
	info, err := db.InspectSchema(ctx)
	if err != nil {
		return nil, err
	}

	limits := admin.Limits{
		DefaultPerPage: cfg.Admin.DefaultPerPage,
		MaxPerPage:     cfg.Admin.MaxPerPage,
	}

	schema := admin.NewSchema(cfg.Admin.Title)
	for _, table := range info.Tables {
		if len(table.PrimaryKey) == 0 {
			log.Warnf("skipping table %s: no primary key", table.Name)
			continue
		}

		opts := []admin.Option{
			admin.WithLimits(limits),
			admin.WithLogger(log),
		}
		if fields := cfg.Admin.Attachments[table.Name]; store != nil && len(fields) > 0 {
			opts = append(opts, admin.WithAttachments(store, cfg.Filestore.Bucket, fields...))
		}
		res, err := admin.NewResource(db, table, opts...)
		if err != nil {
			return nil, err
		}
		schema.Register(res)
		log.Infof("registered resource %s", res.Name())
	}
	return schema, nil
}
