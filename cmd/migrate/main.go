// Command migrate applies the embedded schema migrations to PostgreSQL.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/bookstore/backend/internal/infrastructure/config"
	"github.com/bookstore/backend/internal/infrastructure/logger"
	"github.com/bookstore/backend/internal/infrastructure/migration"
	"github.com/bookstore/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	dir := flag.String("path", "", "read migrations from this directory instead of the embedded set")
	level := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage()) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	name, args := flag.Arg(0), flag.Args()[1:]

	log, err := logger.New(&logger.Config{Level: *level, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	var source fs.FS = migrations.FS
	if *dir != "" {
		source = os.DirFS(*dir)
	}

	if name == "list" {
		files, err := upMigrations(source)
		if err != nil {
			log.Fatal("Failed to read migrations", zap.Error(err))
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return
	}

	cmd, ok := commands[name]
	if !ok {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Database unreachable", zap.String("host", cfg.Database.Host), zap.Error(err))
	}

	// Close on the migrator also closes db
	m, err := migration.NewFromFS(db, source, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}

	err = cmd.run(m, args, log)
	if cerr := m.Close(); cerr != nil {
		log.Warn("Error closing migrator", zap.Error(cerr))
	}
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintf(os.Stderr, "%v\n\n%s", err, usage())
		os.Exit(2)
	case err != nil:
		log.Error("Migration failed", zap.String("command", name), zap.Error(err))
		os.Exit(1)
	}
}
