package main

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// schema is the part of migration.Migrator the commands drive
type schema interface {
	Up() error
	Down() error
	Steps(n int) error
	GoTo(version uint) error
	Version() (uint, bool, error)
	Force(version int) error
	Drop() error
}

type command struct {
	usage string
	help  string
	run   func(s schema, args []string, log *zap.Logger) error
}

var errUsage = errors.New("usage")

var commands = map[string]command{
	"up": {
		usage: "up",
		help:  "Apply all pending migrations",
		run:   func(s schema, _ []string, _ *zap.Logger) error { return s.Up() },
	},
	"down": {
		usage: "down",
		help:  "Roll back every migration",
		run:   func(s schema, _ []string, _ *zap.Logger) error { return s.Down() },
	},
	"step": {
		usage: "step <n>",
		help:  "Apply n migrations; negative n rolls back",
		run: func(s schema, args []string, _ *zap.Logger) error {
			n, err := intArg(args)
			if err != nil {
				return err
			}
			return s.Steps(n)
		},
	},
	"goto": {
		usage: "goto <version>",
		help:  "Migrate up or down to version",
		run: func(s schema, args []string, _ *zap.Logger) error {
			n, err := intArg(args)
			if err != nil || n < 0 {
				return fmt.Errorf("%w: version must be a non-negative integer", errUsage)
			}
			return s.GoTo(uint(n))
		},
	},
	"version": {
		usage: "version",
		help:  "Show the applied version",
		run: func(s schema, _ []string, log *zap.Logger) error {
			v, dirty, err := s.Version()
			if err != nil {
				return err
			}
			if v == 0 {
				log.Info("No migrations applied")
				return nil
			}
			log.Info("Schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
			return nil
		},
	},
	"force": {
		usage: "force <version>",
		help:  "Record version as applied and clear the dirty flag",
		run: func(s schema, args []string, log *zap.Logger) error {
			n, err := intArg(args)
			if err != nil {
				return err
			}
			log.Warn("Forcing schema version", zap.Int("version", n))
			return s.Force(n)
		},
	},
	"drop": {
		usage: "drop -confirm",
		help:  "Drop every table, including the ledger",
		run: func(s schema, args []string, _ *zap.Logger) error {
			if !slices.Contains(args, "-confirm") && !slices.Contains(args, "--confirm") {
				return fmt.Errorf("%w: drop needs -confirm", errUsage)
			}
			return s.Drop()
		},
	},
}

func intArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: missing argument", errUsage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", errUsage, args[0])
	}
	return n, nil
}

// upMigrations lists the *.up.sql files at the root of fsys in apply order
func upMigrations(fsys fs.FS) ([]string, error) {
	names, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

func usage() string {
	var b strings.Builder
	b.WriteString("Usage: migrate [-path dir] [-log-level level] <command>\n\nCommands:\n")
	names := make([]string, 0, len(commands)+1)
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %-18s %s\n", commands[name].usage, commands[name].help)
	}
	fmt.Fprintf(&b, "  %-18s %s\n", "list", "Print the migrations in the source")
	b.WriteString("\nConnection settings come from BOOKSTORE_DATABASE_* or config.yaml.\n")
	return b.String()
}
