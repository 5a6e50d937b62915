package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/weftml/weft/pkg/domain/weft/db/postgres"
	"github.com/weftml/weft/pkg/utils/filewatch"
)

const ErrExitCode = 1

func main() {
	if err := NewSchemaUpgraderCmd().Execute(); err != nil {
		fmt.Println(err.Error())
		os.Exit(ErrExitCode)
	}
}

// NewSchemaUpgraderCmd builds the schema upgrader command.
//
// Flags default to the DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME and
// WEFT_SCHEMA environment variables, so in-cluster runs need no arguments.
func NewSchemaUpgraderCmd() *cobra.Command {
	port := 5432
	if sp := os.Getenv("DB_PORT"); sp != "" {
		p, err := strconv.Atoi(sp)
		if err == nil {
			port = p
		}
	}

	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	database := os.Getenv("DB_NAME")
	schema := os.Getenv("WEFT_SCHEMA")
	watch := false

	cmd := &cobra.Command{
		Use:   "schema_upgrader [DEST]",
		Short: "upgrade the weft database schema to the latest version",
		Long: `upgrade the weft database schema to the latest version.

When DEST is given, the schema repository is copied there first. Init
containers use this to hand the schema files over to the server container
on a shared volume.

With --watch, the command keeps running and applies the schema again
whenever the repository changes.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
			defer cancel()

			if len(args) != 0 {
				log.Println("copying schema files...")
				if err := os.CopyFS(args[0], os.DirFS(schema)); err != nil {
					return err
				}
			}

			db, err := postgres.New(
				ctx,
				fmt.Sprintf(
					"postgres://%s:%s@%s:%d/%s",
					user, password, host, port, database,
				),
				postgres.WithSchemaRepository(schema),
			)
			if err != nil {
				return err
			}
			defer db.Close()

			for {
				if err := db.Schema().Upgrade(ctx); err != nil {
					return err
				}
				if v, err := db.Schema().Version(ctx); err == nil {
					log.Printf("schema is at version %d", v)
				}
				if !watch {
					return nil
				}

				log.Println("watching the schema repository...")
				wctx, stop, err := filewatch.UntilModifyContext(ctx, schema)
				if err != nil {
					return err
				}
				<-wctx.Done()
				stop()

				if ctx.Err() != nil {
					return nil
				}
				log.Println("the schema repository is updated. applying again.")
			}
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&host, "host", host, "The host of the database.")
	flags.IntVar(&port, "port", port, "The port of the database.")
	flags.StringVar(&user, "user", user, "The user of the database.")
	flags.StringVar(&password, "pass", password, "The password of the database.")
	flags.StringVar(&database, "database", database, "The name of the database.")
	flags.StringVar(&schema, "schema", schema, "The path to the schema repository directory.")
	flags.BoolVar(&watch, "watch", false, "Keep running and re-apply when the schema repository changes.")

	return cmd
}
