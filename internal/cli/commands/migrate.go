package commands

import (
	"github.com/Rsaliu/store-lib/internal/store"
	"github.com/Rsaliu/store-lib/pkg/core"
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command group.
func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cc, cleanup, err := NewCommandContext(cmd)
				if err != nil {
					return err
				}
				defer cleanup()

				version, err := store.Migrate(commandContext(cmd), cc.DB, cc.Logger)
				if err != nil {
					return err
				}
				return printResult(cc, "version", version)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cc, cleanup, err := NewCommandContext(cmd)
				if err != nil {
					return err
				}
				defer cleanup()

				statuses, err := store.MigrationStatuses(commandContext(cmd), cc.DB)
				if err != nil {
					return err
				}
				docs := make([]*core.Document, 0, len(statuses))
				for _, s := range statuses {
					docs = append(docs, core.NewDocument(
						core.F("version", s.Version),
						core.F("source", s.Source),
						core.F("applied", s.Applied),
					))
				}
				return cc.Renderer.Documents(docs)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cc, cleanup, err := NewCommandContext(cmd)
				if err != nil {
					return err
				}
				defer cleanup()

				version, err := store.MigrationVersion(commandContext(cmd), cc.DB)
				if err != nil {
					return err
				}
				return printResult(cc, "version", version)
			},
		},
	)
	return cmd
}
