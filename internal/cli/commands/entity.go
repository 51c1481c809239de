package commands

import (
	"context"

	"github.com/Rsaliu/store-lib/internal/store"
	"github.com/spf13/cobra"
)

// entity describes one stored entity for the shared CRUD subcommands.
type entity struct {
	name   string
	plural string
	hidden []string
	open   func(cc *CommandContext) store.Store
}

type storeFunc func(ctx context.Context, cc *CommandContext, s store.Store, args []string) error

// run opens the database and the entity's store around fn.
func (e entity) run(fn storeFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cc, cleanup, err := NewCommandContext(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		cc.Renderer.Hide(e.hidden...)
		return fn(commandContext(cmd), cc, e.open(cc), args)
	}
}

// crudCommands returns create, get, find, list, patch, update, delete and count.
func (e entity) crudCommands() []*cobra.Command {
	var limit, offset int64

	list := &cobra.Command{
		Use:   "list",
		Short: "List " + e.plural + " ordered by id",
		Args:  cobra.NoArgs,
		RunE: e.run(func(ctx context.Context, cc *CommandContext, s store.Store, _ []string) error {
			docs, err := s.GetAllPaginate(ctx, cc.DB, limit, offset)
			if err != nil {
				return err
			}
			return cc.Renderer.Documents(docs)
		}),
	}
	list.Flags().Int64Var(&limit, "limit", 20, "Maximum number of rows")
	list.Flags().Int64Var(&offset, "offset", 0, "Number of rows to skip")

	return []*cobra.Command{
		{
			Use:   "create <json|->",
			Short: "Insert a " + e.name,
			Args:  cobra.ExactArgs(1),
			RunE: e.run(func(ctx context.Context, cc *CommandContext, s store.Store, args []string) error {
				doc, err := readDocument(args[0], cc.in)
				if err != nil {
					return err
				}
				id, err := s.Insert(ctx, cc.DB, doc)
				if err != nil {
					return err
				}
				return printResult(cc, "id", id.String())
			}),
		},
		{
			Use:   "get <id>",
			Short: "Show a " + e.name + " by id",
			Args:  cobra.ExactArgs(1),
			RunE: e.run(func(ctx context.Context, cc *CommandContext, s store.Store, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				docs, err := s.Get(ctx, cc.DB, id)
				if err != nil {
					return err
				}
				return cc.Renderer.Documents(docs)
			}),
		},
		{
			Use:   "find <json|->",
			Short: "Find " + e.plural + " whose fields equal the given document",
			Args:  cobra.ExactArgs(1),
			RunE: e.run(func(ctx context.Context, cc *CommandContext, s store.Store, args []string) error {
				filter, err := readDocument(args[0], cc.in)
				if err != nil {
					return err
				}
				docs, err := s.GetBySlug(ctx, cc.DB, filter)
				if err != nil {
					return err
				}
				return cc.Renderer.Documents(docs)
			}),
		},
		list,
		{
			Use:   "patch <id> <json|->",
			Short: "Update only the given fields of a " + e.name,
			Args:  cobra.ExactArgs(2),
			RunE: e.run(func(ctx context.Context, cc *CommandContext, s store.Store, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				changes, err := readDocument(args[1], cc.in)
				if err != nil {
					return err
				}
				if err := s.Patch(ctx, cc.DB, id, changes); err != nil {
					return err
				}
				return printResult(cc, "patched", id.String())
			}),
		},
		{
			Use:   "update <id> <json|->",
			Short: "Replace every field of a " + e.name,
			Args:  cobra.ExactArgs(2),
			RunE: e.run(func(ctx context.Context, cc *CommandContext, s store.Store, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				doc, err := readDocument(args[1], cc.in)
				if err != nil {
					return err
				}
				if err := s.Update(ctx, cc.DB, id, doc); err != nil {
					return err
				}
				return printResult(cc, "updated", id.String())
			}),
		},
		{
			Use:   "delete <id>",
			Short: "Delete a " + e.name + " by id",
			Args:  cobra.ExactArgs(1),
			RunE: e.run(func(ctx context.Context, cc *CommandContext, s store.Store, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := s.Delete(ctx, cc.DB, id); err != nil {
					return err
				}
				return printResult(cc, "deleted", id.String())
			}),
		},
		{
			Use:   "count",
			Short: "Count " + e.plural,
			Args:  cobra.NoArgs,
			RunE: e.run(func(ctx context.Context, cc *CommandContext, s store.Store, _ []string) error {
				n, err := s.Count(ctx, cc.DB)
				if err != nil {
					return err
				}
				return printResult(cc, "count", n)
			}),
		},
	}
}
