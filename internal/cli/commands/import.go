package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Rsaliu/store-lib/internal/store"
	"github.com/Rsaliu/store-lib/pkg/core"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newUserImportCommand() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Insert users from a JSON array of documents",
		Long: `Insert every user document of a JSON array file concurrently.

A failing document does not stop the others; the command reports one result
row per document and exits non-zero if any failed.`,
		Args: cobra.ExactArgs(1),
		RunE: users.run(func(ctx context.Context, cc *CommandContext, s store.Store, args []string) error {
			docs, err := readDocuments(args[0], cc.in)
			if err != nil {
				return err
			}

			limit := concurrency
			if limit <= 0 {
				limit = cc.Cfg.Database.MaxOpenConns
			}
			cc.Logger.Info("importing users", "count", len(docs), "concurrency", limit)

			results, failed := importDocuments(ctx, cc.DB, s, docs, limit)
			if err := cc.Renderer.Documents(results); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d users failed to import", failed, len(docs))
			}
			return nil
		}),
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Concurrent inserts (default: database.max_open_conns)")
	return cmd
}

// importDocuments inserts docs with at most limit inserts in flight and
// returns one result per document, in input order, plus the failure count.
func importDocuments(ctx context.Context, q store.Querier, s store.Store, docs []*core.Document, limit int) ([]*core.Document, int) {
	if limit < 1 {
		limit = 1
	}

	results := make([]*core.Document, len(docs))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, doc := range docs {
		g.Go(func() error {
			id, err := s.Insert(ctx, q, doc)
			if err != nil {
				results[i] = core.NewDocument(core.F("index", i), core.F("id", nil), core.F("error", err.Error()))
				return nil
			}
			results[i] = core.NewDocument(core.F("index", i), core.F("id", id.String()), core.F("error", nil))
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if v, _ := r.Get("error"); v != nil {
			failed++
		}
	}
	return results, failed
}

// readDocuments reads a JSON array of documents from path, or from in when
// path is "-".
func readDocuments(path string, in io.Reader) ([]*core.Document, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var docs []*core.Document
	if err := decodeJSON(bytes.NewReader(data), &docs); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for i, doc := range docs {
		if doc == nil {
			return nil, fmt.Errorf("failed to parse %s: element %d is null", path, i)
		}
	}
	return docs, nil
}
