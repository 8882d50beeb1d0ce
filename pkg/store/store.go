// Package store keeps report snapshots so past analyses can be listed and
// compared.
//
// Three backends implement [Store]:
//   - [MongoStore]: MongoDB collection for the HTTP API and shared history
//   - [FileStore]: JSON files under the user config directory for the CLI
//   - [MemoryStore]: in-process map for tests and a store-less server
//
// # Usage
//
//	st, err := store.NewMongoStore(ctx, store.MongoConfig{URI: uri})
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	id, err := st.Save(ctx, rep)
//	recent, err := st.List(ctx, store.ListOptions{Limit: 10})
package store

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/bundlescope/pkg/errors"
	"github.com/matzehuels/bundlescope/pkg/report"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 20

// Store is the interface for snapshot storage backends.
type Store interface {
	// Save stores r and returns its id. A report without an id is assigned
	// a new one; one with an id replaces the stored snapshot.
	Save(ctx context.Context, r *report.Report) (string, error)

	// Get retrieves a snapshot by id.
	// Returns ErrCodeSnapshotNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*report.Report, error)

	// List returns snapshot summaries, newest first. Summaries carry the
	// counts but not the module name lists or depth rows.
	List(ctx context.Context, opts ListOptions) ([]*report.Report, error)

	// Close releases the backend.
	Close() error
}

// ListOptions filters [Store.List].
type ListOptions struct {
	Limit  int    // Defaults to DefaultListLimit
	Bundle string // Only snapshots of this bundle path
}

func (o ListOptions) limit() int {
	if o.Limit <= 0 {
		return DefaultListLimit
	}
	return o.Limit
}

// prepare assigns an id and creation time to a report about to be stored.
func prepare(r *report.Report) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
}

// summary copies r without its module name lists and depth rows.
func summary(r *report.Report) *report.Report {
	s := *r
	s.Application = nil
	s.Library = nil
	s.Depths = nil
	return &s
}

// selectSummaries filters, orders and truncates a full snapshot set the way
// every backend's List does.
func selectSummaries(all []*report.Report, opts ListOptions) []*report.Report {
	out := make([]*report.Report, 0, len(all))
	for _, r := range all {
		if opts.Bundle != "" && r.Bundle != opts.Bundle {
			continue
		}
		out = append(out, summary(r))
	}
	slices.SortStableFunc(out, func(a, b *report.Report) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	if len(out) > opts.limit() {
		out = out[:opts.limit()]
	}
	return out
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeSnapshotNotFound, "snapshot %s not found", id)
}
