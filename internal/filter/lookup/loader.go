package lookup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/graph-gophers/dataloader"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/matthewbaird/fleetfilter/internal/filter/options"
)

// Loader batches lookup requests from concurrent sessions: callers asking
// for the same kind within one window share a single fetch. Each kind has
// its own batcher so a slow kind never delays the others.
type Loader struct {
	wait    time.Duration
	loaders map[Kind]*dataloader.Loader
	log     zerolog.Logger
	onError func(Kind, error)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used for failed lookups.
func WithLogger(l zerolog.Logger) LoaderOption {
	return func(ld *Loader) { ld.log = l }
}

// WithBatchWait sets how long a batch collects callers before fetching.
func WithBatchWait(d time.Duration) LoaderOption {
	return func(ld *Loader) { ld.wait = d }
}

// WithErrorHook is called once per failed kind.
func WithErrorHook(fn func(Kind, error)) LoaderOption {
	return func(ld *Loader) { ld.onError = fn }
}

// NewLoader wraps source. Results are not cached between batches.
func NewLoader(source Source, opts ...LoaderOption) *Loader {
	ld := &Loader{
		wait:    5 * time.Millisecond,
		loaders: make(map[Kind]*dataloader.Loader, len(Kinds)),
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(ld)
	}
	for _, kind := range Kinds {
		ld.loaders[kind] = dataloader.NewBatchedLoader(fetchOnce(source, kind),
			dataloader.WithWait(ld.wait),
			dataloader.WithCache(&dataloader.NoCache{}),
		)
	}
	return ld
}

// fetchOnce answers every key of a batch with one fetch of kind.
func fetchOnce(source Source, kind Kind) dataloader.BatchFunc {
	return func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		list, err := source.Fetch(ctx, kind)
		results := make([]*dataloader.Result, len(keys))
		for i := range keys {
			if err != nil {
				results[i] = &dataloader.Result{Error: err}
				continue
			}
			cp := make([]Entity, len(list))
			copy(cp, list)
			results[i] = &dataloader.Result{Data: cp}
		}
		return results
	}
}

// Load fetches one kind through its batcher.
func (ld *Loader) Load(ctx context.Context, kind Kind) ([]Entity, error) {
	l, ok := ld.loaders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	data, err := l.Load(ctx, dataloader.StringKey(string(kind)))()
	if err != nil {
		return nil, err
	}
	list, _ := data.([]Entity)
	return list, nil
}

// Populate loads every kind the held fields need, concurrently, and applies
// each result to p as soon as it arrives. A failed kind leaves its fields
// with their static options and does not stop the others. The returned
// error joins every failure.
func (ld *Loader) Populate(ctx context.Context, p *options.Progressive) error {
	return ld.PopulateNotify(ctx, p, nil)
}

// PopulateNotify is Populate with a callback run after each kind is
// applied to p.
func (ld *Loader) PopulateNotify(ctx context.Context, p *options.Progressive, resolved func(Kind)) error {
	fields, _ := p.Fields()
	kinds := KindsFor(fields)

	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	for _, kind := range kinds {
		g.Go(func() error {
			list, err := ld.Load(ctx, kind)
			if err != nil {
				ld.log.Warn().Err(err).Str("kind", string(kind)).Msg("lookup failed")
				if ld.onError != nil {
					ld.onError(kind, err)
				}
				mu.Lock()
				errs = append(errs, fmt.Errorf("lookup %s: %w", kind, err))
				mu.Unlock()
				return nil
			}
			p.Apply(Resolvers(fields, kind, list))
			if resolved != nil {
				resolved(kind)
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
