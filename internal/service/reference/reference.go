package reference

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"production-tracker/internal/storage"
)

var ErrUnknownKind = errors.New("unknown reference list")

type ReferenceStorage interface {
	ListReference(ctx context.Context, kind storage.ReferenceKind) ([]storage.ReferenceEntry, error)
}

// Loader fills the drop-downs of the record forms and filters.
type Loader struct {
	storage ReferenceStorage
}

func NewLoader(storage ReferenceStorage) *Loader {
	return &Loader{storage: storage}
}

func (l *Loader) Load(ctx context.Context, kind storage.ReferenceKind) ([]storage.ReferenceEntry, error) {
	const op = "service.reference.Load"

	if !kind.Valid() {
		return nil, fmt.Errorf("%s: %q: %w", op, kind, ErrUnknownKind)
	}

	entries, err := l.storage.ListReference(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if entries == nil {
		entries = []storage.ReferenceEntry{}
	}
	return entries, nil
}

// LoadAll fetches the five lists concurrently. One failing list fails the call.
func (l *Loader) LoadAll(ctx context.Context) (storage.ReferenceLists, error) {
	const op = "service.reference.LoadAll"

	var lists storage.ReferenceLists
	targets := map[storage.ReferenceKind]*[]storage.ReferenceEntry{
		storage.KindParts:       &lists.Parts,
		storage.KindMachines:    &lists.Machines,
		storage.KindOperators:   &lists.Operators,
		storage.KindSupervisors: &lists.Supervisors,
		storage.KindShifts:      &lists.Shifts,
	}

	g, gctx := errgroup.WithContext(ctx)
	for kind, dst := range targets {
		g.Go(func() error {
			entries, err := l.Load(gctx, kind)
			if err != nil {
				return err
			}
			*dst = entries
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return storage.ReferenceLists{}, fmt.Errorf("%s: %w", op, err)
	}
	return lists, nil
}
