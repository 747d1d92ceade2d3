package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"production-tracker/internal/live"
	"production-tracker/internal/storage"
)

var ErrInvalidRecord = errors.New("invalid record")

type RecordStorage interface {
	CreateRecord(ctx context.Context, user string, in storage.RecordInput) (storage.Record, error)
	GetRecord(ctx context.Context, id string) (storage.Record, error)
	UpdateRecord(ctx context.Context, id string, in storage.RecordInput) (storage.Record, error)
	DeleteRecord(ctx context.Context, id string) error
	ListRecords(ctx context.Context, q storage.RecordQuery) ([]storage.Record, error)
}

// Notifier is told after every successful write so live queries re-run.
type Notifier interface {
	Notify()
}

type Service struct {
	log      *slog.Logger
	storage  RecordStorage
	notifier Notifier
	validate *validator.Validate
	loc      *time.Location
	now      func() time.Time
}

func NewService(log *slog.Logger, storage RecordStorage, notifier Notifier, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		log:      log,
		storage:  storage,
		notifier: notifier,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		loc:      loc,
		now:      time.Now,
	}
}

func (s *Service) Create(ctx context.Context, user string, in storage.RecordInput) (storage.Record, error) {
	const op = "service.records.Create"

	in, err := s.check(in)
	if err != nil {
		return storage.Record{}, err
	}

	rec, err := s.storage.CreateRecord(ctx, user, in)
	if err != nil {
		return storage.Record{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("record created", slog.String("id", rec.ID), slog.String("part", rec.Part), slog.Int64("quantity", int64(rec.Quantity)))
	s.notifier.Notify()
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id string) (storage.Record, error) {
	const op = "service.records.Get"

	rec, err := s.storage.GetRecord(ctx, id)
	if err != nil {
		return storage.Record{}, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// Update replaces the editable fields. Timestamp and author are kept.
func (s *Service) Update(ctx context.Context, id string, in storage.RecordInput) (storage.Record, error) {
	const op = "service.records.Update"

	in, err := s.check(in)
	if err != nil {
		return storage.Record{}, err
	}

	rec, err := s.storage.UpdateRecord(ctx, id, in)
	if err != nil {
		return storage.Record{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("record updated", slog.String("id", id))
	s.notifier.Notify()
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	const op = "service.records.Delete"

	if err := s.storage.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("record deleted", slog.String("id", id))
	s.notifier.Notify()
	return nil
}

// List is the one-shot form of a live query with the same filter.
func (s *Service) List(ctx context.Context, filter live.Filter) ([]storage.Record, error) {
	const op = "service.records.List"

	recs, err := s.storage.ListRecords(ctx, filter.Query(s.now().In(s.loc)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if recs == nil {
		recs = []storage.Record{}
	}
	return recs, nil
}

func (s *Service) check(in storage.RecordInput) (storage.RecordInput, error) {
	in.Part = strings.TrimSpace(in.Part)
	in.Machine = strings.TrimSpace(in.Machine)
	in.Operator = strings.TrimSpace(in.Operator)
	in.Supervisor = strings.TrimSpace(in.Supervisor)
	in.Shift = storage.Shift(strings.TrimSpace(string(in.Shift)))

	err := s.validate.Struct(in)
	if err == nil {
		return in, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return in, err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return in, fmt.Errorf("%w: missing %s", ErrInvalidRecord, strings.Join(fields, ", "))
}
