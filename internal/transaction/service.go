package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

const defaultBatchLimit = 4

type Service struct {
	repo       Repository
	batchLimit int
	now        func() time.Time
}

// NewService creates a transaction service. batchLimit caps the number of
// concurrent writes issued by CreateBatch; values below 1 use the default.
func NewService(repo Repository, batchLimit int) *Service {
	if batchLimit < 1 {
		batchLimit = defaultBatchLimit
	}

	return &Service{
		repo:       repo,
		batchLimit: batchLimit,
		now:        time.Now,
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	params = params.Normalize(s.now())
	if err := params.Validate(); err != nil {
		return nil, err
	}

	tx := &Transaction{
		Title:    params.Title,
		Amount:   params.Amount,
		Type:     params.Type,
		Category: params.Category,
		Date:     params.Date,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// List returns every stored transaction, newest date first.
func (s *Service) List(ctx context.Context) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// Delete removes a transaction permanently. Returns ErrNotFound if the id does not exist.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

// BatchFailure describes a single item of a batch that could not be stored.
type BatchFailure struct {
	Index  int
	Params CreateParams
	Err    error
}

// BatchResult reports the outcome of every item of a batch.
// Created keeps the input order of the successful items.
type BatchResult struct {
	Created []*Transaction
	Failed  []BatchFailure
}

// CreateBatch stores each candidate independently. A failing item never
// aborts or rolls back the others; every outcome is reported.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) *BatchResult {
	if len(params) == 0 {
		return &BatchResult{}
	}

	created := make([]*Transaction, len(params))
	errs := make([]error, len(params))

	var g errgroup.Group

	g.SetLimit(s.batchLimit)

	for i, p := range params {
		g.Go(func() error {
			tx, err := s.Create(ctx, p)
			if err != nil {
				errs[i] = fmt.Errorf("item %d: %w", i, err)
				return nil
			}

			created[i] = tx

			return nil
		})
	}

	_ = g.Wait()

	result := &BatchResult{}

	for i := range params {
		if errs[i] != nil {
			result.Failed = append(result.Failed, BatchFailure{Index: i, Params: params[i], Err: errs[i]})
			continue
		}

		result.Created = append(result.Created, created[i])
	}

	return result
}
