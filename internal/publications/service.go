package publications

import (
	"context"
	"strconv"

	"github.com/Aidin1998/publications/pkg/errors"
	"github.com/Aidin1998/publications/pkg/metrics"
	"github.com/Aidin1998/publications/pkg/models"
	"github.com/Aidin1998/publications/pkg/validation"
	"go.uber.org/zap"
)

// Service implements the papers and footnotes operations
type Service struct {
	logger    *zap.Logger
	store     Store
	validator *validation.Validator
}

// NewService creates a new Service
func NewService(logger *zap.Logger, store Store) *Service {
	return &Service{
		logger:    logger,
		store:     store,
		validator: validation.NewValidator(),
	}
}

// ListPapers returns every paper, possibly none
func (s *Service) ListPapers(ctx context.Context) ([]models.Paper, error) {
	papers, err := s.store.ListPapers(ctx)
	if err != nil {
		return nil, s.storeError("list_papers", err)
	}
	return papers, nil
}

// PapersByID returns the papers whose id equals rawID. No match, including
// an id that is not an integer, is a not-found error.
func (s *Service) PapersByID(ctx context.Context, rawID string) ([]models.Paper, error) {
	notFound := errors.NotFound.Explain("Could not find paper with id %s", rawID)

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, notFound
	}
	papers, err := s.store.PapersByID(ctx, id)
	if err != nil {
		return nil, s.storeError("papers_by_id", err)
	}
	if len(papers) == 0 {
		return nil, notFound
	}
	return papers, nil
}

// CreatePaper validates req and inserts it, returning the generated id
func (s *Service) CreatePaper(ctx context.Context, req *models.CreatePaperRequest) (int64, error) {
	if err := s.validate(req); err != nil {
		return 0, err
	}
	id, err := s.store.CreatePaper(ctx, req.Paper())
	if err != nil {
		return 0, s.storeError("create_paper", err)
	}
	s.logger.Debug("Paper created", zap.Int64("id", id))
	return id, nil
}

// ListFootnotes returns every footnote, possibly none
func (s *Service) ListFootnotes(ctx context.Context) ([]models.Footnote, error) {
	footnotes, err := s.store.ListFootnotes(ctx)
	if err != nil {
		return nil, s.storeError("list_footnotes", err)
	}
	return footnotes, nil
}

// FootnotesByPaperID returns the footnotes attached to a paper. The paper
// itself is not looked up, so an unknown paper and a paper without footnotes
// are the same not-found error.
func (s *Service) FootnotesByPaperID(ctx context.Context, rawPaperID string) ([]models.Footnote, error) {
	notFound := errors.NotFound.Explain("Could not find footnotes with paper_id %s", rawPaperID)

	paperID, err := strconv.ParseInt(rawPaperID, 10, 64)
	if err != nil {
		return nil, notFound
	}
	footnotes, err := s.store.FootnotesByPaperID(ctx, paperID)
	if err != nil {
		return nil, s.storeError("footnotes_by_paper_id", err)
	}
	if len(footnotes) == 0 {
		return nil, notFound
	}
	return footnotes, nil
}

// CreateFootnote validates req and inserts it, returning the generated id
func (s *Service) CreateFootnote(ctx context.Context, req *models.CreateFootnoteRequest) (int64, error) {
	if err := s.validate(req); err != nil {
		return 0, err
	}
	id, err := s.store.CreateFootnote(ctx, req.Footnote())
	if err != nil {
		return 0, s.storeError("create_footnote", err)
	}
	s.logger.Debug("Footnote created", zap.Int64("id", id), zap.Int64("paper_id", req.PaperID))
	return id, nil
}

// Ping reports whether the store is reachable
func (s *Service) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return s.storeError("ping", err)
	}
	return nil
}

// validate reports the first missing required field of req, in declared order
func (s *Service) validate(req validation.Described) error {
	err := s.validator.ValidateStruct(req)
	if err == nil {
		return nil
	}
	var verrs validation.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Invalid.Explain("invalid request").Wrap(err)
	}
	first := verrs.First()
	return validation.MissingProperty(req, first.Field, first.Tag, first.Message)
}

// storeError makes sure err carries a store kind, logs the cause and counts it
func (s *Service) storeError(op string, err error) error {
	kind := errors.KindOf(err)
	if !errors.IsStoreKind(kind) {
		err = errors.StoreFailure.Explain("database operation failed").Wrap(err)
		kind = errors.KindStoreFailure
	}
	metrics.StoreErrors.WithLabelValues(op, string(kind)).Inc()
	s.logger.Error("Store operation failed",
		zap.String("operation", op),
		zap.String("kind", string(kind)),
		zap.Error(err))
	return err
}
