package publications

import (
	"context"

	"github.com/Aidin1998/publications/common/dbutil"
	"github.com/Aidin1998/publications/internal/database"
	"github.com/Aidin1998/publications/pkg/models"
	"gorm.io/gorm"
)

// Store is the query surface the service needs: select all, select by
// equality and insert returning the generated id.
type Store interface {
	ListPapers(ctx context.Context) ([]models.Paper, error)
	PapersByID(ctx context.Context, id int64) ([]models.Paper, error)
	CreatePaper(ctx context.Context, paper *models.Paper) (int64, error)
	ListFootnotes(ctx context.Context) ([]models.Footnote, error)
	FootnotesByPaperID(ctx context.Context, paperID int64) ([]models.Footnote, error)
	CreateFootnote(ctx context.Context, footnote *models.Footnote) (int64, error)
	Ping(ctx context.Context) error
}

// GormStore implements Store on top of gorm
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ListPapers(ctx context.Context) ([]models.Paper, error) {
	return dbutil.Select[models.Paper](ctx, s.db)
}

func (s *GormStore) PapersByID(ctx context.Context, id int64) ([]models.Paper, error) {
	return dbutil.Where[models.Paper](ctx, s.db, "id", id)
}

func (s *GormStore) CreatePaper(ctx context.Context, paper *models.Paper) (int64, error) {
	if err := dbutil.Insert(ctx, s.db, paper); err != nil {
		return 0, err
	}
	return paper.ID, nil
}

func (s *GormStore) ListFootnotes(ctx context.Context) ([]models.Footnote, error) {
	return dbutil.Select[models.Footnote](ctx, s.db)
}

func (s *GormStore) FootnotesByPaperID(ctx context.Context, paperID int64) ([]models.Footnote, error) {
	return dbutil.Where[models.Footnote](ctx, s.db, "paper_id", paperID)
}

func (s *GormStore) CreateFootnote(ctx context.Context, footnote *models.Footnote) (int64, error) {
	if err := dbutil.Insert(ctx, s.db, footnote); err != nil {
		return 0, err
	}
	return footnote.ID, nil
}

// Ping checks the connection pool can reach the database
func (s *GormStore) Ping(ctx context.Context) error {
	return dbutil.WrapError(database.Ping(ctx, s.db))
}
