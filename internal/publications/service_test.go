package publications_test

import (
	"context"
	stderrors "errors"
	"strconv"
	"testing"

	"github.com/Aidin1998/publications/internal/publications"
	"github.com/Aidin1998/publications/pkg/errors"
	"github.com/Aidin1998/publications/pkg/models"
	"github.com/Aidin1998/publications/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// failingStore fails every operation with err and counts calls
type failingStore struct {
	err   error
	calls int
}

func (s *failingStore) ListPapers(context.Context) ([]models.Paper, error) {
	s.calls++
	return nil, s.err
}
func (s *failingStore) PapersByID(context.Context, int64) ([]models.Paper, error) {
	s.calls++
	return nil, s.err
}
func (s *failingStore) CreatePaper(context.Context, *models.Paper) (int64, error) {
	s.calls++
	return 0, s.err
}
func (s *failingStore) ListFootnotes(context.Context) ([]models.Footnote, error) {
	s.calls++
	return nil, s.err
}
func (s *failingStore) FootnotesByPaperID(context.Context, int64) ([]models.Footnote, error) {
	s.calls++
	return nil, s.err
}
func (s *failingStore) CreateFootnote(context.Context, *models.Footnote) (int64, error) {
	s.calls++
	return 0, s.err
}
func (s *failingStore) Ping(context.Context) error {
	s.calls++
	return s.err
}

func newService(t *testing.T) (*publications.Service, *publications.GormStore) {
	store := publications.NewGormStore(testutil.NewTestDB(t))
	return publications.NewService(zap.NewNop(), store), store
}

func TestCreatePaperValidationOrder(t *testing.T) {
	store := &failingStore{err: stderrors.New("must not be reached")}
	svc := publications.NewService(zap.NewNop(), store)
	ctx := context.Background()

	cases := []struct {
		name  string
		req   models.CreatePaperRequest
		field string
	}{
		{"empty", models.CreatePaperRequest{}, "title"},
		{"author only", models.CreatePaperRequest{Author: "X"}, "title"},
		{"title only", models.CreatePaperRequest{Title: "X"}, "author"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreatePaper(ctx, &tc.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.Unprocessable))
			assert.Equal(t,
				`Expected format: { title: <String>, author: <String> }. You're missing a "`+tc.field+`" property.`,
				errors.PublicMessage(err))
		})
	}
	assert.Zero(t, store.calls, "validation failures must not reach the store")
}

func TestCreateFootnoteValidationOrder(t *testing.T) {
	store := &failingStore{err: stderrors.New("must not be reached")}
	svc := publications.NewService(zap.NewNop(), store)
	ctx := context.Background()

	_, err := svc.CreateFootnote(ctx, &models.CreateFootnoteRequest{PaperID: 1})
	assert.Equal(t, `Expected format: { note: <String>, paper_id: <Integer> }. You're missing a "note" property.`, errors.PublicMessage(err))

	_, err = svc.CreateFootnote(ctx, &models.CreateFootnoteRequest{Note: "ibid."})
	assert.Equal(t, `Expected format: { note: <String>, paper_id: <Integer> }. You're missing a "paper_id" property.`, errors.PublicMessage(err))
	assert.Equal(t, "paper_id", err.(*errors.Error).Fields[0].Field)

	assert.Zero(t, store.calls)
}

func TestPaperRoundTrip(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id, err := svc.CreatePaper(ctx, &models.CreatePaperRequest{Title: "A", Author: "B"})
	require.NoError(t, err)
	assert.NotZero(t, id)

	papers, err := svc.PapersByID(ctx, strconv.FormatInt(id, 10))
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, id, papers[0].ID)
	assert.Equal(t, "A", papers[0].Title)
	assert.Equal(t, "B", papers[0].Author)
}

func TestListPapersEmpty(t *testing.T) {
	svc, _ := newService(t)

	papers, err := svc.ListPapers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, papers)
	assert.Empty(t, papers)
}

func TestPapersByIDNotFound(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, id := range []string{"99999", "abc"} {
		_, err := svc.PapersByID(ctx, id)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.NotFound))
		assert.Equal(t, "Could not find paper with id "+id, errors.PublicMessage(err))
	}
}

func TestFootnotesByPaperID(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	paperID, err := svc.CreatePaper(ctx, &models.CreatePaperRequest{Title: "A", Author: "B"})
	require.NoError(t, err)
	_, err = svc.CreateFootnote(ctx, &models.CreateFootnoteRequest{Note: "first", PaperID: paperID})
	require.NoError(t, err)
	_, err = svc.CreateFootnote(ctx, &models.CreateFootnoteRequest{Note: "second", PaperID: paperID})
	require.NoError(t, err)
	_, err = svc.CreateFootnote(ctx, &models.CreateFootnoteRequest{Note: "elsewhere", PaperID: paperID + 1})
	require.NoError(t, err, "paper_id references are not verified")

	footnotes, err := svc.FootnotesByPaperID(ctx, strconv.FormatInt(paperID, 10))
	require.NoError(t, err)
	require.Len(t, footnotes, 2)
	assert.Equal(t, "first", footnotes[0].Note)
	assert.Equal(t, "second", footnotes[1].Note)

	all, err := svc.ListFootnotes(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.FootnotesByPaperID(ctx, "42")
	assert.Equal(t, "Could not find footnotes with paper_id 42", errors.PublicMessage(err))
}

func TestStoreFailuresAreTyped(t *testing.T) {
	store := &failingStore{err: stderrors.New(`pq: relation "papers" does not exist`)}
	svc := publications.NewService(zap.NewNop(), store)
	ctx := context.Background()

	_, err := svc.ListPapers(ctx)
	assert.Equal(t, errors.KindStoreFailure, errors.KindOf(err))
	assert.NotContains(t, errors.PublicMessage(err), "relation")

	_, err = svc.PapersByID(ctx, "1")
	assert.Equal(t, errors.KindStoreFailure, errors.KindOf(err))

	_, err = svc.CreatePaper(ctx, &models.CreatePaperRequest{Title: "A", Author: "B"})
	assert.Equal(t, errors.KindStoreFailure, errors.KindOf(err))

	_, err = svc.FootnotesByPaperID(ctx, "1")
	assert.Equal(t, errors.KindStoreFailure, errors.KindOf(err))

	assert.Error(t, svc.Ping(ctx))
}

func TestStoreFailureKeepsStoreKind(t *testing.T) {
	store := &failingStore{err: errors.StoreUnavailable.Explain("database unavailable")}
	svc := publications.NewService(zap.NewNop(), store)

	_, err := svc.ListFootnotes(context.Background())
	assert.Equal(t, errors.KindStoreUnavailable, errors.KindOf(err))
}

func TestServiceOnBrokenDatabase(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := publications.NewService(zap.NewNop(), publications.NewGormStore(db))
	testutil.BreakDB(t, db)

	_, err := svc.CreateFootnote(context.Background(), &models.CreateFootnoteRequest{Note: "n", PaperID: 1})
	require.Error(t, err)
	assert.True(t, errors.IsStoreKind(errors.KindOf(err)))
}
