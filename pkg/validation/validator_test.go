package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Aidin1998/publications/pkg/models"
	"github.com/Aidin1998/publications/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStructReportsFieldsInDeclaredOrder(t *testing.T) {
	v := validation.NewValidator()

	err := v.ValidateStruct(&models.CreatePaperRequest{})
	var verrs validation.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 2)
	assert.Equal(t, "title", verrs.First().Field)
	assert.Equal(t, "required", verrs.First().Tag)
	assert.Equal(t, "author", verrs[1].Field)
}

func TestValidateStructZeroIntIsMissing(t *testing.T) {
	v := validation.NewValidator()

	err := v.ValidateStruct(&models.CreateFootnoteRequest{Note: "see p. 4"})
	var verrs validation.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "paper_id", verrs.First().Field)

	assert.NoError(t, v.ValidateStruct(&models.CreateFootnoteRequest{Note: "see p. 4", PaperID: 3}))
}

func populateJSON(t *testing.T, body string, dst any) error {
	t.Helper()
	members, err := validation.DecodeJSON([]byte(body))
	require.NoError(t, err)
	return validation.Populate(members, dst, "json")
}

func TestPopulate(t *testing.T) {
	var req models.CreatePaperRequest
	require.NoError(t, populateJSON(t, `{"title":"A","author":"B","year":1936}`, &req))
	assert.Equal(t, "A", req.Title)
	assert.Equal(t, "B", req.Author)
}

func TestDecodeJSONEmptyBody(t *testing.T) {
	members, err := validation.DecodeJSON([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, members)

	var req models.CreatePaperRequest
	require.NoError(t, validation.Populate(members, &req, "json"))
	assert.Empty(t, req.Title)
}

func TestPopulateCoercesScalars(t *testing.T) {
	var paper models.CreatePaperRequest
	require.NoError(t, populateJSON(t, `{"title":123,"author":true}`, &paper))
	assert.Equal(t, "123", paper.Title)
	assert.Equal(t, "true", paper.Author)

	cases := map[string]int64{
		`{"note":"x","paper_id":"1"}`:   1,
		`{"note":"x","paper_id":" 42 "}`: 42,
		`{"note":"x","paper_id":7.0}`:   7,
		`{"note":"x","paper_id":-3}`:    -3,
	}
	for body, want := range cases {
		var req models.CreateFootnoteRequest
		require.NoError(t, populateJSON(t, body, &req), body)
		assert.Equal(t, want, req.PaperID, body)
	}
}

func TestPopulateFalsyValuesStayZero(t *testing.T) {
	var paper models.CreatePaperRequest
	require.NoError(t, populateJSON(t, `{"title":false,"author":null}`, &paper))
	assert.Empty(t, paper.Title)
	assert.Empty(t, paper.Author)

	var footnote models.CreateFootnoteRequest
	require.NoError(t, populateJSON(t, `{"note":"","paper_id":0}`, &footnote))
	assert.Empty(t, footnote.Note)
	assert.Zero(t, footnote.PaperID)
}

func TestPopulateTypeErrors(t *testing.T) {
	cases := map[string]string{
		`{"title":{"a":1},"author":"B"}`: "title",
		`{"title":"A","author":["B"]}`:    "author",
		`{"note":"x","paper_id":"abc"}`:  "paper_id",
		`{"note":"x","paper_id":1.5}`:    "paper_id",
		`{"note":"x","paper_id":true}`:   "paper_id",
	}
	for body, field := range cases {
		var dst any = &models.CreatePaperRequest{}
		if strings.Contains(body, "note") {
			dst = &models.CreateFootnoteRequest{}
		}
		err := populateJSON(t, body, dst)
		var typeErr *validation.TypeError
		require.True(t, errors.As(err, &typeErr), body)
		assert.Equal(t, field, typeErr.Field, body)
	}
}

func TestPopulateEarlierMissingFieldWins(t *testing.T) {
	var req models.CreateFootnoteRequest
	require.NoError(t, populateJSON(t, `{"paper_id":"abc"}`, &req))
	assert.Empty(t, req.Note)
	assert.Zero(t, req.PaperID)
}

func TestPopulateFormMembers(t *testing.T) {
	var req models.CreateFootnoteRequest
	members := validation.FormMembers(map[string]string{"note": "ibid.", "paper_id": "12"})
	require.NoError(t, validation.Populate(members, &req, "form"))
	assert.Equal(t, "ibid.", req.Note)
	assert.Equal(t, int64(12), req.PaperID)
}

func TestPopulateNeedsStructPointer(t *testing.T) {
	assert.Error(t, validation.Populate(map[string]any{}, models.CreatePaperRequest{}, "json"))
}

func TestDecodeJSONRejectsNonObjects(t *testing.T) {
	for _, body := range []string{`[]`, `"paper"`, `{"title":`, `12`, `null`, `{"title":"A"} {}`} {
		_, err := validation.DecodeJSON([]byte(body))
		assert.ErrorIs(t, err, validation.ErrMalformedBody, body)
	}
}

func TestWrongTypeMessage(t *testing.T) {
	err := validation.WrongType(models.CreateFootnoteRequest{}, &validation.TypeError{Field: "paper_id", Expected: "Integer"})
	assert.Equal(t,
		`[validation] Expected format: { note: <String>, paper_id: <Integer> }. The "paper_id" property must be of type <Integer>. (paper_id must be of type Integer)`,
		err.Error())
}
