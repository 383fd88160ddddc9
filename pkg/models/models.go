package models

// Paper represents a publication record. Only the columns below are read
// or written; the table needs no timestamp columns.
type Paper struct {
	ID     int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Title  string `json:"title" gorm:"not null"`
	Author string `json:"author" gorm:"not null"`
}

// TableName pins the table name regardless of naming strategy
func (Paper) TableName() string { return "papers" }

// Footnote represents an annotation attached to a paper by paper_id.
// The reference is not verified.
type Footnote struct {
	ID      int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Note    string `json:"note" gorm:"not null"`
	PaperID int64  `json:"paper_id" gorm:"column:paper_id;index"`
}

func (Footnote) TableName() string { return "footnotes" }

// CreatePaperRequest is the body of POST /api/v1/papers, sent as JSON or
// url-encoded form. Field order is the order required fields are checked in.
type CreatePaperRequest struct {
	Title  string `json:"title" form:"title" validate:"required"`
	Author string `json:"author" form:"author" validate:"required"`
}

// ExpectedFormat describes the body in validation messages
func (CreatePaperRequest) ExpectedFormat() string {
	return "{ title: <String>, author: <String> }"
}

// Paper converts the request into a row ready for insertion
func (r *CreatePaperRequest) Paper() *Paper {
	return &Paper{Title: r.Title, Author: r.Author}
}

// CreateFootnoteRequest is the body of POST /api/v1/footnotes
type CreateFootnoteRequest struct {
	Note    string `json:"note" form:"note" validate:"required"`
	PaperID int64  `json:"paper_id" form:"paper_id" validate:"required"`
}

func (CreateFootnoteRequest) ExpectedFormat() string {
	return "{ note: <String>, paper_id: <Integer> }"
}

func (r *CreateFootnoteRequest) Footnote() *Footnote {
	return &Footnote{Note: r.Note, PaperID: r.PaperID}
}

// IDResponse is returned by create endpoints
type IDResponse struct {
	ID int64 `json:"id"`
}
