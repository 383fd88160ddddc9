package api

import (
	"net/http"

	"github.com/Aidin1998/publications/api/responses"
	"github.com/Aidin1998/publications/pkg/errors"
	"github.com/Aidin1998/publications/pkg/models"
	"github.com/Aidin1998/publications/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

func (s *Server) greeting(c *gin.Context) {
	c.String(http.StatusOK, "Hello, %s", s.cfg.Title)
}

func (s *Server) healthCheck(c *gin.Context) {
	if err := s.service.Ping(c.Request.Context()); err != nil {
		responses.Unavailable(c, errors.PublicMessage(err))
		return
	}
	responses.Healthy(c)
}

func (s *Server) listPapers(c *gin.Context) {
	papers, err := s.service.ListPapers(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	responses.OK(c, papers)
}

func (s *Server) getPapersByID(c *gin.Context) {
	papers, err := s.service.PapersByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	responses.OK(c, papers)
}

func (s *Server) createPaper(c *gin.Context) {
	var req models.CreatePaperRequest
	if err := s.bindObject(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	id, err := s.service.CreatePaper(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	responses.Created(c, id)
}

func (s *Server) listFootnotes(c *gin.Context) {
	footnotes, err := s.service.ListFootnotes(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	responses.OK(c, footnotes)
}

func (s *Server) getFootnotesByPaperID(c *gin.Context) {
	footnotes, err := s.service.FootnotesByPaperID(c.Request.Context(), c.Param("paper_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	responses.OK(c, footnotes)
}

func (s *Server) createFootnote(c *gin.Context) {
	var req models.CreateFootnoteRequest
	if err := s.bindObject(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	id, err := s.service.CreateFootnote(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	responses.Created(c, id)
}

// bindObject reads a JSON or url-encoded body into dst. An empty body is {}.
// Values of another type are coerced where possible; see validation.Populate.
func (s *Server) bindObject(c *gin.Context, dst validation.Described) error {
	if limit := s.cfg.Server.MaxBodyBytes; limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	var members map[string]any
	tag := "json"
	if c.ContentType() == binding.MIMEPOSTForm {
		form := map[string]string{}
		if err := c.ShouldBindWith(&form, binding.FormPost); err != nil {
			return bodyError(err)
		}
		members = validation.FormMembers(form)
		tag = "form"
	} else {
		body, err := c.GetRawData()
		if err != nil {
			return bodyError(err)
		}
		if members, err = validation.DecodeJSON(body); err != nil {
			s.logger.Debug("Rejected request body", zap.String("path", c.FullPath()), zap.Error(err))
			return errors.Invalid.Explain("request body must be a JSON object").Wrap(err)
		}
	}

	err := validation.Populate(members, dst, tag)
	var typeErr *validation.TypeError
	if errors.As(err, &typeErr) {
		return validation.WrongType(dst, typeErr)
	}
	return err
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errors.TooLarge.Explain("request entity too large").Wrap(err)
	}
	return errors.Invalid.Explain("could not read request body").Wrap(err)
}
