package httpapi

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lvillar/immodoc"
	"github.com/lvillar/immodoc/documents"
	"github.com/lvillar/immodoc/pageops"
)

// Messages returned when a request carries no record.
const (
	msgNoLease    = "Aucun contrat fourni"
	msgNoPayment  = "Aucun paiement fourni"
	msgNoLandlord = "Aucun bailleur fourni"
)

func (s *Server) contract(c *gin.Context) {
	var lease documents.Lease
	if !s.bindRecord(c, &lease, msgNoLease) {
		return
	}
	res, err := s.engine.Contract(c.Request.Context(), c.Param("agency"), &lease)
	s.sendDocument(c, res, err, msgNoLease)
}

func (s *Server) receipt(c *gin.Context) {
	var payment documents.Payment
	if !s.bindRecord(c, &payment, msgNoPayment) {
		return
	}
	res, err := s.engine.Receipt(c.Request.Context(), c.Param("agency"), &payment)
	s.sendDocument(c, res, err, msgNoPayment)
}

func (s *Server) mandate(c *gin.Context) {
	var landlord documents.Landlord
	if !s.bindRecord(c, &landlord, msgNoLandlord) {
		return
	}
	res, err := s.engine.Mandate(c.Request.Context(), c.Param("agency"), &landlord)
	s.sendDocument(c, res, err, msgNoLandlord)
}

// bindRecord decodes the request body into v. An empty body is answered
// with missing and false is returned.
func (s *Server) bindRecord(c *gin.Context, v any, missing string) bool {
	data, ok := s.readBody(c)
	if !ok {
		return false
	}
	if len(data) == 0 {
		s.fail(c, http.StatusBadRequest, ErrCodeMissingRecord, missing)
		return false
	}
	if err := documents.DecodeRecord(data, v); err != nil {
		s.fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return false
	}
	return true
}

func (s *Server) readBody(c *gin.Context) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(c, http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "request body too large")
			return nil, false
		}
		s.fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return nil, false
	}
	return data, true
}

func (s *Server) sendDocument(c *gin.Context, res *documents.Result, err error, missing string) {
	switch {
	case errors.Is(err, immodoc.ErrMissingInput):
		s.fail(c, http.StatusBadRequest, ErrCodeMissingRecord, missing)
		return
	case errors.Is(err, immodoc.ErrConfiguration):
		_ = c.Error(err)
		s.fail(c, http.StatusInternalServerError, ErrCodeConfiguration, err.Error())
		return
	case err != nil:
		_ = c.Error(err)
		s.fail(c, http.StatusInternalServerError, ErrCodeInternal, "document generation failed")
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.FileName}))
	c.Header("X-Document-Pages", strconv.Itoa(res.Pages))
	if res.Degraded {
		c.Header("X-Document-Degraded", "true")
	}
	if res.Location != nil && res.Location.URL != "" {
		c.Header("Content-Location", res.Location.URL)
	}
	c.Data(http.StatusOK, "application/pdf", res.Data)
}

func (s *Server) stamp(c *gin.Context) {
	data, ok := s.readBody(c)
	if !ok {
		return
	}
	if len(data) == 0 {
		s.fail(c, http.StatusBadRequest, ErrCodeMissingRecord, "Aucun document fourni")
		return
	}
	wm := pageops.TextWatermark{Text: c.Query("text")}
	var out bytes.Buffer
	if err := pageops.Stamp(&out, data, wm); err != nil {
		s.fail(c, http.StatusUnprocessableEntity, ErrCodeBadRequest, err.Error())
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": "duplicata.pdf"}))
	c.Data(http.StatusOK, "application/pdf", out.Bytes())
}

func (s *Server) listTemplates(c *gin.Context) {
	infos, err := s.templates.List()
	if err != nil {
		_ = c.Error(err)
		s.fail(c, http.StatusInternalServerError, ErrCodeInternal, "templates unavailable")
		return
	}
	out := make([]TemplateInfo, 0, len(infos))
	for _, info := range infos {
		out = append(out, TemplateInfo{ID: info.ID, Name: info.Name, External: info.External})
	}
	c.JSON(http.StatusOK, success(out))
}

func (s *Server) showTemplate(c *gin.Context) {
	name := c.Param("name")
	text, err := s.templates.Fetch(c.Request.Context(), name)
	if errors.Is(err, immodoc.ErrTemplateNotFound) {
		s.fail(c, http.StatusNotFound, ErrCodeNotFound, "template "+name+" not found")
		return
	}
	if err != nil {
		_ = c.Error(err)
		s.fail(c, http.StatusInternalServerError, ErrCodeInternal, "template unavailable")
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

func (s *Server) fail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, failure(code, message, c.GetString(RequestIDKey)))
}
