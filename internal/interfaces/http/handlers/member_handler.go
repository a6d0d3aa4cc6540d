package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/volatiletech/null/v8"

	"assembly-directory.backend/internal/domain/entities"
	domainerrors "assembly-directory.backend/internal/domain/errors"
	"assembly-directory.backend/internal/interfaces/http/response"
	"assembly-directory.backend/internal/usecases"
)

// Multipart file field names
const (
	ImageField     = "image"
	PartyLogoField = "partyLogo"
)

type MemberHandler struct {
	memberUsecase *usecases.MemberUsecase
}

func NewMemberHandler(memberUsecase *usecases.MemberUsecase) *MemberHandler {
	return &MemberHandler{memberUsecase: memberUsecase}
}

// ListMembers returns members, optionally filtered by session.
// GET /api/members
func (h *MemberHandler) ListMembers(c *gin.Context) {
	var query entities.MemberQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	items, err := h.memberUsecase.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// GetFilterOptions returns the distinct session names and dates.
// GET /api/members/filters
func (h *MemberHandler) GetFilterOptions(c *gin.Context) {
	opts, err := h.memberUsecase.FilterOptions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, opts)
}

// GetMember returns a single member.
// GET /api/members/:id
func (h *MemberHandler) GetMember(c *gin.Context) {
	member, err := h.memberUsecase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, member)
}

// CreateMember creates a member from JSON or multipart form data.
// POST /api/members
func (h *MemberHandler) CreateMember(c *gin.Context) {
	fields, files, err := bindMemberRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	member, err := h.memberUsecase.Create(c.Request.Context(), fields, files)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, member)
}

// UpdateMember replaces the supplied fields of a member.
// PUT /api/members/:id
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	fields, files, err := bindMemberRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	member, err := h.memberUsecase.Update(c.Request.Context(), c.Param("id"), fields, files)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, member)
}

// DeleteMember deletes a member.
// DELETE /api/members/:id
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	if err := h.memberUsecase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Member deleted successfully"})
}

type memberFieldTarget struct {
	key string
	out func(*entities.MemberFields) *null.String
}

var memberFieldTargets = []memberFieldTarget{
	{"name", func(f *entities.MemberFields) *null.String { return &f.Name }},
	{"constituency", func(f *entities.MemberFields) *null.String { return &f.Constituency }},
	{"sessionName", func(f *entities.MemberFields) *null.String { return &f.SessionName }},
	{"sessionDate", func(f *entities.MemberFields) *null.String { return &f.SessionDate }},
	{"speechGiven", func(f *entities.MemberFields) *null.String { return &f.SpeechGiven }},
	{"timeTaken", func(f *entities.MemberFields) *null.String { return &f.TimeTaken }},
	{"partyName", func(f *entities.MemberFields) *null.String { return &f.PartyName }},
	{"imageUrl", func(f *entities.MemberFields) *null.String { return &f.ImageURL }},
	{"partyLogoUrl", func(f *entities.MemberFields) *null.String { return &f.PartyLogoURL }},
}

// bindMemberRequest reads member fields from a multipart form or a JSON body.
// Only keys present in the request are marked as supplied.
func bindMemberRequest(c *gin.Context) (entities.MemberFields, usecases.Attachments, error) {
	var fields entities.MemberFields
	var files usecases.Attachments

	switch c.ContentType() {
	case binding.MIMEMultipartPOSTForm:
		form, err := c.MultipartForm()
		if err != nil {
			return fields, files, domainerrors.BadRequest("Invalid form data")
		}
		bindFormValues(&fields, form.Value)
		files.Image = fileUpload(form, ImageField)
		files.PartyLogo = fileUpload(form, PartyLogoField)
		return fields, files, nil
	case binding.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return fields, files, domainerrors.BadRequest("Invalid form data")
		}
		bindFormValues(&fields, c.Request.PostForm)
		return fields, files, nil
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		return fields, files, domainerrors.BadRequest("Invalid request body")
	}
	for _, target := range memberFieldTargets {
		raw, ok := body[target.key]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case string:
			*target.out(&fields) = null.StringFrom(v)
		case float64:
			*target.out(&fields) = null.StringFrom(strconv.FormatFloat(v, 'f', -1, 64))
		default:
			return fields, files, domainerrors.BadRequest(target.key + " must be a string or number")
		}
	}
	return fields, files, nil
}

func bindFormValues(fields *entities.MemberFields, values map[string][]string) {
	for _, target := range memberFieldTargets {
		if v, ok := values[target.key]; ok && len(v) > 0 {
			*target.out(fields) = null.StringFrom(v[0])
		}
	}
}

func fileUpload(form *multipart.Form, field string) *entities.FileUpload {
	headers := form.File[field]
	if len(headers) == 0 || headers[0] == nil {
		return nil
	}
	fh := headers[0]
	return &entities.FileUpload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
