package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/climasgama/pos-terminal/internal/application/service"
	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/presentation/http/dto/response"
	"github.com/climasgama/pos-terminal/internal/presentation/http/middleware"
	"github.com/climasgama/pos-terminal/pkg/apperror"
	"github.com/climasgama/pos-terminal/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// GetSession extracts the cashier session set by the auth middleware. It
// answers 401 itself when there is none.
func GetSession(c *gin.Context) (entity.Session, bool) {
	session, ok := middleware.GetSession(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
	}
	return session, ok
}

// bindError turns a binding failure into a response. Validator failures keep
// one entry per field.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperror.FieldError{
				Field:   strings.ToLower(fe.Field()),
				Message: "failed on the '" + fe.Tag() + "' rule",
			})
		}
		response.Error(c, apperror.NewValidationError(fields))
		return
	}
	response.BadRequest(c, "Invalid request: "+err.Error())
}

// paramID reads a positive numeric path parameter.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func pageParams(page, perPage int) *pagination.PaginationParams {
	params := pagination.DefaultPagination()
	if page > 0 {
		params.Page = page
	}
	if perPage > 0 {
		params.PerPage = perPage
	}
	params.Validate()
	return params
}

func sendFile(c *gin.Context, file *service.ExportedFile) {
	if file.Pages > 0 {
		c.Header("X-Page-Count", strconv.Itoa(file.Pages))
	}
	response.File(c, file.FileName, file.ContentType, file.Content)
}
