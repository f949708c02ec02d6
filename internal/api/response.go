package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/resenahub/resenahub/pkg/logging"
)

// OK writes a success payload. Every success response carries
// "success": true alongside the handler's fields.
func OK(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Fail converts an error to the failure payload. Unexpected errors are
// logged with the request context before being flattened to a generic
// message.
func Fail(c *gin.Context, err error) {
	apiErr := classify(err)
	if apiErr.Status >= http.StatusInternalServerError {
		logging.GetLogger().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(ContextRequestID)),
			zap.Error(err))
	}
	c.JSON(apiErr.Status, gin.H{
		"success": false,
		"error":   apiErr.Message,
	})
}

// FailValidation writes a per-field failure payload for form errors
func FailValidation(c *gin.Context, errs map[string][]string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"errors":  errs,
	})
}

// BindJSON decodes and validates a JSON body. On a validation failure
// it writes the per-field payload and returns false; handlers just
// return.
func BindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			FailValidation(c, fieldErrors(verrs))
			return false
		}
		Fail(c, ErrBadPayload)
		return false
	}
	return true
}

// fieldErrors flattens validator errors into field -> messages
func fieldErrors(verrs validator.ValidationErrors) map[string][]string {
	out := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		out[field] = append(out[field], validationMessage(fe))
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return "value is too long (max " + fe.Param() + ")"
	case "min":
		return "value is too short (min " + fe.Param() + ")"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "invalid value"
}
