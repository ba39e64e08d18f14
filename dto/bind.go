package dto

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/dlsystem/blogbackend/apperr"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var fieldNamesOnce sync.Once

// useJSONFieldNames makes validation errors report the names clients send.
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
}

// Bind decodes the request body into req and validates it. Every missing
// field is reported in a single apperr.Validation error. An empty body is
// treated as an empty object.
func Bind(c *gin.Context, req interface{}) error {
	fieldNamesOnce.Do(useJSONFieldNames)

	var err error
	switch c.ContentType() {
	case binding.MIMEMultipartPOSTForm, binding.MIMEPOSTForm:
		err = c.ShouldBind(req)
	default:
		err = c.ShouldBindJSON(req)
		if errors.Is(err, io.EOF) {
			err = binding.Validator.ValidateStruct(req)
		}
	}
	return bindError(err)
}

func bindError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		missing := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			missing = append(missing, fe.Field())
		}
		return apperr.Validation(missing...)
	}
	return apperr.Invalid("malformed request body").WithCause(err)
}
