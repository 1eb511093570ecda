package httperrors

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
)

// HTTPError HTTP错误结构
type HTTPError struct {
	Code           *int64                 `json:"code"`
	Type           *string                `json:"type"`
	Title          *string                `json:"title"`
	Detail         string                 `json:"detail,omitempty"`
	Internal       error                  `json:"-"`
	AdditionalData map[string]interface{} `json:"-"`
}

func NewHTTPError(code int, errorType string, title string) *HTTPError {
	return &HTTPError{
		Code:  swag.Int64(int64(code)),
		Type:  swag.String(errorType),
		Title: swag.String(title),
	}
}

func NewHTTPErrorWithDetail(code int, errorType string, title string, detail string) *HTTPError {
	return &HTTPError{
		Code:   swag.Int64(int64(code)),
		Type:   swag.String(errorType),
		Title:  swag.String(title),
		Detail: detail,
	}
}

func NewFromEcho(e *echo.HTTPError) *HTTPError {
	title := http.StatusText(e.Code)
	if msg, ok := e.Message.(string); ok && len(msg) > 0 {
		title = msg
	}

	return NewHTTPError(e.Code, TypeGeneric, title)
}

// StatusCode returns the HTTP status of the error.
func (e *HTTPError) StatusCode() int {
	return int(swag.Int64Value(e.Code))
}

func (e *HTTPError) Error() string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "HTTPError %d (%s): %s", swag.Int64Value(e.Code), swag.StringValue(e.Type), swag.StringValue(e.Title))

	if len(e.Detail) > 0 {
		fmt.Fprintf(&builder, " - %s", e.Detail)
	}
	if e.Internal != nil {
		fmt.Fprintf(&builder, ", %v", e.Internal)
	}
	if len(e.AdditionalData) > 0 {
		keys := make([]string, 0, len(e.AdditionalData))
		for k := range e.AdditionalData {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		builder.WriteString(". Additional: ")
		for i, k := range keys {
			fmt.Fprintf(&builder, "%s=%v", k, e.AdditionalData[k])
			if i < len(keys)-1 {
				builder.WriteString(", ")
			}
		}
	}

	return builder.String()
}

func (e *HTTPError) Unwrap() error {
	return e.Internal
}
