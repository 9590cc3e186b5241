// Package httpx holds the request decoding and response envelope shared by
// every controller. All bodies carry a top-level "success" flag.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"catalog_api/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxMultipartMemory = 8 << 20

var ErrMalformedBody = errors.New("malformed request body")

// BindInput decodes a JSON or form body into a field map. An empty body
// yields an empty map so the rule set reports missing fields.
func BindInput(c *gin.Context) (validation.Input, error) {
	in := validation.Input{}

	switch c.ContentType() {
	case gin.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return nil, ErrMalformedBody
		}
		for k, v := range c.Request.PostForm {
			if len(v) > 0 {
				in[k] = v[0]
			}
		}
		return trimStrings(in), nil
	case gin.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, ErrMalformedBody
		}
		for k, v := range c.Request.MultipartForm.Value {
			if len(v) > 0 {
				in[k] = v[0]
			}
		}
		return trimStrings(in), nil
	}

	if c.Request.Body == nil {
		return in, nil
	}

	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return validation.Input{}, nil
		}
		return nil, ErrMalformedBody
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, ErrMalformedBody
	}
	if in == nil {
		in = validation.Input{}
	}
	return trimStrings(in), nil
}

// untrimmed fields are compared byte for byte, like passwords.
var untrimmed = map[string]bool{
	"password":              true,
	"password_confirmation": true,
}

// trimStrings strips surrounding whitespace from top-level string values.
func trimStrings(in validation.Input) validation.Input {
	for k, v := range in {
		if s, ok := v.(string); ok && !untrimmed[k] {
			in[k] = strings.TrimSpace(s)
		}
	}
	return in
}

// ParamID parses a path id. ok is false for anything that cannot name a row.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func ValidationFailed(c *gin.Context, messages []string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   messages,
	})
}

func MalformedBody(c *gin.Context) {
	ValidationFailed(c, []string{"The request body must be valid JSON."})
}

// NotFound keeps the historical 400 status for missing records.
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   message,
	})
}

// InternalError logs err with request context and hides it from the client.
func InternalError(c *gin.Context, err error, msg string) {
	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
	}).Error(msg)

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "Internal server error",
	})
}
