package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method, body, contentType string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	if contentType != "" {
		c.Request.Header.Set("Content-Type", contentType)
	}
	return c, w
}

func TestBindInput_JSONKeepsNumbers(t *testing.T) {
	c, _ := newContext(http.MethodPost, `{"quantity": 12, "active": true, "name": "x"}`, "application/json")

	in, err := BindInput(c)

	require.NoError(t, err)
	assert.Equal(t, json.Number("12"), in["quantity"])
	assert.Equal(t, true, in["active"])
	assert.Equal(t, "x", in["name"])
}

func TestBindInput_EmptyBody(t *testing.T) {
	c, _ := newContext(http.MethodPost, "", "application/json")

	in, err := BindInput(c)

	require.NoError(t, err)
	assert.Empty(t, in)
}

func TestBindInput_NullBody(t *testing.T) {
	c, _ := newContext(http.MethodPost, "null", "application/json")

	in, err := BindInput(c)

	require.NoError(t, err)
	assert.NotNil(t, in)
	assert.Empty(t, in)
}

func TestBindInput_Malformed(t *testing.T) {
	for _, body := range []string{`{"name":`, `[1,2]`, `"text"`, `{"name":"a"} trailing-garbage`, `{"name":"a"}{"name":"b"}`, `{"name":"a"} }`} {
		c, _ := newContext(http.MethodPost, body, "application/json")

		_, err := BindInput(c)

		assert.True(t, errors.Is(err, ErrMalformedBody), body)
	}
}

func TestBindInput_TrailingWhitespaceIsAllowed(t *testing.T) {
	c, _ := newContext(http.MethodPost, "{\"name\":\"a\"}\n\n", "application/json")

	in, err := BindInput(c)

	require.NoError(t, err)
	assert.Equal(t, "a", in["name"])
}

func TestBindInput_TrimsStrings(t *testing.T) {
	c, _ := newContext(http.MethodPost, `{"email":"  a@x.com ","name":"\tAda\n","password":" secret1 ","quantity":3}`, "application/json")

	in, err := BindInput(c)

	require.NoError(t, err)
	assert.Equal(t, "a@x.com", in["email"])
	assert.Equal(t, "Ada", in["name"])
	assert.Equal(t, " secret1 ", in["password"], "passwords are kept verbatim")
	assert.Equal(t, json.Number("3"), in["quantity"])
}

func TestBindInput_Form(t *testing.T) {
	form := url.Values{"email": {" a@x.com "}, "password": {"secret1"}}
	c, _ := newContext(http.MethodPost, form.Encode(), "application/x-www-form-urlencoded")

	in, err := BindInput(c)

	require.NoError(t, err)
	assert.Equal(t, "a@x.com", in["email"])
	assert.Equal(t, "secret1", in["password"])
}

func TestParamID(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"12", 12, true},
		{"0", 0, false},
		{"-4", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		c, _ := newContext(http.MethodGet, "", "")
		c.Params = gin.Params{{Key: "id", Value: tt.raw}}

		got, ok := ParamID(c, "id")

		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestResponses(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "", "")
		ValidationFailed(c, []string{"a", "b"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"success":false,"error":["a","b"]}`, w.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "", "")
		NotFound(c, "User not found")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"User not found"}`, w.Body.String())
	})

	t.Run("internal hides details", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "", "")
		InternalError(c, errors.New("pq: password authentication failed"), "boom")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "password authentication")
		assert.JSONEq(t, `{"success":false,"error":"Internal server error"}`, w.Body.String())
	})
}
