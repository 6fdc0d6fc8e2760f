package httpapi_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomaszdurka/prismarest"
	"github.com/tomaszdurka/prismarest/httpapi"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	c.Request = r
	return c, w
}

func TestError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{
			name:   "not found",
			err:    prismarest.NewNotFoundError("User"),
			status: http.StatusNotFound,
		},
		{
			name:   "validation",
			err:    prismarest.NewValidationError("limit", errors.New("not a number")),
			status: http.StatusBadRequest,
		},
		{
			name:   "constraint",
			err:    prismarest.NewConstraintError("duplicate key", nil),
			status: http.StatusConflict,
		},
		{
			name:   "unknown",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(http.MethodGet, "/", "")
			httpapi.Error(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
			assert.Contains(t, w.Body.String(), tt.err.Error())
		})
	}
}

func TestBadRequest(t *testing.T) {
	c, w := testContext(http.MethodGet, "/", "")
	httpapi.BadRequest(c, errors.New("invalid payload"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid payload")
}

func TestDecodeJSON(t *testing.T) {
	type createUser struct {
		Email string  `json:"email" binding:"required"`
		Name  *string `json:"name,omitempty"`
	}

	t.Run("valid", func(t *testing.T) {
		c, _ := testContext(http.MethodPost, "/", `{"email":"a8m@example.com","name":"a8m"}`)
		var in createUser
		require.NoError(t, httpapi.DecodeJSON(c, &in))
		assert.Equal(t, "a8m@example.com", in.Email)
		require.NotNil(t, in.Name)
		assert.Equal(t, "a8m", *in.Name)
	})

	t.Run("missing required", func(t *testing.T) {
		c, _ := testContext(http.MethodPost, "/", `{"name":"a8m"}`)
		var in createUser
		assert.Error(t, httpapi.DecodeJSON(c, &in))
	})

	t.Run("unknown field", func(t *testing.T) {
		c, _ := testContext(http.MethodPost, "/", `{"email":"a8m@example.com","admin":true}`)
		var in createUser
		err := httpapi.DecodeJSON(c, &in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown field")
	})

	t.Run("malformed", func(t *testing.T) {
		c, _ := testContext(http.MethodPost, "/", `{"email":`)
		var in createUser
		assert.Error(t, httpapi.DecodeJSON(c, &in))
	})
}

func TestParsePage(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, _ := testContext(http.MethodGet, "/", "")
		p, err := httpapi.ParsePage(c)
		require.NoError(t, err)
		assert.Equal(t, prismarest.DefaultLimit, p.Limit)
		assert.Zero(t, p.Offset)
		assert.Empty(t, p.Sort)
	})

	t.Run("full", func(t *testing.T) {
		c, _ := testContext(http.MethodGet, "/?limit=10&offset=5&sort=-createdAt,%2Btitle,name", "")
		p, err := httpapi.ParsePage(c)
		require.NoError(t, err)
		assert.Equal(t, 10, p.Limit)
		assert.Equal(t, 5, p.Offset)
		assert.Equal(t, []prismarest.Order{
			{Field: "createdAt", Desc: true},
			{Field: "title"},
			{Field: "name"},
		}, p.Sort)
	})

	t.Run("clamped", func(t *testing.T) {
		c, _ := testContext(http.MethodGet, "/?limit=100000", "")
		p, err := httpapi.ParsePage(c)
		require.NoError(t, err)
		assert.Equal(t, prismarest.MaxLimit, p.Limit)
	})

	t.Run("bad limit", func(t *testing.T) {
		c, _ := testContext(http.MethodGet, "/?limit=ten", "")
		_, err := httpapi.ParsePage(c)
		assert.True(t, prismarest.IsValidationError(err))
	})

	t.Run("bad offset", func(t *testing.T) {
		c, _ := testContext(http.MethodGet, "/?offset=x", "")
		_, err := httpapi.ParsePage(c)
		assert.True(t, prismarest.IsValidationError(err))
	})
}

func TestSystemMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(httpapi.WithSystemValues(prismarest.SystemValues{"tenantId": "t1"}))
	r.Use(httpapi.WithSystemValue("userId", func(c *gin.Context) any {
		return c.GetHeader("X-User")
	}))
	r.GET("/", func(c *gin.Context) {
		var resolver prismarest.ContextResolver
		tenant, err := resolver.SystemValue(c.Request.Context(), "tenantId")
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{
			"tenant": tenant,
			"user":   httpapi.SystemString(c, "userId"),
			"absent": httpapi.SystemString(c, "nope"),
		})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User", "u42")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tenant":"t1","user":"u42","absent":""}`, w.Body.String())
}
