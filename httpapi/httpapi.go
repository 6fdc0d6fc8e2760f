// Package httpapi carries the request plumbing shared by generated gin
// handlers: decoding and validating payloads, reading pagination
// parameters, and mapping the runtime error taxonomy onto HTTP status
// codes. Application middleware can inject per-request system values
// through it as well.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomaszdurka/prismarest"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Error writes err with the status implied by the runtime error
// taxonomy: 404 for missing records, 400 for validation failures, 409
// for constraint violations and 500 for anything else.
func Error(c *gin.Context, err error) {
	switch {
	case prismarest.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case prismarest.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case prismarest.IsConstraintError(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// BadRequest writes err as a 400 response.
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// DecodeJSON decodes the request body into v and runs the binding
// validators. Unknown fields are rejected, which is why update payloads
// keep their read-only fields declared even though they are never
// applied.
func DecodeJSON(c *gin.Context, v any) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(v)
}

// ParsePage reads the limit, offset and sort query parameters. Sort
// keys are comma separated; a leading '-' orders descending and a
// leading '+' is accepted and ignored. The result is clamped to the
// runtime page bounds.
func ParsePage(c *gin.Context) (prismarest.Page, error) {
	var p prismarest.Page
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, prismarest.NewValidationError("limit", err)
		}
		p.Limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, prismarest.NewValidationError("offset", err)
		}
		p.Offset = n
	}
	for _, part := range strings.Split(c.Query("sort"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := false
		switch part[0] {
		case '-':
			desc = true
			part = part[1:]
		case '+':
			part = part[1:]
		}
		if part != "" {
			p.Sort = append(p.Sort, prismarest.Order{Field: part, Desc: desc})
		}
	}
	return p.Clamp(), nil
}
