package rest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tomaszdurka/prismarest/compiler/gen"
)

func TestQueryStruct(t *testing.T) {
	code := renderEntity(t, QueryEmitter{}, blogType(t, "User"))

	assert.Contains(t, code, "type UserQuery struct")
	assert.Regexp(t, "ID\\s+\\*string\\s+`form:\"id\" json:\"id,omitempty\"`", code)
	assert.Regexp(t, "Role\\s+\\*Role\\s+`form:\"role\"", code)
	assert.Regexp(t, "AgeGte\\s+\\*int\\s+`form:\"ageGte\"", code)
	assert.Regexp(t, "CreatedAtGte\\s+\\*time.Time", code)
	assert.NotContains(t, code, "form:\"createdAt\"", "timestamps expose ranges only")
	assert.NotContains(t, code, "Tags", "lists are not filterable")
	assert.NotContains(t, code, "Settings", "documents are not filterable")
}

func TestQueryPredicate(t *testing.T) {
	code := renderEntity(t, QueryEmitter{}, blogType(t, "User"))

	assert.Contains(t, code, "func (q *UserQuery) predicate() filter.Predicate")
	assert.Contains(t, code, "if q == nil")
	assert.Contains(t, code, `filter.EQ("id", *q.ID)`)
	assert.Contains(t, code, `filter.GTE("age", *q.AgeGte)`)
	assert.Contains(t, code, `filter.LTE("createdAt", *q.CreatedAtLte)`)
	assert.NotContains(t, code, `filter.EQ("createdAt"`)
	assert.Contains(t, code, "filter.And(ps...)")
}

func TestQueryForeignKeyEqualsOnly(t *testing.T) {
	code := renderEntity(t, QueryEmitter{}, blogType(t, "Post"))

	assert.Regexp(t, "AuthorID\\s+\\*string\\s+`form:\"authorId\"", code)
	assert.NotContains(t, code, "AuthorIDContains", "identifier references compare by equality only")
}

func TestQueryEmitterFeature(t *testing.T) {
	assert.Equal(t, gen.FeatureFlatQuery.Name, QueryEmitter{}.Feature().Name)
}
