package load

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blogSchema = `
datasource db {
  provider = "postgresql"
  url      = env("DATABASE_URL")
}

generator api {
  provider = "prismarest"
}

enum Role {
  ADMIN
  MEMBER
}

model User {
  id        String   @id @default(uuid())
  email     String   @unique
  name      String?
  role      Role     @default(MEMBER)
  settings  Json?
  age       Int?
  createdAt DateTime @default(now())
  updatedAt DateTime @updatedAt
  tenantId  String
  posts     Post[]
}

model Post {
  id       Int      @id @default(autoincrement())
  title    String
  tags     String[]
  author   User     @relation(fields: [authorId], references: [id])
  authorId String
}
`

func TestParse(t *testing.T) {
	require := require.New(t)
	s, err := Parse([]byte(blogSchema), "blog.prisma")
	require.NoError(err)
	require.Len(s.Entities, 2)
	require.Len(s.Enums, 1)

	require.Equal("Role", s.Enums[0].Name)
	require.Equal([]string{"ADMIN", "MEMBER"}, s.Enums[0].Values)

	user := s.Entity("User")
	require.NotNil(user)
	require.Empty(user.PrimaryKey)
	require.Len(user.Fields, 10)

	id := user.Field("id")
	require.True(id.ID)
	require.True(id.Default)
	require.Equal("uuid()", id.DefaultExpr)
	require.Equal(KindScalar, id.Kind)

	require.True(user.Field("email").Unique)
	require.True(user.Field("name").Optional)
	require.False(user.Field("email").Optional)

	role := user.Field("role")
	require.Equal(KindEnum, role.Kind)
	require.Equal("Role", role.Type)
	require.Equal("MEMBER", role.DefaultExpr)

	require.Equal(TypeJSON, user.Field("settings").Type)
	require.True(user.Field("updatedAt").UpdatedAt)
	require.Equal("now()", user.Field("createdAt").DefaultExpr)

	posts := user.Field("posts")
	require.Equal(KindObject, posts.Kind)
	require.True(posts.List)
	require.False(posts.Owns())

	post := s.Entity("Post")
	require.NotNil(post)
	require.True(post.Field("tags").List)
	require.Equal(KindScalar, post.Field("tags").Kind)

	author := post.Field("author")
	require.True(author.Owns())
	require.Equal([]string{"authorId"}, author.Relation.Fields)
	require.Equal([]string{"id"}, author.Relation.References)
	require.False(author.ReadOnly)

	// The relation's source column is a foreign key and therefore not
	// directly client-settable.
	require.True(post.Field("authorId").ReadOnly)
	require.False(post.Field("title").ReadOnly)
}

func TestParseCompositeKey(t *testing.T) {
	require := require.New(t)
	s, err := Parse([]byte(`
model Order {
  id    Int         @id @default(autoincrement())
  items OrderItem[]
}

model Product {
  id    Int         @id @default(autoincrement())
  items OrderItem[]
}

model OrderItem {
  orderId   Int
  productId Int
  qty       Int     @default(1)
  order     Order   @relation("OrderLines", fields: [orderId], references: [id])
  /// @readonly
  product   Product @relation(fields: [productId], references: [id])

  @@id([orderId, productId])
}
`), "order.prisma")
	require.NoError(err)

	item := s.Entity("OrderItem")
	require.NotNil(item)
	require.Equal([]string{"orderId", "productId"}, item.PrimaryKey)

	require.True(item.Field("product").ReadOnly)
	require.False(item.Field("order").ReadOnly)
	require.Equal("OrderLines", item.Field("order").Relation.Name)

	require.True(item.Field("orderId").ReadOnly)
	require.True(item.Field("productId").ReadOnly)
	require.False(item.Field("qty").ReadOnly)
}

func TestParseSchemaTag(t *testing.T) {
	s, err := Parse([]byte(`
model Invoice {
  id Int @id

  @@schema("billing")
}
`), "")
	require.NoError(t, err)
	assert.Equal(t, "billing", s.Entities[0].Schema)
}

func TestParseComments(t *testing.T) {
	require := require.New(t)
	s, err := Parse([]byte(`
// line comment
model Note {
  id   Int    @id // trailing comment
  /// Free-form body of the note.
  /// Shown verbatim in the API.
  body String
}
`), "")
	require.NoError(err)
	body := s.Entities[0].Field("body")
	require.Equal("Free-form body of the note. Shown verbatim in the API.", body.Comment)
	require.False(body.ReadOnly)
	require.Empty(s.Entities[0].Field("id").Comment)
}

func TestParseIgnoredAttributes(t *testing.T) {
	s, err := Parse([]byte(`
model Doc {
  id   Int    @id @map("doc_id")
  body String @db.Text
}
`), "")
	require.NoError(t, err)
	assert.Len(t, s.Entities[0].Fields, 2)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		sentinel error
		contains string
	}{
		{
			name:     "statement outside block",
			src:      "id Int @id",
			sentinel: ErrParse,
			contains: "unexpected statement",
		},
		{
			name:     "unterminated model",
			src:      "model User {\n  id Int @id",
			sentinel: ErrParse,
			contains: "unterminated model",
		},
		{
			name:     "unknown scalar type",
			src:      "model User {\n  id Strang @id\n}",
			sentinel: ErrIntegrity,
			contains: `unknown type "Strang"`,
		},
		{
			name:     "relation source not declared",
			src:      "model A {\n  id Int @id\n}\nmodel B {\n  id Int @id\n  a A @relation(fields: [aId], references: [id])\n}",
			sentinel: ErrIntegrity,
			contains: `relation source "aId"`,
		},
		{
			name:     "duplicate model",
			src:      "model A {\n  id Int @id\n}\nmodel A {\n  id Int @id\n}",
			sentinel: ErrIntegrity,
			contains: "duplicate model name",
		},
		{
			name:     "id combined with composite id",
			src:      "model A {\n  id Int @id\n  x Int\n  @@id([id, x])\n}",
			sentinel: ErrIntegrity,
			contains: "@id combined with composite @@id",
		},
		{
			name:     "malformed relation argument",
			src:      "model A {\n  id Int @id\n  b B @relation(bogus)\n}\nmodel B {\n  id Int @id\n  as A[]\n}",
			sentinel: ErrParse,
			contains: "malformed @relation",
		},
		{
			name:     "unterminated attribute",
			src:      "model A {\n  id Int @default(autoincrement(\n}",
			sentinel: ErrParse,
			contains: "unterminated attribute",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.prisma")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorContains(t, err, tt.contains)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse([]byte("model User {\n  id Int @id\n  !!\n}"), "app.prisma")
	require.Error(t, err)
	pe, ok := AsParseError(err)
	require.True(t, ok)
	assert.Equal(t, "app.prisma", pe.File)
	assert.Equal(t, 3, pe.Line)
}

func TestParseFile(t *testing.T) {
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "schema.prisma")
	require.NoError(os.WriteFile(path, []byte("model Ping {\n  id Int @id\n}\n"), 0o644))

	s, err := ParseFile(path)
	require.NoError(err)
	require.Len(s.Entities, 1)
	require.Equal("Ping", s.Entities[0].Name)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.prisma"))
	require.Error(err)
	require.False(errors.Is(err, ErrParse))
}
