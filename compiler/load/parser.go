package load

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// readonlyDirective is the doc-comment directive that marks a field as not
// client-settable, e.g.:
//
//	/// @readonly
//	product Product @relation(fields: [productId], references: [id])
const readonlyDirective = "@readonly"

// ParseFile reads and parses a schema source from disk.
func ParseFile(path string) (*Schema, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prismarest/load: read schema: %w", err)
	}
	return Parse(src, filepath.Base(path))
}

// Parse parses a Prisma-style schema source. The supported subset covers
// model and enum blocks, field modifiers (? and []), the field attributes
// @id, @unique, @updatedAt, @default(...) and @relation(...), the block
// attributes @@id([...]) and @@schema("..."), and /// doc comments with the
// @readonly directive. datasource and generator blocks are skipped, and
// unrecognized attributes (@map, @db.*, ...) are ignored. The returned
// schema is resolved (field kinds assigned, foreign-key columns marked
// read-only) and validated.
func Parse(src []byte, name string) (*Schema, error) {
	p := &parser{
		file:   name,
		lines:  strings.Split(strings.ReplaceAll(string(src), "\r\n", "\n"), "\n"),
		schema: &Schema{},
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	p.resolve()
	if err := p.schema.Validate(); err != nil {
		return nil, err
	}
	return p.schema, nil
}

type parser struct {
	file   string
	lines  []string
	pos    int // index of the line being processed
	schema *Schema

	// doc state collected from /// lines preceding a declaration.
	doc      []string
	readonly bool
}

func (p *parser) errorf(line int, format string, args ...any) error {
	return &ParseError{File: p.file, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// next returns the following significant line with its 1-based number,
// handling doc comments and stripping trailing // comments. ok is false at
// end of input.
func (p *parser) next() (line string, num int, ok bool) {
	for p.pos < len(p.lines) {
		raw := strings.TrimSpace(p.lines[p.pos])
		p.pos++
		num = p.pos
		switch {
		case raw == "":
			continue
		case strings.HasPrefix(raw, "///"):
			text := strings.TrimSpace(strings.TrimPrefix(raw, "///"))
			if text == readonlyDirective {
				p.readonly = true
			} else if text != "" {
				p.doc = append(p.doc, text)
			}
			continue
		case strings.HasPrefix(raw, "//"):
			continue
		}
		if line = stripComment(raw); line == "" {
			continue
		}
		return line, num, true
	}
	return "", p.pos, false
}

// takeDoc consumes the pending doc state for the declaration being parsed.
func (p *parser) takeDoc() (comment string, readonly bool) {
	comment = strings.Join(p.doc, " ")
	readonly = p.readonly
	p.doc, p.readonly = nil, false
	return comment, readonly
}

func (p *parser) run() error {
	for {
		line, num, ok := p.next()
		if !ok {
			return nil
		}
		words := strings.Fields(line)
		if len(words) < 2 || words[len(words)-1] != "{" {
			return p.errorf(num, "unexpected statement %q", line)
		}
		p.takeDoc() // block-level docs are not carried
		switch words[0] {
		case "datasource", "generator":
			if err := p.skipBlock(num); err != nil {
				return err
			}
		case "model":
			if len(words) != 3 || !isIdent(words[1]) {
				return p.errorf(num, "malformed model declaration %q", line)
			}
			if err := p.parseModel(words[1], num); err != nil {
				return err
			}
		case "enum":
			if len(words) != 3 || !isIdent(words[1]) {
				return p.errorf(num, "malformed enum declaration %q", line)
			}
			if err := p.parseEnum(words[1], num); err != nil {
				return err
			}
		default:
			return p.errorf(num, "unexpected block %q", words[0])
		}
	}
}

func (p *parser) skipBlock(open int) error {
	depth := 1
	for {
		line, _, ok := p.next()
		if !ok {
			return p.errorf(open, "unterminated block")
		}
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth <= 0 {
			return nil
		}
	}
}

func (p *parser) parseModel(name string, open int) error {
	e := &Entity{Name: name}
	for {
		line, num, ok := p.next()
		if !ok {
			return p.errorf(open, "unterminated model %q", name)
		}
		switch {
		case line == "}":
			p.schema.Entities = append(p.schema.Entities, e)
			return nil
		case strings.HasPrefix(line, "@@"):
			if err := p.parseBlockAttr(e, line, num); err != nil {
				return err
			}
		case strings.Contains(line, "{"):
			return p.errorf(num, "unexpected %q inside model %q", "{", name)
		default:
			f, err := p.parseField(line, num)
			if err != nil {
				return err
			}
			e.Fields = append(e.Fields, f)
		}
	}
}

func (p *parser) parseEnum(name string, open int) error {
	e := &Enum{Name: name}
	for {
		line, num, ok := p.next()
		if !ok {
			return p.errorf(open, "unterminated enum %q", name)
		}
		switch {
		case line == "}":
			p.schema.Enums = append(p.schema.Enums, e)
			return nil
		case strings.HasPrefix(line, "@@"):
			// @@map and friends carry no values the generator needs.
		default:
			value := strings.Fields(line)[0]
			if !isIdent(value) {
				return p.errorf(num, "malformed enum value %q", line)
			}
			p.takeDoc()
			e.Values = append(e.Values, value)
		}
	}
}

func (p *parser) parseBlockAttr(e *Entity, line string, num int) error {
	name, arg, _, err := scanAttr(strings.TrimPrefix(line, "@@"))
	if err != nil {
		return p.errorf(num, "malformed block attribute %q", line)
	}
	switch name {
	case "id":
		names, err := parseIdentList(arg)
		if err != nil {
			return p.errorf(num, "malformed @@id: %v", err)
		}
		if len(names) == 0 {
			return p.errorf(num, "empty @@id")
		}
		e.PrimaryKey = names
	case "schema":
		tag, err := unquote(arg)
		if err != nil {
			return p.errorf(num, "malformed @@schema: %v", err)
		}
		e.Schema = tag
	default:
		// @@unique, @@index, @@map, ... are storage concerns.
	}
	return nil
}

func (p *parser) parseField(line string, num int) (*Field, error) {
	nameEnd := strings.IndexAny(line, " \t")
	if nameEnd < 0 {
		return nil, p.errorf(num, "malformed field %q", line)
	}
	f := &Field{Name: line[:nameEnd]}
	if !isIdent(f.Name) {
		return nil, p.errorf(num, "malformed field name %q", f.Name)
	}
	rest := strings.TrimSpace(line[nameEnd:])
	typeEnd := strings.IndexAny(rest, " \t")
	typ := rest
	attrs := ""
	if typeEnd >= 0 {
		typ, attrs = rest[:typeEnd], strings.TrimSpace(rest[typeEnd:])
	}
	switch {
	case strings.HasSuffix(typ, "[]"):
		f.List = true
		typ = strings.TrimSuffix(typ, "[]")
	case strings.HasSuffix(typ, "?"):
		f.Optional = true
		typ = strings.TrimSuffix(typ, "?")
	}
	if !isIdent(typ) {
		return nil, p.errorf(num, "malformed type %q for field %q", typ, f.Name)
	}
	f.Type = typ
	if err := p.parseAttrs(f, attrs, num); err != nil {
		return nil, err
	}
	f.Comment, f.ReadOnly = p.takeDoc()
	return f, nil
}

func (p *parser) parseAttrs(f *Field, attrs string, num int) error {
	for attrs != "" {
		if attrs[0] != '@' {
			return p.errorf(num, "malformed attributes %q on field %q", attrs, f.Name)
		}
		name, arg, rest, err := scanAttr(attrs[1:])
		if err != nil {
			return p.errorf(num, "field %q: %v", f.Name, err)
		}
		attrs = strings.TrimSpace(rest)
		switch name {
		case "id":
			f.ID = true
		case "unique":
			f.Unique = true
		case "updatedAt":
			f.UpdatedAt = true
		case "default":
			f.Default = true
			f.DefaultExpr = strings.TrimSpace(arg)
		case "relation":
			rel, err := parseRelation(arg)
			if err != nil {
				return p.errorf(num, "field %q: malformed @relation: %v", f.Name, err)
			}
			f.Relation = rel
		default:
			// @map, @db.*, @ignore, ... are out of the subset.
		}
	}
	return nil
}

// resolve assigns field kinds against the declared model and enum names and
// marks relation source columns read-only. Unknown type names are left as
// KindScalar for Validate to report.
func (p *parser) resolve() {
	models := make(map[string]bool, len(p.schema.Entities))
	for _, e := range p.schema.Entities {
		models[e.Name] = true
	}
	enums := make(map[string]bool, len(p.schema.Enums))
	for _, e := range p.schema.Enums {
		enums[e.Name] = true
	}
	for _, e := range p.schema.Entities {
		for _, f := range e.Fields {
			switch {
			case models[f.Type]:
				f.Kind = KindObject
			case enums[f.Type]:
				f.Kind = KindEnum
			default:
				f.Kind = KindScalar
			}
		}
		for _, f := range e.Fields {
			if !f.Owns() {
				continue
			}
			for _, src := range f.Relation.Fields {
				if sf := e.Field(src); sf != nil && sf.Kind != KindObject {
					sf.ReadOnly = true
				}
			}
		}
	}
}

// parseRelation parses the argument list of @relation. Both positional
// ("label") and named (name:, fields:, references:) arguments are accepted;
// onDelete/onUpdate are ignored.
func parseRelation(arg string) (*Relation, error) {
	rel := &Relation{}
	for _, part := range splitTop(arg) {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case strings.HasPrefix(part, `"`):
			name, err := unquote(part)
			if err != nil {
				return nil, err
			}
			rel.Name = name
		case strings.HasPrefix(part, "name:"):
			name, err := unquote(strings.TrimSpace(strings.TrimPrefix(part, "name:")))
			if err != nil {
				return nil, err
			}
			rel.Name = name
		case strings.HasPrefix(part, "fields:"):
			names, err := parseIdentList(strings.TrimSpace(strings.TrimPrefix(part, "fields:")))
			if err != nil {
				return nil, err
			}
			rel.Fields = names
		case strings.HasPrefix(part, "references:"):
			names, err := parseIdentList(strings.TrimSpace(strings.TrimPrefix(part, "references:")))
			if err != nil {
				return nil, err
			}
			rel.References = names
		case strings.HasPrefix(part, "onDelete:"), strings.HasPrefix(part, "onUpdate:"):
		default:
			return nil, fmt.Errorf("unexpected argument %q", part)
		}
	}
	return rel, nil
}

// scanAttr reads one attribute from s (which starts after '@'): the name,
// its parenthesized argument if present, and the unconsumed remainder.
func scanAttr(s string) (name, arg, rest string, err error) {
	i := 0
	for i < len(s) && (isIdentChar(s[i]) || s[i] == '.') {
		i++
	}
	if i == 0 {
		return "", "", "", fmt.Errorf("malformed attribute %q", "@"+s)
	}
	name, rest = s[:i], s[i:]
	if !strings.HasPrefix(rest, "(") {
		return name, "", rest, nil
	}
	depth, quoted := 0, false
	for j := 0; j < len(rest); j++ {
		switch rest[j] {
		case '"':
			quoted = !quoted
		case '(', '[':
			if !quoted {
				depth++
			}
		case ')', ']':
			if !quoted {
				depth--
			}
			if depth == 0 {
				return name, rest[1:j], rest[j+1:], nil
			}
		}
	}
	return "", "", "", fmt.Errorf("unterminated attribute @%s", name)
}

// splitTop splits s on commas that sit outside brackets and quotes.
func splitTop(s string) []string {
	var (
		parts  []string
		start  int
		depth  int
		quoted bool
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			quoted = !quoted
		case '(', '[':
			if !quoted {
				depth++
			}
		case ')', ']':
			if !quoted {
				depth--
			}
		case ',':
			if !quoted && depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// parseIdentList parses "[a, b, c]" into its identifiers.
func parseIdentList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("expected a [...] list, got %q", s)
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return nil, nil
	}
	var names []string
	for _, part := range strings.Split(inner, ",") {
		name := strings.TrimSpace(part)
		if !isIdent(name) {
			return nil, fmt.Errorf("malformed identifier %q", name)
		}
		names = append(names, name)
	}
	return names, nil
}

func unquote(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("expected a quoted string, got %q", s)
	}
	return s[1 : len(s)-1], nil
}

// stripComment removes a trailing // comment that sits outside quotes.
func stripComment(line string) string {
	quoted := false
	for i := 0; i < len(line)-1; i++ {
		switch {
		case line[i] == '"':
			quoted = !quoted
		case !quoted && line[i] == '/' && line[i+1] == '/':
			return strings.TrimSpace(line[:i])
		}
	}
	return line
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
		if i == 0 && s[i] >= '0' && s[i] <= '9' {
			return false
		}
	}
	return true
}

func isIdentChar(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
