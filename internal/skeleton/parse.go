package skeleton

import (
	"fmt"
	"strconv"

	"github.com/agentic-research/semtree/internal/semantic"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// valueGrammar: value := INT | "(" ( "c" INT* | INT value* ) ")"
//
//nolint:govet // participle grammar tags are not standard struct tags
type valueGrammar struct {
	ID   *string      `  @Int`
	List *listGrammar `| "(" @@ ")"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type listGrammar struct {
	Content   *contentGrammar   `  @@`
	Composite *compositeGrammar `| @@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type contentGrammar struct {
	IDs []string `"c" @Int*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type compositeGrammar struct {
	Head  string          `@Int`
	Items []*valueGrammar `@@*`
}

var skeletonLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Marker", Pattern: `c`},
	{Name: "Punct", Pattern: `[()]`},
	{Name: "Whitespace", Pattern: `[\s,]+`},
})

var skeletonParser = participle.MustBuild[valueGrammar](
	participle.Lexer(skeletonLexer),
	participle.Elide("Whitespace"),
)

// Parse reads a skeleton string. It is the inverse of String.
func Parse(s string) (*Skeleton, error) {
	g, err := skeletonParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("parse skeleton %q: %w", s, err)
	}
	return g.build()
}

func (g *valueGrammar) build() (*Skeleton, error) {
	if g.ID != nil {
		id, err := atoi(*g.ID)
		if err != nil {
			return nil, err
		}
		return Leaf(id), nil
	}
	if g.List == nil {
		return nil, fmt.Errorf("parse skeleton: empty value")
	}
	if g.List.Content != nil {
		ids := make([]semantic.ID, 0, len(g.List.Content.IDs))
		for _, raw := range g.List.Content.IDs {
			id, err := atoi(raw)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ContentList(ids...), nil
	}
	if g.List.Composite == nil {
		return nil, fmt.Errorf("parse skeleton: empty list")
	}
	head, err := atoi(g.List.Composite.Head)
	if err != nil {
		return nil, err
	}
	s := Node(head)
	for _, it := range g.List.Composite.Items {
		v, err := it.build()
		if err != nil {
			return nil, err
		}
		s.Items = append(s.Items, v)
	}
	return s, nil
}

func atoi(s string) (semantic.ID, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return semantic.NoID, fmt.Errorf("skeleton id %q: %w", s, err)
	}
	return semantic.ID(v), nil
}
