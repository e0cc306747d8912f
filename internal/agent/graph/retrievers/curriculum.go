package retrievers

import (
	"context"
	"sort"
	"strings"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
)

// CurriculumRetriever serves ranked curriculum snippets from an in-memory
// catalog. It backs local runs and demos; production deployments plug a real
// retrieval backend into the same Eino retriever contract.
type CurriculumRetriever struct {
	snippets []snippet
}

type snippet struct {
	id      string
	topic   string
	grade   string
	content string
}

var defaultCatalog = []snippet{
	{
		id:      "calc-derivative-def",
		topic:   "derivatives calculus limits rate of change slope tangent",
		grade:   "11-12",
		content: "The derivative of f at x is the limit of (f(x+h)-f(x))/h as h approaches 0. It measures the instantaneous rate of change, geometrically the slope of the tangent line.",
	},
	{
		id:      "calc-derivative-rules",
		topic:   "derivatives power rule product rule chain rule differentiation",
		grade:   "11-12",
		content: "Power rule: d/dx x^n = n*x^(n-1). Product rule: (fg)' = f'g + fg'. Chain rule: (f(g(x)))' = f'(g(x)) * g'(x). These three rules differentiate most school-level functions.",
	},
	{
		id:      "alg-linear-equations",
		topic:   "linear equations solving algebra balance isolate variable",
		grade:   "7-9",
		content: "To solve a linear equation, apply the same operation to both sides until the variable is isolated. Check the solution by substituting it back into the original equation.",
	},
	{
		id:      "alg-quadratic-formula",
		topic:   "quadratic equations formula discriminant roots parabola factoring",
		grade:   "9-10",
		content: "A quadratic ax^2+bx+c=0 has roots x = (-b ± sqrt(b^2-4ac)) / (2a). The discriminant b^2-4ac tells how many real roots exist: two if positive, one if zero, none if negative.",
	},
	{
		id:      "geom-pythagorean",
		topic:   "pythagorean theorem right triangle hypotenuse geometry",
		grade:   "8-10",
		content: "In a right triangle with legs a, b and hypotenuse c: a^2 + b^2 = c^2. The converse also holds, so the relation can verify that a triangle is right-angled.",
	},
	{
		id:      "frac-operations",
		topic:   "fractions addition subtraction common denominator multiply divide",
		grade:   "5-7",
		content: "To add or subtract fractions, rewrite them over a common denominator first. To divide by a fraction, multiply by its reciprocal.",
	},
}

func NewCurriculumRetriever() *CurriculumRetriever {
	return &CurriculumRetriever{snippets: defaultCatalog}
}

// Retrieve scores each catalog snippet by query-term overlap against its
// topic keywords and content, returning matches in descending score order.
func (r *CurriculumRetriever) Retrieve(ctx context.Context, query string, opts ...retriever.Option) ([]*schema.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return []*schema.Document{}, nil
	}

	type scored struct {
		doc   *schema.Document
		score int
	}
	var matches []scored
	for _, s := range r.snippets {
		haystack := s.topic + " " + strings.ToLower(s.content)
		score := 0
		for _, term := range terms {
			if len(term) < 3 {
				continue
			}
			if strings.Contains(haystack, term) {
				score++
			}
		}
		if score == 0 {
			continue
		}
		matches = append(matches, scored{
			doc: &schema.Document{
				ID:      s.id,
				Content: s.content,
				MetaData: map[string]any{
					"grade_level": s.grade,
				},
			},
			score: score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	docs := make([]*schema.Document, 0, len(matches))
	for _, m := range matches {
		docs = append(docs, m.doc)
	}
	return docs, nil
}

var _ retriever.Retriever = (*CurriculumRetriever)(nil)
