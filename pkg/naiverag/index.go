package naiverag

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/floats"

	"github.com/dd0wney/journeygraph/pkg/ingest"
)

// DefaultDimensions is the hashed bag-of-words embedding width. The corpus
// vocabulary is small (event types, segments, categories, price buckets), so
// a few hundred buckets keep collisions rare.
const DefaultDimensions = 256

// Result is one search hit.
type Result struct {
	Document
	Score float64 `json:"score"`
}

// Index is a flat in-memory vector index over session documents. Build once,
// search concurrently.
type Index struct {
	dims    int
	docs    []Document
	vectors [][]float64
}

// NewIndex creates an empty index with the given embedding width.
func NewIndex(dims int) *Index {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &Index{dims: dims}
}

// Build generates documents from the dataset and embeds them.
func (idx *Index) Build(ds ingest.Dataset) {
	idx.docs = GenerateDocuments(ds)
	idx.vectors = make([][]float64, len(idx.docs))
	for i, doc := range idx.docs {
		idx.vectors[i] = idx.embed(doc.Text)
	}
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int { return len(idx.docs) }

// embed maps text to a unit-length hashed bag-of-words vector. Zero-token
// text embeds as the zero vector, which scores zero against everything.
func (idx *Index) embed(text string) []float64 {
	vec := make([]float64, idx.dims)
	for _, token := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[int(h.Sum32())%idx.dims]++
	}
	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Search returns the topK documents most similar to the query, best first.
// Equal scores rank by index order.
func (idx *Index) Search(query string, topK int) []Result {
	q := idx.embed(query)

	results := make([]Result, 0, len(idx.docs))
	for i, vec := range idx.vectors {
		results = append(results, Result{
			Document: idx.docs[i],
			Score:    floats.Dot(q, vec),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// RetrieveContext formats the topK search hits as a context block.
func (idx *Index) RetrieveContext(query string, topK int) string {
	results := idx.Search(query, topK)
	if len(results) == 0 {
		return "No relevant sessions found."
	}

	var b strings.Builder
	b.WriteString("## Retrieved Session Context (Vector Search)\n")
	for i, r := range results {
		fmt.Fprintf(&b, "\n**Session %d** (similarity: %.3f):\n", i+1, r.Score)
		fmt.Fprintf(&b, "  %s\n", r.Text)
	}
	return b.String()
}
