package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a catalog search.
type Params struct {
	Query string

	// Filters
	MediaType string   // "anime", "manga", or empty for both
	Genres    []string // exact match, OR across values
	AirStatus string
	MinYear   int
	MaxYear   int
	MinScore  float64 // minimum community mean score

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "title", "year", "score", "recent"
	SortOrder string // "asc", "desc"

	IncludeFacets bool
	Highlight     bool
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:         25,
		SortBy:        "relevance",
		SortOrder:     "desc",
		IncludeFacets: true,
		Highlight:     true,
	}
}

// Result is one page of catalog search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
	Facets Facets `json:"facets,omitempty"`
}

// Hit is a single catalog match.
type Hit struct {
	ID           string            `json:"id"`
	Score        float64           `json:"score"`
	MediaType    string            `json:"media_type"`
	Title        string            `json:"title"`
	TitleEnglish string            `json:"title_english,omitempty"`
	Year         int               `json:"year,omitempty"`
	UnitCount    int               `json:"unit_count,omitempty"`
	MeanScore    float64           `json:"mean_score,omitempty"`
	Genres       []string          `json:"genres,omitempty"`
	Highlights   map[string]string `json:"highlights,omitempty"`
}

// Facets contains facet counts for filtering UIs.
type Facets struct {
	MediaTypes []FacetCount `json:"media_types,omitempty"`
	Genres     []FacetCount `json:"genres,omitempty"`
}

// FacetCount is one facet value with its hit count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a catalog search. Honors ctx: a superseded request is
// cancelled by the caller and the partial work discarded.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, params.Offset, false)
	addSorting(req, params)

	if params.IncludeFacets {
		req.AddFacet("media_type", bleve.NewFacetRequest("media_type", 2))
		req.AddFacet("genres", bleve.NewFacetRequest("genres", 20))
	}
	if params.Highlight {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("title")
		req.Highlight.AddField("title_english")
	}

	req.Fields = []string{
		"id", "media_type", "title", "title_english", "year",
		"unit_count", "mean_score", "genres",
	}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}

	for _, hit := range res.Hits {
		h := Hit{ID: hit.ID, Score: hit.Score}

		if v, ok := hit.Fields["media_type"].(string); ok {
			h.MediaType = v
		}
		if v, ok := hit.Fields["title"].(string); ok {
			h.Title = v
		}
		if v, ok := hit.Fields["title_english"].(string); ok {
			h.TitleEnglish = v
		}
		if v, ok := hit.Fields["year"].(float64); ok {
			h.Year = int(v)
		}
		if v, ok := hit.Fields["unit_count"].(float64); ok {
			h.UnitCount = int(v)
		}
		if v, ok := hit.Fields["mean_score"].(float64); ok {
			h.MeanScore = v
		}
		switch genres := hit.Fields["genres"].(type) {
		case string:
			h.Genres = []string{genres}
		case []interface{}:
			for _, g := range genres {
				if gs, ok := g.(string); ok {
					h.Genres = append(h.Genres, gs)
				}
			}
		}

		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, h)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(res)
	}
	return result, nil
}

// buildSearchQuery constructs the Bleve query from params. Title matches in
// any script count; the romanized title is boosted highest since that is
// what the catalog displays by default.
func buildSearchQuery(params Params) query.Query {
	var queries []query.Query

	if params.Query != "" {
		var textQueries []query.Query

		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)
		textQueries = append(textQueries, titleMatch)

		englishMatch := bleve.NewMatchQuery(params.Query)
		englishMatch.SetField("title_english")
		englishMatch.SetBoost(2.5)
		textQueries = append(textQueries, englishMatch)

		nativeMatch := bleve.NewMatchQuery(params.Query)
		nativeMatch.SetField("title_native")
		nativeMatch.SetBoost(2.0)
		textQueries = append(textQueries, nativeMatch)

		synopsisMatch := bleve.NewMatchQuery(params.Query)
		synopsisMatch.SetField("synopsis")
		synopsisMatch.SetBoost(0.3)
		textQueries = append(textQueries, synopsisMatch)

		// Typo tolerance on the primary title.
		fuzzy := bleve.NewFuzzyQuery(params.Query)
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("title")
		fuzzy.SetBoost(0.8)
		textQueries = append(textQueries, fuzzy)

		// Prefix match keeps incremental typing useful.
		if len(params.Query) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefix.SetField("title")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.MediaType != "" {
		tq := bleve.NewTermQuery(params.MediaType)
		tq.SetField("media_type")
		queries = append(queries, tq)
	}

	if len(params.Genres) > 0 {
		genreQueries := make([]query.Query, len(params.Genres))
		for i, genre := range params.Genres {
			gq := bleve.NewTermQuery(genre)
			gq.SetField("genres")
			genreQueries[i] = gq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(genreQueries...))
	}

	if params.AirStatus != "" {
		tq := bleve.NewTermQuery(params.AirStatus)
		tq.SetField("air_status")
		queries = append(queries, tq)
	}

	if params.MinYear > 0 || params.MaxYear > 0 {
		minYear := float64(params.MinYear)
		maxYear := float64(params.MaxYear)
		if params.MaxYear == 0 {
			maxYear = 3000
		}
		rq := bleve.NewNumericRangeQuery(&minYear, &maxYear)
		rq.SetField("year")
		queries = append(queries, rq)
	}

	if params.MinScore > 0 {
		minScore := params.MinScore
		maxScore := 10.0
		rq := bleve.NewNumericRangeQuery(&minScore, &maxScore)
		rq.SetField("mean_score")
		queries = append(queries, rq)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

func addSorting(req *bleve.SearchRequest, params Params) {
	switch params.SortBy {
	case "title":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-title"})
		} else {
			req.SortBy([]string{"title"})
		}
	case "year":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"year", "title"})
		} else {
			req.SortBy([]string{"-year", "title"})
		}
	case "score":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"mean_score", "title"})
		} else {
			req.SortBy([]string{"-mean_score", "title"})
		}
	case "recent":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"updated_at"})
		} else {
			req.SortBy([]string{"-updated_at"})
		}
	default:
		req.SortBy([]string{"-_score"})
	}
}

func extractFacets(res *bleve.SearchResult) Facets {
	facets := Facets{}

	if mediaFacet, ok := res.Facets["media_type"]; ok {
		for _, term := range mediaFacet.Terms.Terms() {
			facets.MediaTypes = append(facets.MediaTypes, FacetCount{Value: term.Term, Count: term.Count})
		}
	}
	if genreFacet, ok := res.Facets["genres"]; ok {
		for _, term := range genreFacet.Terms.Terms() {
			facets.Genres = append(facets.Genres, FacetCount{Value: term.Term, Count: term.Count})
		}
	}
	return facets
}
