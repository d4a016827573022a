package filters

import (
	"sort"

	"github.com/ppiankov/qfilter/internal/model"
	"github.com/ppiankov/qfilter/internal/query"
)

// GenerateAuthorFilters derives one author: filter per distinct commit author
// in matches, ordered by match count then name
func GenerateAuthorFilters(matches []model.SearchMatch) []model.ResultFilter {
	counts := make(map[string]int)
	for _, m := range matches {
		if m.Type != model.MatchCommit || m.Author == nil || m.Author.Name == "" {
			continue
		}
		counts[m.Author.Name]++
	}

	out := make([]model.ResultFilter, 0, len(counts))
	for name, count := range counts {
		out = append(out, model.ResultFilter{
			Value: query.FormatFilter(string(query.FieldAuthor), name),
			Label: name,
			Count: count,
			Kind:  KindAuthor,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
