package search

import (
	"sort"
	"strings"

	"github.com/brightpool/assetvault/core"
)

// Score contributions for the fused ranking.
const (
	scoreExactFilename    = 100
	scoreFilenameContains = 50
	scoreTagToken         = 30
	scoreSimilarityHigh   = 20
	scoreSimilarityMid    = 10
	scoreSimilarityLow    = 5
)

// Rank merges keyword and semantic candidates into one deduplicated list with
// a deterministic total order. A candidate found by both matchers appears
// once, accumulating its keyword score and semantic bonus on the same entry.
//
// Scoring, all comparisons case-insensitive:
//   - filename equals the trimmed query: +100
//   - filename contains the query (but is not an exact match): +50
//   - per query token found as an exact entry in ai_tags: +30, and
//     independently in user_tags: +30
//   - best similarity > 0.8: +20; > 0.6: +10; > 0.5: +5
//
// Ordering: score descending, then creation time descending, then ID
// ascending as the final deterministic key.
func Rank(keyword []*core.Asset, semantic []*core.SimilarityMatch, query string) []*core.RankedAsset {
	candidates := make(map[core.ID]*core.RankedAsset)
	var order []core.ID

	for _, asset := range keyword {
		if asset == nil {
			continue
		}
		if _, ok := candidates[asset.Id]; ok {
			continue
		}
		candidates[asset.Id] = &core.RankedAsset{
			Asset: asset,
			Match: core.MatchKeyword,
		}
		order = append(order, asset.Id)
	}

	for _, match := range semantic {
		if match == nil || match.Asset == nil {
			continue
		}
		if existing, ok := candidates[match.Asset.Id]; ok {
			// Keep the best similarity when the matcher reports duplicates
			if match.Similarity > existing.Similarity {
				existing.Similarity = match.Similarity
			}
			continue
		}
		candidates[match.Asset.Id] = &core.RankedAsset{
			Asset:      match.Asset,
			Match:      core.MatchSemantic,
			Similarity: match.Similarity,
		}
		order = append(order, match.Asset.Id)
	}

	results := make([]*core.RankedAsset, 0, len(order))
	for _, id := range order {
		candidate := candidates[id]
		candidate.Score = scoreCandidate(candidate, query)
		results = append(results, candidate)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if !results[i].Asset.CreatedAt.Equal(results[j].Asset.CreatedAt) {
			return results[i].Asset.CreatedAt.After(results[j].Asset.CreatedAt)
		}
		return results[i].Asset.Id < results[j].Asset.Id
	})

	return results
}

// scoreCandidate computes the additive relevance score for one candidate.
func scoreCandidate(candidate *core.RankedAsset, query string) int {
	score := 0

	q := strings.ToLower(strings.TrimSpace(query))
	filename := strings.ToLower(strings.TrimSpace(candidate.Asset.Filename))

	if q != "" {
		if filename == q {
			score += scoreExactFilename
		} else if strings.Contains(filename, q) {
			score += scoreFilenameContains
		}
	}

	for _, token := range strings.Fields(q) {
		if containsToken(candidate.Asset.AITags, token) {
			score += scoreTagToken
		}
		if containsToken(candidate.Asset.UserTags, token) {
			score += scoreTagToken
		}
	}

	score += similarityBonus(candidate.Similarity)
	return score
}

// similarityBonus maps a cosine similarity to its score contribution. The
// comparisons are strict: exactly 0.8 earns the mid bonus, exactly 0.5 earns
// nothing.
func similarityBonus(similarity float32) int {
	switch {
	case similarity > 0.8:
		return scoreSimilarityHigh
	case similarity > 0.6:
		return scoreSimilarityMid
	case similarity > 0.5:
		return scoreSimilarityLow
	default:
		return 0
	}
}

// containsToken reports whether any tag equals the token, case-insensitively.
func containsToken(tags []string, token string) bool {
	for _, tag := range tags {
		if strings.EqualFold(strings.TrimSpace(tag), token) {
			return true
		}
	}
	return false
}
