package recommendation

import (
	"math"
	"sort"
	"time"
)

// scored pairs a product id with its blended score before the snapshot join.
type scored struct {
	ProductID int
	Score     float64
	AvgRating float64
}

// decayFactor returns the recency weight of a purchase made at occurredAt,
// evaluated at the instant `at`. A purchase made at the evaluation instant
// weighs 1.0, one HalfLifeDays old weighs 0.5, one twice that old 0.25.
// Events timestamped after `at` are clamped to age zero.
func decayFactor(at, occurredAt time.Time) float64 {
	ageDays := at.Sub(occurredAt).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return math.Pow(0.5, ageDays/HalfLifeDays)
}

// scoreDecayed computes the peer-path score: the sum of each event's quantity
// weighted by its recency decay, plus the weighted average rating. Events are
// summed independently; two peers buying the same product contribute
// additively.
func scoreDecayed(c Candidate, at time.Time) float64 {
	sum := 0.0
	for _, e := range c.Events {
		sum += float64(e.Quantity) * decayFactor(at, e.OccurredAt)
	}
	return sum + RatingWeight*c.AvgRating
}

// scoreTrending computes the fallback score over raw quantities. The fallback
// deliberately applies no recency decay: it ranks all-time popularity. Keep it
// that way unless product requirements change.
func scoreTrending(c TrendingCandidate) float64 {
	return float64(c.QuantitySum) + RatingWeight*c.AvgRating
}

// rank deduplicates by product id (keeping the higher score), sorts by score
// descending with product id ascending as the tie-break, and truncates to
// topN. The tie-break is applied here explicitly; map iteration order during
// aggregation carries no meaning.
func rank(items []scored, topN int) []scored {
	if topN <= 0 {
		topN = DefaultTopN
	}

	best := make(map[int]scored, len(items))
	for _, it := range items {
		if cur, ok := best[it.ProductID]; !ok || it.Score > cur.Score {
			best[it.ProductID] = it
		}
	}

	out := make([]scored, 0, len(best))
	for _, it := range best {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ProductID < out[j].ProductID
	})

	if len(out) > topN {
		out = out[:topN]
	}
	return out
}
