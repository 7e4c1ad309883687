package recommend

import (
	"sort"

	"inkwell/business/scoring"
)

// rankCandidates sorts descending by score, breaking ties by more recent
// published_at and finally by content_id so identical inputs always produce
// the same order.
func rankCandidates(candidates []scoring.Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Content.PublishedAt.Equal(b.Content.PublishedAt) {
			return a.Content.PublishedAt.After(b.Content.PublishedAt)
		}
		return a.Content.ContentID < b.Content.ContentID
	})
}

// diversify rebuilds the ranked list greedily so that no more than maxRun
// consecutive items share a primary category: at each position it takes the
// best-scored remaining candidate that does not extend a full run, falling
// back to the best candidate when every remaining item would. Items without a
// category never extend a run. A maxRun of zero disables the pass.
func diversify(candidates []scoring.Candidate, maxRun int) []scoring.Candidate {
	if maxRun <= 0 || len(candidates) <= maxRun {
		return candidates
	}

	remaining := make([]scoring.Candidate, len(candidates))
	copy(remaining, candidates)

	out := make([]scoring.Candidate, 0, len(candidates))
	run := 0
	runCategory := ""

	for len(remaining) > 0 {
		pick := 0
		if runCategory != "" && run >= maxRun {
			for i, c := range remaining {
				if c.Content.PrimaryCategory() != runCategory {
					pick = i
					break
				}
			}
		}

		c := remaining[pick]
		remaining = append(remaining[:pick], remaining[pick+1:]...)
		out = append(out, c)

		cat := c.Content.PrimaryCategory()
		if cat != "" && cat == runCategory {
			run++
		} else {
			runCategory = cat
			run = 1
		}
	}

	return out
}

// paginate applies offset and count to the ranked list.
func paginate(candidates []scoring.Candidate, offset, count int) []scoring.Candidate {
	if offset >= len(candidates) {
		return nil
	}
	end := offset + count
	if end > len(candidates) {
		end = len(candidates)
	}
	return candidates[offset:end]
}
