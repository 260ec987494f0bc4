// Package consensus cleans up per-item extraction noise using the batch majority.
package consensus

import "github.com/goodnatureofminers/otsproof-backend/internal/proof/model"

// ReconcileFields replaces UNKNOWN version and packer values with the most frequent
// concrete value of the batch. Fields are handled independently and concrete values
// are never altered. The input slice is not modified.
func ReconcileFields(candidates []model.ExtractionCandidate) []model.ExtractionCandidate {
	if len(candidates) == 0 {
		return candidates
	}

	out := make([]model.ExtractionCandidate, len(candidates))
	copy(out, candidates)

	version, hasVersion := mostFrequent(out, func(c model.ExtractionCandidate) string { return c.Version })
	packer, hasPacker := mostFrequent(out, func(c model.ExtractionCandidate) string { return c.Packer })

	for i := range out {
		if hasVersion && out[i].Version == model.Unknown {
			out[i].Version = version
		}
		if hasPacker && out[i].Packer == model.Unknown {
			out[i].Packer = packer
		}
	}
	return out
}

// mostFrequent counts concrete values in a single pass. On a tie the value that
// reached the maximum count first wins.
func mostFrequent(candidates []model.ExtractionCandidate, field func(model.ExtractionCandidate) string) (string, bool) {
	counts := make(map[string]int)
	best, bestCount := "", 0
	for _, c := range candidates {
		v := field(c)
		if v == "" || v == model.Unknown {
			continue
		}
		counts[v]++
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best, bestCount > 0
}
