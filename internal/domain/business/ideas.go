package business

import (
	"github.com/grimes-money/money-adventure/internal/domain/shared"
)

// MaxIdeas is the number of ideas kept per timeframe.
const MaxIdeas = 4

// Rand is the random source used for sampling. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Ideas holds the generated ideas per timeframe.
type Ideas struct {
	Now    []string `json:"now"`
	Future []string `json:"future"`
}

// For returns the ideas of one timeframe.
func (i Ideas) For(tf shared.Timeframe) []string {
	if tf == shared.TimeframeFuture {
		return i.Future
	}
	return i.Now
}

// Contains reports whether idea was offered under tf.
func (i Ideas) Contains(idea string, tf shared.Timeframe) bool {
	for _, v := range i.For(tf) {
		if v == idea {
			return true
		}
	}
	return false
}

// BuildIdeas merges the table ideas of every interest for city, appends
// extra, dedupes and keeps MaxIdeas per timeframe. A timeframe left empty
// is filled by sampling the fallback list without replacement.
func BuildIdeas(city string, interests []string, extra Ideas, rng Rand) Ideas {
	build := func(tf shared.Timeframe) []string {
		lists := make([][]string, 0, len(interests))
		for _, interest := range interests {
			if l := LookupIdeas(interest, city, tf); len(l) > 0 {
				lists = append(lists, l)
			}
		}
		merged := append(roundRobin(lists), extra.For(tf)...)
		out := truncate(dedupe(merged), MaxIdeas)
		if len(out) == 0 {
			out = sample(FallbackIdeas[tf], MaxIdeas, rng)
		}
		return out
	}
	return Ideas{
		Now:    build(shared.TimeframeNow),
		Future: build(shared.TimeframeFuture),
	}
}

// roundRobin interleaves lists: the first of each, then the second of each.
func roundRobin(lists [][]string) []string {
	var out []string
	for i := 0; ; i++ {
		took := false
		for _, l := range lists {
			if i < len(l) {
				out = append(out, l[i])
				took = true
			}
		}
		if !took {
			return out
		}
	}
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func truncate(in []string, n int) []string {
	if len(in) > n {
		return in[:n]
	}
	return in
}

// sample draws up to n distinct entries with a partial Fisher-Yates shuffle.
func sample(src []string, n int, rng Rand) []string {
	pool := append([]string(nil), src...)
	n = min(n, len(pool))
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
