// Package scorer computes resume-to-job relevance scores.
//
// Both texts are represented as TF-IDF weighted vectors over their shared
// two-document corpus (stop words excluded) and compared with cosine
// similarity, scaled to an integer percentage in [0, 100]. The computation
// is pure, deterministic and symmetric in its two arguments.
package scorer

import (
	"math"
	"strings"
	"unicode"
)

// MatchScore returns the relevance of jobDescription to resumeText as an
// integer in [0, 100]. Empty or stop-word-only input yields 0 rather than
// an error; "no meaningful overlap" is a valid answer, not a failure.
func MatchScore(resumeText, jobDescription string) int {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobDescription) == "" {
		return 0
	}

	resumeTF := termFrequencies(resumeText)
	jobTF := termFrequencies(jobDescription)
	if len(resumeTF) == 0 || len(jobTF) == 0 {
		// Degenerate vocabulary: nothing survived tokenization.
		return 0
	}

	resumeVec := tfidfVector(resumeTF, jobTF)
	jobVec := tfidfVector(jobTF, resumeTF)

	cos := cosine(resumeVec, jobVec)
	if cos > 1 {
		cos = 1 // guard against float drift above exactly-equal vectors
	}
	if cos < 0 {
		cos = 0
	}

	// Truncate toward zero, never round.
	return int(cos * 100)
}

// termFrequencies tokenizes text into lowercase terms and counts them.
// Runs of letters and digits form a term; '+' '#' '.' are kept so terms
// like "c++", "c#" and "node.js" survive. Terms shorter than two runes or
// on the stop-word list are dropped.
func termFrequencies(text string) map[string]int {
	tf := make(map[string]int)
	var word strings.Builder

	flush := func() {
		if word.Len() == 0 {
			return
		}
		term := strings.TrimRight(word.String(), ".")
		word.Reset()
		if len([]rune(term)) < 2 || stopWords[term] {
			return
		}
		tf[term]++
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tf
}

// tfidfVector builds the l2-normalized TF-IDF vector for doc against the
// two-document corpus {doc, other}. IDF is smoothed:
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1, with n = 2
//
// so shared terms weigh less than terms unique to one document.
func tfidfVector(doc, other map[string]int) map[string]float64 {
	vec := make(map[string]float64, len(doc))
	var sumSq float64

	for term, count := range doc {
		df := 1.0
		if other[term] > 0 {
			df = 2.0
		}
		idf := math.Log(3.0/(1.0+df)) + 1
		w := float64(count) * idf
		vec[term] = w
		sumSq += w * w
	}

	norm := math.Sqrt(sumSq)
	if norm == 0 {
		return vec
	}
	for term := range vec {
		vec[term] /= norm
	}
	return vec
}

// cosine returns the dot product of two l2-normalized sparse vectors.
func cosine(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, w := range a {
		dot += w * b[term]
	}
	return dot
}
