package scorer_test

import (
	"testing"

	"jobautomation/pipeline-service/internal/scorer"
)

const sampleResume = "Python backend engineer with five years of PostgreSQL and Docker experience"

// ── Empty input ────────────────────────────────────────────────────────────

func TestMatchScore_EmptyInputs(t *testing.T) {
	cases := []struct {
		name   string
		resume string
		job    string
	}{
		{"both empty", "", ""},
		{"empty resume", "", "Looking for a Python backend engineer"},
		{"empty job", sampleResume, ""},
		{"whitespace resume", "   \n\t", "Looking for a Python backend engineer"},
		{"whitespace job", sampleResume, "   "},
	}
	for _, c := range cases {
		if got := scorer.MatchScore(c.resume, c.job); got != 0 {
			t.Errorf("%s: MatchScore = %d, want 0", c.name, got)
		}
	}
}

// ── Degenerate vocabulary ──────────────────────────────────────────────────

func TestMatchScore_StopWordsOnly(t *testing.T) {
	if got := scorer.MatchScore("the and of a", "is was were been"); got != 0 {
		t.Errorf("MatchScore(stop words only) = %d, want 0", got)
	}
}

func TestMatchScore_StopWordsOnlyOneSide(t *testing.T) {
	if got := scorer.MatchScore("the and of", sampleResume); got != 0 {
		t.Errorf("MatchScore(stop-word resume, real job) = %d, want 0", got)
	}
}

func TestMatchScore_SingleCharTokensDropped(t *testing.T) {
	// One-rune tokens never enter the vocabulary.
	if got := scorer.MatchScore("x y z", "x y z"); got != 0 {
		t.Errorf("MatchScore(single-char tokens) = %d, want 0", got)
	}
}

// ── Range and determinism ──────────────────────────────────────────────────

func TestMatchScore_Range(t *testing.T) {
	pairs := [][2]string{
		{sampleResume, "Looking for a Python backend engineer"},
		{sampleResume, "Pastry chef needed"},
		{sampleResume, sampleResume},
		{"go kubernetes grpc", "java spring hibernate"},
	}
	for _, p := range pairs {
		got := scorer.MatchScore(p[0], p[1])
		if got < 0 || got > 100 {
			t.Errorf("MatchScore(%q, %q) = %d, out of [0, 100]", p[0], p[1], got)
		}
	}
}

func TestMatchScore_Deterministic(t *testing.T) {
	job := "Looking for a Python backend engineer"
	first := scorer.MatchScore(sampleResume, job)
	for i := 0; i < 10; i++ {
		if got := scorer.MatchScore(sampleResume, job); got != first {
			t.Fatalf("MatchScore not deterministic: %d then %d", first, got)
		}
	}
}

// ── Symmetry ───────────────────────────────────────────────────────────────

func TestMatchScore_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{sampleResume, "Looking for a Python backend engineer"},
		{"go docker kubernetes", "docker swarm and kubernetes operators"},
		{"data scientist pandas numpy", "frontend react typescript"},
	}
	for _, p := range pairs {
		ab := scorer.MatchScore(p[0], p[1])
		ba := scorer.MatchScore(p[1], p[0])
		if ab != ba {
			t.Errorf("MatchScore(%q, %q) = %d but reversed = %d", p[0], p[1], ab, ba)
		}
	}
}

// ── Relevance ordering ─────────────────────────────────────────────────────

func TestMatchScore_IdenticalTextsNearPerfect(t *testing.T) {
	// Truncation of a cosine within float error of 1.0 may land on 99.
	got := scorer.MatchScore(sampleResume, sampleResume)
	if got < 99 || got > 100 {
		t.Errorf("MatchScore(identical texts) = %d, want 99 or 100", got)
	}
}

func TestMatchScore_RelatedBeatsUnrelated(t *testing.T) {
	resume := "Python backend engineer"
	related := scorer.MatchScore(resume, "Looking for a Python backend engineer")
	unrelated := scorer.MatchScore(resume, "Pastry chef needed")

	if related <= 50 {
		t.Errorf("near-identical vocabulary scored %d, want > 50", related)
	}
	if unrelated != 0 {
		t.Errorf("disjoint vocabulary scored %d, want 0", unrelated)
	}
	if related <= unrelated {
		t.Errorf("related score %d not above unrelated score %d", related, unrelated)
	}
}

func TestMatchScore_PartialOverlapBetweenExtremes(t *testing.T) {
	resume := "senior golang engineer building postgres backed services"
	job := "golang engineer wanted for frontend tooling"
	got := scorer.MatchScore(resume, job)
	if got <= 0 || got >= 100 {
		t.Errorf("partial overlap scored %d, want strictly inside (0, 100)", got)
	}
}

// ── Tokenization details ───────────────────────────────────────────────────

func TestMatchScore_CaseInsensitive(t *testing.T) {
	a := scorer.MatchScore("PYTHON BACKEND ENGINEER", "python backend engineer")
	if a < 99 {
		t.Errorf("case-folded identical texts scored %d, want >= 99", a)
	}
}

func TestMatchScore_TechTokensSurvive(t *testing.T) {
	// '+' and '#' are word characters, so c++ and c# are distinct real terms.
	if got := scorer.MatchScore("c++ developer", "c++ developer"); got < 99 {
		t.Errorf("c++ vocabulary scored %d, want >= 99", got)
	}
	if got := scorer.MatchScore("c# developer", "c++ developer"); got >= 99 {
		t.Errorf("c# vs c++ scored %d, want below identical-text score", got)
	}
}
