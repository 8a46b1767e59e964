package profile

import (
	"math"
	"testing"
)

func TestExtractLearningStyles_EmptyHistory(t *testing.T) {
	p := ExtractLearningStyles(nil)

	for _, key := range []string{"visual", "auditory", "reading_writing", "kinesthetic"} {
		if got := p.PerceptualMode[key]; got != 0.25 {
			t.Errorf("Expected uniform prior 0.25 for %s, got %v", key, got)
		}
	}
}

func TestExtractLearningStyles_DistributionsSumToOne(t *testing.T) {
	histories := [][]string{
		{"can you show me a diagram of this?"},
		{"walk me through an example", "I want to practice this myself"},
		{"no cue words here at all"},
		{"quiz", "quiz", "quiz", "test me again please"},
	}

	for _, history := range histories {
		p := ExtractLearningStyles(history)
		for name, category := range p.Categories() {
			var sum float64
			for key, v := range category {
				if v < 0 {
					t.Errorf("Negative weight %v for %s.%s", v, name, key)
				}
				sum += v
			}
			if math.Abs(sum-1.0) > 1e-9 {
				t.Errorf("Category %s sums to %v, want 1.0 (history %v)", name, sum, history)
			}
		}
	}
}

func TestExtractLearningStyles_CueShiftsWeight(t *testing.T) {
	p := ExtractLearningStyles([]string{
		"can you show me a diagram? I need to visualize this picture",
	})

	if p.PerceptualMode["visual"] <= p.PerceptualMode["auditory"] {
		t.Errorf("Expected visual > auditory after visual cues, got visual=%v auditory=%v",
			p.PerceptualMode["visual"], p.PerceptualMode["auditory"])
	}
}

func TestUpdateKnowledgeTrace_EmptyHistory(t *testing.T) {
	ks := UpdateKnowledgeTrace(nil)
	if len(ks.Topics) != 0 {
		t.Fatalf("Expected empty topic map, got %d topics", len(ks.Topics))
	}
}

func TestUpdateKnowledgeTrace_Signals(t *testing.T) {
	up := UpdateKnowledgeTrace([]string{"i understand recursion now, makes sense"})
	down := UpdateKnowledgeTrace([]string{"i am confused about recursion"})

	upTrace, ok := up.Topics["recursion"]
	if !ok {
		t.Fatal("Expected topic 'recursion' to be traced")
	}
	downTrace := down.Topics["recursion"]

	if upTrace.Mastery <= 0.5 {
		t.Errorf("Expected mastery above neutral after understanding signal, got %v", upTrace.Mastery)
	}
	if downTrace.Mastery >= 0.5 {
		t.Errorf("Expected mastery below neutral after confusion signal, got %v", downTrace.Mastery)
	}
	if upTrace.Weight <= 0 {
		t.Errorf("Expected positive topic weight, got %v", upTrace.Weight)
	}
}

func TestUpdateKnowledgeTrace_MasteryClamped(t *testing.T) {
	var history []string
	for i := 0; i < 20; i++ {
		history = append(history, "i understand recursion, makes sense")
	}
	ks := UpdateKnowledgeTrace(history)

	if m := ks.Topics["recursion"].Mastery; m > 1.0 {
		t.Errorf("Mastery exceeded 1.0: %v", m)
	}
}
