package profile

import (
	"strings"

	"tutormind-backend/internal/models"
)

// Cue phrase tables used to score learning-style signals in student
// messages. Scoring starts from a uniform prior, so a history with no cue
// hits resolves back to the uniform profile.
var styleCues = map[string]map[string][]string{
	"perceptual_mode": {
		"visual":          {"see", "picture", "diagram", "visualize", "imagine", "show me", "looks like", "chart", "draw"},
		"auditory":        {"hear", "sounds", "tell me", "explain out loud", "talk", "listen", "say it", "discuss"},
		"reading_writing": {"write", "read", "notes", "list", "definition", "summary", "text", "spell out"},
		"kinesthetic":     {"try", "practice", "hands-on", "do it", "build", "example", "walk me through", "exercise"},
	},
	"cognitive_style": {
		"analytical": {"why", "prove", "reason", "logic", "break down", "step by step", "derive"},
		"intuitive":  {"feel like", "roughly", "big picture", "gist", "intuition", "sense of"},
		"sequential": {"first", "then", "next", "in order", "one at a time", "sequence"},
		"global":     {"overall", "big picture", "how does this fit", "context", "connect", "relate"},
	},
	"social_preference": {
		"independent":   {"myself", "on my own", "alone", "self-study"},
		"collaborative": {"we", "together", "group", "classmates", "study with"},
		"competitive":   {"score", "rank", "beat", "compare", "leaderboard"},
		"mentored":      {"guide me", "help me", "coach", "teach me", "mentor"},
	},
	"instruction_style": {
		"structured":     {"outline", "syllabus", "plan", "organized", "framework"},
		"exploratory":    {"what if", "explore", "curious", "experiment", "play around"},
		"example_driven": {"example", "instance", "for example", "sample", "case"},
		"theory_first":   {"theory", "principle", "formal", "definition first", "foundation"},
	},
	"assessment_preference": {
		"quizzes":     {"quiz", "test me", "questions", "exam", "multiple choice"},
		"projects":    {"project", "build", "create", "apply", "assignment"},
		"discussion":  {"discuss", "debate", "talk about", "conversation"},
		"self_review": {"review", "recap", "summarize", "go over", "check my understanding"},
	},
}

// ExtractLearningStyles scores a conversation history into a learning-style
// profile. Pure function of its input: no I/O, no mutation of shared state.
// Later messages are weighted more heavily than earlier ones. An empty
// history returns the uniform-prior profile.
func ExtractLearningStyles(history []string) *models.LearningStyleProfile {
	p := models.NewLearningStyleProfile()
	if len(history) == 0 {
		return p
	}

	for category, cues := range styleCues {
		scores := make(map[string]float64, len(cues))
		for key := range cues {
			scores[key] = 1.0 // uniform prior mass
		}

		for i, msg := range history {
			lower := strings.ToLower(msg)
			// Temporal weighting: the most recent message counts twice as
			// much as the oldest.
			weight := 1.0 + float64(i)/float64(len(history))
			for key, phrases := range cues {
				for _, phrase := range phrases {
					if strings.Contains(lower, phrase) {
						scores[key] += weight
					}
				}
			}
		}

		normalizeInto(p.Categories()[category], scores)
	}

	return p
}

func normalizeInto(dst map[string]float64, scores map[string]float64) {
	var total float64
	for _, v := range scores {
		total += v
	}
	if total <= 0 {
		return
	}
	for key, v := range scores {
		dst[key] = v / total
	}
}

// Understanding and confusion signal phrases used for mastery tracking.
var understandingSignals = []string{
	"i understand", "makes sense", "got it", "i see now", "that is clear", "that's clear", "thanks, that helps",
}

var confusionSignals = []string{
	"confused", "don't understand", "do not understand", "unclear", "i'm lost", "doesn't make sense", "what does", "can you explain",
}

var topicStopwords = map[string]bool{
	"about": true, "after": true, "again": true, "before": true, "being": true,
	"between": true, "could": true, "should": true, "would": true, "there": true,
	"their": true, "these": true, "those": true, "through": true, "because": true,
	"really": true, "please": true, "something": true, "anything": true,
	"understand": true, "explain": true, "question": true, "answer": true,
	"lecture": true, "transcript": true,
}

// UpdateKnowledgeTrace derives a per-topic mastery estimate from the
// conversation history. Topics are content words; each mention bumps the
// topic weight, and understanding/confusion phrases in the same message
// nudge mastery up or down from a neutral 0.5 starting point. Empty input
// returns an empty topic map.
func UpdateKnowledgeTrace(history []string) *models.KnowledgeState {
	ks := models.NewKnowledgeState()

	for _, msg := range history {
		lower := strings.ToLower(msg)

		signal := 0.0
		for _, phrase := range understandingSignals {
			if strings.Contains(lower, phrase) {
				signal = 0.15
				break
			}
		}
		if signal == 0 {
			for _, phrase := range confusionSignals {
				if strings.Contains(lower, phrase) {
					signal = -0.15
					break
				}
			}
		}

		for _, word := range topicWords(lower) {
			trace, ok := ks.Topics[word]
			if !ok {
				trace = models.TopicTrace{Mastery: 0.5}
			}
			trace.Weight += 1.0
			trace.Mastery = clamp01(trace.Mastery + signal)
			ks.Topics[word] = trace
		}
	}

	return ks
}

func topicWords(lower string) []string {
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && r != '-' && r != '_'
	})

	seen := make(map[string]bool)
	var words []string
	for _, f := range fields {
		if len(f) < 6 || topicStopwords[f] || seen[f] {
			continue
		}
		seen[f] = true
		words = append(words, f)
	}
	return words
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
