package profile

import (
	"context"
	"fmt"

	"tutormind-backend/internal/models"
)

// Config holds the smoothing factor and the heuristic engagement constants.
// The weights and caps have no derivation beyond tuning, so they are kept
// configurable rather than inlined.
type Config struct {
	Alpha float64 // EMA smoothing factor for metrics and category blending

	TimeWeight        float64
	LengthWeight      float64
	InteractionWeight float64

	TimeCapMinutes         float64
	LengthCapChars         float64
	InteractionCapMessages float64
}

func DefaultConfig() Config {
	return Config{
		Alpha:                  0.7,
		TimeWeight:             0.3,
		LengthWeight:           0.4,
		InteractionWeight:      0.3,
		TimeCapMinutes:         120,
		LengthCapChars:         500,
		InteractionCapMessages: 20,
	}
}

// Updater merges freshly extracted style vectors into a stored profile and
// recomputes the derived learning metrics.
type Updater struct {
	cfg   Config
	store Store
}

func NewUpdater(cfg Config, store Store) *Updater {
	return &Updater{cfg: cfg, store: store}
}

// Apply blends fresh into current in place, recomputes learning metrics
// from the knowledge state and message history, and persists the result
// when a user id is supplied. Anonymous chats (empty userID) never persist.
func (u *Updater) Apply(ctx context.Context, userID string, current, fresh *models.LearningStyleProfile, ks *models.KnowledgeState, msgs []models.ChatMessage) error {
	avgTime := u.timeToLearn(msgs, current.LearningMetrics["time_to_learn"])

	current.LearningMetrics["completion_rate"] = clamp01(completionRate(ks))
	current.LearningMetrics["time_to_learn"] = avgTime
	current.LearningMetrics["engagement_score"] = clamp01(u.engagementScore(avgTime, averageUserLength(msgs), len(msgs)))

	freshCategories := fresh.Categories()
	for name, category := range current.Categories() {
		blendCategory(category, freshCategories[name], u.cfg.Alpha)
	}

	if userID == "" || u.store == nil {
		return nil
	}

	if err := u.store.SetProfile(ctx, userID, current); err != nil {
		return fmt.Errorf("failed to persist profile for %s: %w", userID, err)
	}
	if err := u.store.SetKnowledgeState(ctx, userID, ks); err != nil {
		return fmt.Errorf("failed to persist knowledge state for %s: %w", userID, err)
	}
	return nil
}

// completionRate is the topic-weight-averaged mastery, 0 when there are no
// topics or the total weight is 0.
func completionRate(ks *models.KnowledgeState) float64 {
	if ks == nil || len(ks.Topics) == 0 {
		return 0
	}

	var weighted, total float64
	for _, trace := range ks.Topics {
		weighted += trace.Mastery * trace.Weight
		total += trace.Weight
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// timeToLearn is an exponential moving average over inter-message deltas in
// minutes, seeded with the first delta. With fewer than two timestamped
// messages it passes through the previously stored value.
func (u *Updater) timeToLearn(msgs []models.ChatMessage, prior float64) float64 {
	var deltas []float64
	var last *models.ChatMessage
	for i := range msgs {
		if msgs[i].Timestamp == nil {
			continue
		}
		if last != nil {
			deltas = append(deltas, msgs[i].Timestamp.Sub(*last.Timestamp).Minutes())
		}
		last = &msgs[i]
	}

	if len(deltas) == 0 {
		return prior
	}

	avg := deltas[0]
	for _, d := range deltas[1:] {
		avg = u.cfg.Alpha*d + (1-u.cfg.Alpha)*avg
	}
	return avg
}

// averageUserLength divides the total character count of user messages by
// the total message count (assistant turns included in the denominator).
func averageUserLength(msgs []models.ChatMessage) float64 {
	if len(msgs) == 0 {
		return 0
	}
	var chars int
	for _, m := range msgs {
		if m.Role == "user" {
			chars += len(m.Content)
		}
	}
	return float64(chars) / float64(len(msgs))
}

func (u *Updater) engagementScore(avgTime, avgLength float64, messageCount int) float64 {
	timeFactor := capAt1(avgTime / u.cfg.TimeCapMinutes)
	lengthFactor := capAt1(avgLength / u.cfg.LengthCapChars)
	interactionFactor := capAt1(float64(messageCount) / u.cfg.InteractionCapMessages)

	return u.cfg.TimeWeight*timeFactor +
		u.cfg.LengthWeight*lengthFactor +
		u.cfg.InteractionWeight*interactionFactor
}

func capAt1(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// blendCategory applies the convex combination current = α·fresh + (1-α)·current
// per key, then renormalizes so the category still sums to 1 even if the
// operands' key sets were out of step.
func blendCategory(current, fresh map[string]float64, alpha float64) {
	for key, cur := range current {
		if nv, ok := fresh[key]; ok {
			current[key] = alpha*nv + (1-alpha)*cur
		}
	}

	var total float64
	for _, v := range current {
		total += v
	}
	if total <= 0 {
		return
	}
	for key, v := range current {
		current[key] = v / total
	}
}
