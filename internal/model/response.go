package model

import "time"

// SurveyResponse is a single stored survey submission. Responses are
// immutable once stored; everything downstream (dashboard stats,
// filtered views, exports, insight reports) is derived fresh from them.
type SurveyResponse struct {
	ID          string         `json:"id" bson:"_id,omitempty"`
	SubmittedAt *time.Time     `json:"submittedAt,omitempty" bson:"submittedAt,omitempty"`
	Completed   bool           `json:"completed" bson:"completed"`
	Answers     map[string]any `json:"answers" bson:"answers"`
}

// HasPartner reports whether this respondent answered the partner
// screening question affirmatively. Partner-only questions (Q10-Q17)
// are aggregated over this subpopulation.
func (r *SurveyResponse) HasPartner() bool {
	v, ok := ResolveAnswer(r.Answers, QHasPartner, "")
	if !ok {
		return false
	}
	text := AnswerText(v)
	for _, yes := range PartnerYesValues {
		if text == yes {
			return true
		}
	}
	return false
}
