package service

import (
	"context"
	"sort"
	"time"

	"aroha-api/internal/model"
	"aroha-api/internal/repository"
)

// IncludeSet passes records whose normalized answer to a question is
// one of the allowed values. An empty AnyOf means this dimension adds
// no constraint; a non-empty list that matches nothing excludes
// everything.
type IncludeSet struct {
	QuestionID int
	SubKey     string
	AnyOf      []string
}

// FilterCriteria is a compound predicate over the record set. All
// parts combine with logical AND. Date bounds are inclusive: From is
// applied at start-of-day and To at end-of-day; records without a
// parseable timestamp are excluded only when a date bound is set.
type FilterCriteria struct {
	IncludeSets []IncludeSet
	From        *time.Time
	To          *time.Time
}

// ResponseService lists, filters, and fetches survey responses.
type ResponseService struct {
	responseRepo repository.ResponseRepo
}

// NewResponseService creates a new response service
func NewResponseService(responseRepo repository.ResponseRepo) *ResponseService {
	return &ResponseService{responseRepo: responseRepo}
}

// List fetches all responses sorted newest first. Responses with an
// unknown submission date sort last, keeping their stored order.
func (s *ResponseService) List(ctx context.Context) ([]*model.SurveyResponse, error) {
	records, err := s.responseRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].SubmittedAt, records[j].SubmittedAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
	return records, nil
}

// GetByID returns a single response, or nil when not found.
func (s *ResponseService) GetByID(ctx context.Context, id string) (*model.SurveyResponse, error) {
	return s.responseRepo.GetByID(ctx, id)
}

// Filter applies criteria over records, returning a new slice that
// preserves the input's relative order. The input is never mutated,
// and filtering an already-filtered result with the same criteria is a
// no-op.
func (s *ResponseService) Filter(records []*model.SurveyResponse, criteria FilterCriteria) []*model.SurveyResponse {
	var from, to *time.Time
	if criteria.From != nil {
		t := startOfDay(*criteria.From)
		from = &t
	}
	if criteria.To != nil {
		t := endOfDay(*criteria.To)
		to = &t
	}

	out := make([]*model.SurveyResponse, 0, len(records))
	for _, r := range records {
		if !matchesIncludeSets(r, criteria.IncludeSets) {
			continue
		}
		if from != nil || to != nil {
			if r.SubmittedAt == nil {
				continue
			}
			if from != nil && r.SubmittedAt.Before(*from) {
				continue
			}
			if to != nil && r.SubmittedAt.After(*to) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func matchesIncludeSets(r *model.SurveyResponse, sets []IncludeSet) bool {
	for _, set := range sets {
		if len(set.AnyOf) == 0 {
			continue
		}
		v, ok := model.ResolveAnswer(r.Answers, set.QuestionID, set.SubKey)
		if !ok {
			return false
		}
		text := model.AnswerText(v)
		matched := false
		for _, allowed := range set.AnyOf {
			if text == allowed {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
