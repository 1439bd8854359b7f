package service

import (
	"context"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"aroha-api/internal/cache"
	"aroha-api/internal/model"
	"aroha-api/internal/repository"
)

// AggregateKind selects how answers are reduced into buckets.
type AggregateKind string

const (
	// AggregateFrequency groups by raw answer value with count and
	// percentage of the denominator.
	AggregateFrequency AggregateKind = "frequency"
	// AggregateTopN is frequency sorted descending and truncated, with
	// long labels shortened for display.
	AggregateTopN AggregateKind = "topN"
	// AggregateMean averages numeric-parseable answers.
	AggregateMean AggregateKind = "mean"
)

// NotSpecifiedLabel buckets qualifying records that never answered the
// question, so frequency percentages always account for the full
// denominator.
const NotSpecifiedLabel = "Not specified"

// Subpopulation narrows an aggregation's denominator to records whose
// answer to a screening question is one of the allowed values.
type Subpopulation struct {
	QuestionID int
	SubKey     string
	AnyOf      []string
}

// AggregateSpec describes one aggregation over the record set.
type AggregateSpec struct {
	QuestionID int
	SubKey     string
	Kind       AggregateKind
	// Limit caps topN output; zero means no cap.
	Limit int
	// LabelMax truncates display labels with an ellipsis; zero means no
	// truncation. Grouping always happens on the raw value.
	LabelMax int
	Where    *Subpopulation
}

// AnalyticsService computes derived aggregates over the survey record
// set: dashboard stats, chart buckets, and the fixed payload fed to
// the insight generator.
type AnalyticsService struct {
	responseRepo repository.ResponseRepo
	dashCache    cache.DashboardCache
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(responseRepo repository.ResponseRepo, dashCache cache.DashboardCache) *AnalyticsService {
	return &AnalyticsService{
		responseRepo: responseRepo,
		dashCache:    dashCache,
	}
}

// Aggregate reduces records to buckets per spec. It is deterministic:
// frequency buckets appear in first-encounter order, topN ties are
// broken by first-encounter order, and equal inputs always produce
// equal output.
func (s *AnalyticsService) Aggregate(records []*model.SurveyResponse, spec AggregateSpec) []model.Bucket {
	qualifying := records
	if spec.Where != nil {
		qualifying = qualifyingSet(records, spec.Where)
	}

	if spec.Kind == AggregateMean {
		return []model.Bucket{{Average: s.Mean(qualifying, spec.QuestionID, spec.SubKey)}}
	}

	counts := make(map[string]int)
	var order []string
	for _, r := range qualifying {
		for _, val := range answerValues(r, spec.QuestionID, spec.SubKey) {
			if _, seen := counts[val]; !seen {
				order = append(order, val)
			}
			counts[val]++
		}
	}

	denominator := len(qualifying)
	buckets := make([]model.Bucket, 0, len(order))
	for _, val := range order {
		b := model.Bucket{Label: val, Count: counts[val]}
		if denominator > 0 {
			b.Percentage = round1(float64(b.Count) / float64(denominator) * 100)
		}
		buckets = append(buckets, b)
	}

	if spec.Kind == AggregateTopN {
		sort.SliceStable(buckets, func(i, j int) bool {
			return buckets[i].Count > buckets[j].Count
		})
		if spec.Limit > 0 && len(buckets) > spec.Limit {
			buckets = buckets[:spec.Limit]
		}
	}

	if spec.LabelMax > 0 {
		for i := range buckets {
			buckets[i].Label = truncateLabel(buckets[i].Label, spec.LabelMax)
		}
	}

	return buckets
}

// Mean averages the numeric-parseable answers of the given question
// over records where it is present. An empty qualifying set yields 0,
// never NaN.
func (s *AnalyticsService) Mean(records []*model.SurveyResponse, questionID int, subKey string) float64 {
	var sum float64
	var n int
	for _, r := range records {
		v, ok := model.ResolveAnswer(r.Answers, questionID, subKey)
		if !ok {
			continue
		}
		f, ok := model.AnswerFloat(v)
		if !ok {
			continue
		}
		sum += f
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Dashboard returns the admin dashboard payload, served from the
// short-TTL cache when warm.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	if s.dashCache != nil {
		if cached, err := s.dashCache.Get(ctx); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			log.Printf("dashboard cache read failed: %v", err)
		}
	}

	records, err := s.responseRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := s.BuildDashboard(records)

	if s.dashCache != nil {
		if err := s.dashCache.Set(ctx, stats); err != nil {
			log.Printf("dashboard cache write failed: %v", err)
		}
	}
	return stats, nil
}

// BuildDashboard computes dashboard stats from an already-fetched
// record set.
func (s *AnalyticsService) BuildDashboard(records []*model.SurveyResponse) *model.DashboardStats {
	now := time.Now()
	stats := &model.DashboardStats{
		Total:      len(records),
		ComputedAt: now,
	}

	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, r := range records {
		if r.Completed {
			stats.Completed++
		}
		if r.SubmittedAt != nil && !r.SubmittedAt.Before(startOfToday) {
			stats.Today++
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = round1(float64(stats.Completed) / float64(stats.Total) * 100)
	}

	partners := &Subpopulation{QuestionID: model.QHasPartner, AnyOf: model.PartnerYesValues}

	stats.AgeDistribution = s.Aggregate(records, AggregateSpec{QuestionID: model.QAgeGroup, Kind: AggregateFrequency})
	stats.TopFrustrations = s.Aggregate(records, AggregateSpec{QuestionID: model.QFrustration, Kind: AggregateTopN, Limit: 7, LabelMax: 40})
	stats.PartnerToolInterest = s.Aggregate(records, AggregateSpec{QuestionID: model.QPartnerTool, Kind: AggregateFrequency, Where: partners})
	stats.PaymentWillingness = s.Aggregate(records, AggregateSpec{QuestionID: model.QPayment, Kind: AggregateFrequency, LabelMax: 30})

	return stats
}

// BuildAggregatedData computes the full insight-generator input: the
// fixed set of demographic, partner-communication, impact, and
// monetization aggregates plus bounded free-text samples.
func (s *AnalyticsService) BuildAggregatedData(records []*model.SurveyResponse) *model.AggregatedData {
	partners := &Subpopulation{QuestionID: model.QHasPartner, AnyOf: model.PartnerYesValues}
	partnerRecords := qualifyingSet(records, partners)

	data := &model.AggregatedData{
		TotalResponses: len(records),
		PartnersTotal:  len(partnerRecords),

		AgeDistribution:    s.Aggregate(records, AggregateSpec{QuestionID: model.QAgeGroup, Kind: AggregateFrequency}),
		RelationshipStatus: s.Aggregate(records, AggregateSpec{QuestionID: model.QRelationshipStatus, Kind: AggregateFrequency}),
		LifeStages:         s.Aggregate(records, AggregateSpec{QuestionID: model.QLifeStage, Kind: AggregateFrequency}),

		TopFrustrations: s.Aggregate(records, AggregateSpec{QuestionID: model.QFrustration, Kind: AggregateTopN, Limit: 10}),

		PartnerToolInterest:  s.Aggregate(records, AggregateSpec{QuestionID: model.QPartnerTool, Kind: AggregateFrequency, Where: partners}),
		PartnerUnderstanding: s.Aggregate(records, AggregateSpec{QuestionID: model.QPartnerUnderstanding, Kind: AggregateFrequency, Where: partners}),
		PartnerDismisses:     s.Aggregate(records, AggregateSpec{QuestionID: model.QPartnerDismisses, Kind: AggregateFrequency, Where: partners}),
		PartnerConflicts:     s.Aggregate(records, AggregateSpec{QuestionID: model.QConflicts, Kind: AggregateFrequency, Where: partners}),

		ComfortAverages: make(map[string]float64, len(model.ComfortTopics)),
		ImpactAverages:  make(map[string]float64, len(model.ImpactTopics)),

		AITrust:            s.Aggregate(records, AggregateSpec{QuestionID: model.QAITrust, Kind: AggregateFrequency}),
		PaymentWillingness: s.Aggregate(records, AggregateSpec{QuestionID: model.QPayment, Kind: AggregateFrequency}),
	}

	for _, topic := range model.ComfortTopics {
		data.ComfortAverages[topic.Label] = round2(s.Mean(partnerRecords, model.QComfortMatrix, topic.SubKey))
	}
	for _, topic := range model.ImpactTopics {
		data.ImpactAverages[topic.Label] = round2(s.Mean(records, model.QImpactMatrix, topic.SubKey))
	}

	data.AveragePaymentAmount = round2(meanPaymentAmount(records))

	data.PartnerStories = sampleQuotes(records, model.QPartnerStory, maxQuoteSamples)
	data.OneThingEasier = sampleQuotes(records, model.QOneThingEasier, maxQuoteSamples)
	data.PerfectCompanion = sampleQuotes(records, model.QCompanionVision, maxQuoteSamples)

	return data
}

// maxQuoteSamples bounds free-text samples per category to keep the
// prompt size in check.
const maxQuoteSamples = 20

// minQuoteLength filters out throwaway free-text answers.
const minQuoteLength = 10

func sampleQuotes(records []*model.SurveyResponse, questionID int, limit int) []model.QuoteSample {
	var quotes []model.QuoteSample
	for _, r := range records {
		if len(quotes) >= limit {
			break
		}
		v, ok := model.ResolveAnswer(r.Answers, questionID, "")
		if !ok {
			continue
		}
		text := model.AnswerText(v)
		if len(text) <= minQuoteLength {
			continue
		}
		quotes = append(quotes, model.QuoteSample{
			Text:        text,
			AgeGroup:    answerTextOf(r, model.QAgeGroup),
			LifeStage:   answerTextOf(r, model.QLifeStage),
			Frustration: answerTextOf(r, model.QFrustration),
		})
	}
	return quotes
}

// meanPaymentAmount averages the free-text payment amounts, stripping
// currency symbols and grouping separators before parsing.
func meanPaymentAmount(records []*model.SurveyResponse) float64 {
	var sum float64
	var n int
	for _, r := range records {
		v, ok := model.ResolveAnswer(r.Answers, model.QPayment, model.PaymentAmountSubKey)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(stripNonNumeric(model.AnswerText(v)), 64)
		if err != nil {
			continue
		}
		sum += f
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, c := range s {
		if (c >= '0' && c <= '9') || c == '.' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func qualifyingSet(records []*model.SurveyResponse, where *Subpopulation) []*model.SurveyResponse {
	var out []*model.SurveyResponse
	for _, r := range records {
		v, ok := model.ResolveAnswer(r.Answers, where.QuestionID, where.SubKey)
		if !ok {
			continue
		}
		text := model.AnswerText(v)
		for _, allowed := range where.AnyOf {
			if text == allowed {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// answerValues returns the countable values of an answer: each
// selection of a multi-select, the scalar value otherwise, or the
// NotSpecifiedLabel when the question was never answered.
func answerValues(r *model.SurveyResponse, questionID int, subKey string) []string {
	v, ok := model.ResolveAnswer(r.Answers, questionID, subKey)
	if !ok {
		return []string{NotSpecifiedLabel}
	}
	if list := model.AnswerList(v); list != nil {
		return list
	}
	return []string{model.AnswerText(v)}
}

func answerTextOf(r *model.SurveyResponse, questionID int) string {
	v, ok := model.ResolveAnswer(r.Answers, questionID, "")
	if !ok {
		return ""
	}
	return model.AnswerText(v)
}

// truncateLabel shortens display labels on rune boundaries; free-text
// answers can carry multi-byte characters.
func truncateLabel(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
