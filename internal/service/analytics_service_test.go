package service

import (
	"math"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"aroha-api/internal/model"
)

func respWith(answers map[string]any) *model.SurveyResponse {
	return &model.SurveyResponse{Answers: answers}
}

func TestAggregateFrequencyPercentagesSumTo100(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)
	records := []*model.SurveyResponse{
		respWith(map[string]any{"1": "25-34"}),
		respWith(map[string]any{"01": "25-34"}),
		respWith(map[string]any{"Q1": "35-44"}),
	}

	buckets := svc.Aggregate(records, AggregateSpec{QuestionID: model.QAgeGroup, Kind: AggregateFrequency})

	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d: %+v", len(buckets), buckets)
	}
	if buckets[0].Label != "25-34" || buckets[0].Count != 2 || buckets[0].Percentage != 66.7 {
		t.Errorf("first bucket = %+v, want 25-34/2/66.7", buckets[0])
	}
	if buckets[1].Label != "35-44" || buckets[1].Count != 1 || buckets[1].Percentage != 33.3 {
		t.Errorf("second bucket = %+v, want 35-44/1/33.3", buckets[1])
	}

	var sum float64
	for _, b := range buckets {
		sum += b.Percentage
	}
	if math.Abs(sum-100) > 0.2 {
		t.Errorf("percentages sum to %v, want ~100", sum)
	}
}

func TestAggregateFrequencyBucketsAbsentAnswers(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)
	records := []*model.SurveyResponse{
		respWith(map[string]any{"24": "Very comfortable"}),
		respWith(map[string]any{}),
	}

	buckets := svc.Aggregate(records, AggregateSpec{QuestionID: model.QAITrust, Kind: AggregateFrequency})

	var notSpecified *model.Bucket
	for i := range buckets {
		if buckets[i].Label == NotSpecifiedLabel {
			notSpecified = &buckets[i]
		}
	}
	if notSpecified == nil {
		t.Fatalf("no %q bucket in %+v", NotSpecifiedLabel, buckets)
	}
	if notSpecified.Count != 1 || notSpecified.Percentage != 50 {
		t.Errorf("%q bucket = %+v, want count 1, percentage 50", NotSpecifiedLabel, notSpecified)
	}
}

func TestAggregateTopNOrderAndTruncation(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)
	long := "Splitting chores fairly when both of us work full-time"
	records := []*model.SurveyResponse{
		respWith(map[string]any{"18": long}),
		respWith(map[string]any{"18": long}),
		respWith(map[string]any{"18": "Money talk"}),
		respWith(map[string]any{"18": "Scheduling"}),
		respWith(map[string]any{"18": "Scheduling"}),
		respWith(map[string]any{"18": "Scheduling"}),
	}

	buckets := svc.Aggregate(records, AggregateSpec{
		QuestionID: model.QFrustration,
		Kind:       AggregateTopN,
		Limit:      2,
		LabelMax:   40,
	})

	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Label != "Scheduling" || buckets[0].Count != 3 {
		t.Errorf("top bucket = %+v, want Scheduling/3", buckets[0])
	}
	if buckets[1].Count != 2 {
		t.Errorf("second bucket count = %d, want 2", buckets[1].Count)
	}
	if len(buckets[1].Label) > 43 || !strings.HasSuffix(buckets[1].Label, "...") {
		t.Errorf("long label not truncated: %q", buckets[1].Label)
	}
}

func TestAggregateMultiSelectCountsEachSelection(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)
	records := []*model.SurveyResponse{
		respWith(map[string]any{"29": []any{"Shared calendar", "Chore rotation"}}),
		respWith(map[string]any{"29": []any{"Shared calendar"}}),
	}

	buckets := svc.Aggregate(records, AggregateSpec{QuestionID: model.QCompanionVision, Kind: AggregateFrequency})

	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d: %+v", len(buckets), buckets)
	}
	if buckets[0].Label != "Shared calendar" || buckets[0].Count != 2 || buckets[0].Percentage != 100 {
		t.Errorf("first bucket = %+v, want Shared calendar/2/100", buckets[0])
	}
	if buckets[1].Label != "Chore rotation" || buckets[1].Count != 1 || buckets[1].Percentage != 50 {
		t.Errorf("second bucket = %+v, want Chore rotation/1/50", buckets[1])
	}
}

func TestAggregateSubpopulationDenominator(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)
	records := []*model.SurveyResponse{
		respWith(map[string]any{"3": "Yes", "15": "Very interested"}),
		respWith(map[string]any{"03": "Yes, in a relationship", "15": "Somewhat interested"}),
		respWith(map[string]any{"3": "No"}),
	}

	buckets := svc.Aggregate(records, AggregateSpec{
		QuestionID: model.QPartnerTool,
		Kind:       AggregateFrequency,
		Where:      &Subpopulation{QuestionID: model.QHasPartner, AnyOf: model.PartnerYesValues},
	})

	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d: %+v", len(buckets), buckets)
	}
	for _, b := range buckets {
		if b.Percentage != 50 {
			t.Errorf("bucket %q percentage = %v, want 50 (partner denominator)", b.Label, b.Percentage)
		}
	}
}

func TestMean(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)

	t.Run("empty set yields zero", func(t *testing.T) {
		if got := svc.Mean(nil, model.QComfortMatrix, "1"); got != 0 {
			t.Errorf("Mean() = %v, want 0", got)
		}
	})

	t.Run("ignores absent and non-numeric", func(t *testing.T) {
		records := []*model.SurveyResponse{
			respWith(map[string]any{"10_1": 4.0}),
			respWith(map[string]any{"10_1": "2"}),
			respWith(map[string]any{"10_1": "n/a"}),
			respWith(map[string]any{}),
		}
		if got := svc.Mean(records, model.QComfortMatrix, "1"); got != 3 {
			t.Errorf("Mean() = %v, want 3", got)
		}
	})
}

func TestBuildDashboard(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)
	now := time.Now()
	old := now.AddDate(0, 0, -30)

	records := []*model.SurveyResponse{
		{SubmittedAt: &now, Completed: true, Answers: map[string]any{"1": "25-34", "18": "Chores"}},
		{SubmittedAt: &old, Completed: true, Answers: map[string]any{"1": "25-34"}},
		{SubmittedAt: &old, Completed: false, Answers: map[string]any{"1": "35-44"}},
	}

	stats := svc.BuildDashboard(records)

	if stats.Total != 3 || stats.Completed != 2 {
		t.Errorf("totals = %d/%d, want 3/2", stats.Total, stats.Completed)
	}
	if stats.CompletionRate != 66.7 {
		t.Errorf("CompletionRate = %v, want 66.7", stats.CompletionRate)
	}
	if stats.Today != 1 {
		t.Errorf("Today = %d, want 1", stats.Today)
	}
	if len(stats.AgeDistribution) != 2 {
		t.Errorf("AgeDistribution = %+v, want 2 buckets", stats.AgeDistribution)
	}
}

func TestBuildAggregatedDataPartnerScoping(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)
	records := []*model.SurveyResponse{
		respWith(map[string]any{"3": "Yes", "10_1": 4.0, "19_1": 2.0, "27_amount": "20"}),
		respWith(map[string]any{"3": "No", "10_1": 1.0, "19_1": 4.0, "27_amount": "$10"}),
	}

	data := svc.BuildAggregatedData(records)

	if data.TotalResponses != 2 || data.PartnersTotal != 1 {
		t.Fatalf("totals = %d/%d, want 2 total, 1 partner", data.TotalResponses, data.PartnersTotal)
	}

	// Comfort means run over partner records only; impact means over all.
	comfortLabel := model.ComfortTopics[0].Label
	if got := data.ComfortAverages[comfortLabel]; got != 4 {
		t.Errorf("ComfortAverages[%q] = %v, want 4 (partner-only)", comfortLabel, got)
	}
	impactLabel := model.ImpactTopics[0].Label
	if got := data.ImpactAverages[impactLabel]; got != 3 {
		t.Errorf("ImpactAverages[%q] = %v, want 3 (all records)", impactLabel, got)
	}
	if data.AveragePaymentAmount != 15 {
		t.Errorf("AveragePaymentAmount = %v, want 15", data.AveragePaymentAmount)
	}
}

func TestSampleQuotes(t *testing.T) {
	records := []*model.SurveyResponse{
		respWith(map[string]any{"17": "short", "1": "25-34"}),
		respWith(map[string]any{"17": "We argued about the plumber for a week straight.", "1": "35-44", "28": "Married"}),
	}

	quotes := sampleQuotes(records, model.QPartnerStory, maxQuoteSamples)

	if len(quotes) != 1 {
		t.Fatalf("expected 1 quote (short answers filtered), got %d", len(quotes))
	}
	if quotes[0].AgeGroup != "35-44" || quotes[0].LifeStage != "Married" {
		t.Errorf("quote context = %+v, want age 35-44, life stage Married", quotes[0])
	}
}

func TestTruncateLabelRuneSafe(t *testing.T) {
	// A multi-byte rune straddling the byte-40 boundary must not be
	// split.
	label := strings.Repeat("x", 39) + "āhua o te noho tahi"
	got := truncateLabel(label, 40)

	if !utf8.ValidString(got) {
		t.Fatalf("truncated label is not valid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("truncated label missing ellipsis: %q", got)
	}
	if utf8.RuneCountInString(got) != 43 {
		t.Errorf("truncated label rune count = %d, want 43", utf8.RuneCountInString(got))
	}
	if !strings.HasPrefix(label, strings.TrimSuffix(got, "...")) {
		t.Errorf("truncated label %q is not a prefix of the original", got)
	}
}
