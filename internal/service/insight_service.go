package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"aroha-api/internal/model"
	"aroha-api/internal/repository"
)

// InsightService drives the AI gap analysis: it aggregates the full
// record set, prompts the text-generation service, and validates the
// untrusted response into a strict report.
//
// Lifecycle per generation: idle -> generating -> ready | failed.
// There is no automatic retry; regeneration is an explicit call, and
// when regenerations overlap the last call wins — a stale completion
// is discarded rather than overwriting a newer run's outcome.
type InsightService struct {
	responseRepo repository.ResponseRepo
	insightRepo  repository.InsightRepo
	analytics    *AnalyticsService
	generator    TextGenerator

	mu  sync.Mutex
	seq uint64
}

// NewInsightService creates a new insight service
func NewInsightService(
	responseRepo repository.ResponseRepo,
	insightRepo repository.InsightRepo,
	analytics *AnalyticsService,
	generator TextGenerator,
) *InsightService {
	return &InsightService{
		responseRepo: responseRepo,
		insightRepo:  insightRepo,
		analytics:    analytics,
		generator:    generator,
	}
}

// Latest returns the current insight document, or an idle placeholder
// when nothing has been generated yet.
func (s *InsightService) Latest(ctx context.Context) (*model.InsightDocument, error) {
	doc, err := s.insightRepo.GetLatest(ctx)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return &model.InsightDocument{Status: model.InsightStatusIdle}, nil
	}
	return doc, nil
}

// Generate runs one full generation. Each invocation is a fresh
// external call over a fresh record fetch; nothing is deduplicated.
// Generation failures are returned as a failed document, not an error;
// only store-level faults surface as errors. A failed run keeps the
// previous ready report content so callers never trade good data for
// an error state.
func (s *InsightService) Generate(ctx context.Context) (*model.InsightDocument, error) {
	s.mu.Lock()
	s.seq++
	mySeq := s.seq
	s.mu.Unlock()

	records, err := s.responseRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoResponses
	}

	prior, err := s.insightRepo.GetLatest(ctx)
	if err != nil {
		return nil, err
	}

	generating := carryReport(prior)
	generating.Status = model.InsightStatusGenerating
	if err := s.saveIfCurrent(ctx, mySeq, generating); err != nil {
		return nil, err
	}

	data := s.analytics.BuildAggregatedData(records)
	prompt := buildInsightPrompt(data)

	text, genErr := s.generator.Generate(ctx, prompt)
	if genErr == nil {
		var report model.InsightReport
		if err := json.Unmarshal([]byte(stripCodeFence(text)), &report); err != nil {
			genErr = newParseError(err)
		} else if err := report.Validate(); err != nil {
			genErr = newParseError(err)
		} else {
			now := time.Now()
			doc := &model.InsightDocument{
				Status:        model.InsightStatusReady,
				Report:        &report,
				GeneratedAt:   &now,
				ResponseCount: len(records),
			}
			if err := s.saveIfCurrent(ctx, mySeq, doc); err != nil {
				return nil, err
			}
			return doc, nil
		}
	}

	failed := carryReport(prior)
	failed.Status = model.InsightStatusFailed
	failed.ErrorMessage = genErr.Error()
	if ge, ok := genErr.(*GenerationError); ok {
		failed.ErrorKind = string(ge.Kind)
	} else {
		failed.ErrorKind = string(GenerationTransport)
	}
	if err := s.saveIfCurrent(ctx, mySeq, failed); err != nil {
		return nil, err
	}
	return failed, nil
}

// saveIfCurrent persists the document unless a newer Generate call has
// started since ours (last-call-wins).
func (s *InsightService) saveIfCurrent(ctx context.Context, mySeq uint64, doc *model.InsightDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mySeq != s.seq {
		return nil
	}
	return s.insightRepo.SaveLatest(ctx, doc)
}

// carryReport starts a new document that keeps the prior run's ready
// report and its metadata.
func carryReport(prior *model.InsightDocument) *model.InsightDocument {
	doc := &model.InsightDocument{}
	if prior != nil && prior.Report != nil {
		doc.Report = prior.Report
		doc.GeneratedAt = prior.GeneratedAt
		doc.ResponseCount = prior.ResponseCount
	}
	return doc
}

// stripCodeFence removes a wrapping markdown code fence (with or
// without a json language tag, with or without a newline after the
// opening fence) before JSON parsing. Anything else is returned
// trimmed but untouched.
func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if end := strings.LastIndex(s, "```"); end != -1 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

// buildInsightPrompt renders the aggregated data and the target report
// shape into a single analysis prompt.
func buildInsightPrompt(data *model.AggregatedData) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are a product strategy analyst for women's health tech.\n\n")
	fmt.Fprintf(&sb, "Here's survey data from %d women:\n\n", data.TotalResponses)

	sb.WriteString("DEMOGRAPHICS:\n")
	writeBucketLines(&sb, "Age", data.AgeDistribution)
	writeBucketLines(&sb, "Relationship status", data.RelationshipStatus)
	writeBucketLines(&sb, "Life stage", data.LifeStages)

	sb.WriteString("\nTOP FRUSTRATIONS:\n")
	for _, b := range data.TopFrustrations {
		fmt.Fprintf(&sb, "- %s: %d responses (%.1f%%)\n", b.Label, b.Count, b.Percentage)
	}

	fmt.Fprintf(&sb, "\nPARTNER COMMUNICATION DATA:\nTotal with partners: %d\n", data.PartnersTotal)
	sb.WriteString("Average comfort levels (1-5 scale):\n")
	for _, topic := range model.ComfortTopics {
		fmt.Fprintf(&sb, "- %s: %.2f\n", topic.Label, data.ComfortAverages[topic.Label])
	}
	writeBucketLines(&sb, "Partner tool interest", data.PartnerToolInterest)
	writeBucketLines(&sb, "Partner understanding", data.PartnerUnderstanding)
	writeBucketLines(&sb, "Partner dismisses concerns", data.PartnerDismisses)
	writeBucketLines(&sb, "Conflicts", data.PartnerConflicts)

	sb.WriteString("\nCHALLENGE IMPACTS (average 1-5 scale):\n")
	for _, topic := range model.ImpactTopics {
		fmt.Fprintf(&sb, "- %s: %.2f\n", topic.Label, data.ImpactAverages[topic.Label])
	}

	sb.WriteString("\nAI & PAYMENT:\n")
	writeBucketLines(&sb, "AI trust", data.AITrust)
	writeBucketLines(&sb, "Payment willingness", data.PaymentWillingness)
	fmt.Fprintf(&sb, "Average payment amount: %.2f\n", data.AveragePaymentAmount)

	sb.WriteString("\nSAMPLE QUOTES (first 5 of each):\n")
	fmt.Fprintf(&sb, "Partner stories: %s\n", joinQuotes(data.PartnerStories, 5))
	fmt.Fprintf(&sb, "One thing easier: %s\n", joinQuotes(data.OneThingEasier, 5))
	fmt.Fprintf(&sb, "Perfect companion: %s\n", joinQuotes(data.PerfectCompanion, 5))

	sb.WriteString("\nAnalyze this data and provide a comprehensive report in the following JSON format:\n\n")
	sb.WriteString(reportShape)
	sb.WriteString("\n\nBe specific, cite data, and prioritize actionable insights. Return ONLY valid JSON, no markdown formatting.")

	return sb.String()
}

func writeBucketLines(sb *strings.Builder, label string, buckets []model.Bucket) {
	if len(buckets) == 0 {
		return
	}
	parts := make([]string, 0, len(buckets))
	for _, b := range buckets {
		parts = append(parts, fmt.Sprintf("%s: %d (%.1f%%)", b.Label, b.Count, b.Percentage))
	}
	fmt.Fprintf(sb, "%s: %s\n", label, strings.Join(parts, ", "))
}

func joinQuotes(quotes []model.QuoteSample, limit int) string {
	if len(quotes) > limit {
		quotes = quotes[:limit]
	}
	parts := make([]string, 0, len(quotes))
	for _, q := range quotes {
		parts = append(parts, q.Text)
	}
	return strings.Join(parts, " | ")
}

// reportShape is the target JSON schema description embedded in the
// prompt. It matches model.InsightReport field for field.
const reportShape = `{
  "primaryGap": {
    "name": "string",
    "affectedPercentage": number,
    "severityScore": number (1-10),
    "whyExistingFail": "string",
    "evidence": ["string", "string", ...]
  },
  "secondaryGaps": [
    {
      "name": "string",
      "affectedPercentage": number,
      "severityScore": number,
      "description": "string"
    }
  ],
  "targetAudience": {
    "name": "string",
    "marketSize": number,
    "painPoints": ["string", ...],
    "willingnessToPay": "string"
  },
  "partnerGapValidation": {
    "isValidated": boolean,
    "confidence": number,
    "evidence": {
      "uncomfortablePercentage": number,
      "conflictPercentage": number,
      "averageImpactScores": object,
      "interestedPercentage": number
    },
    "severityScore": number,
    "topFeatures": ["string", ...],
    "mvpFeatures": ["string", ...]
  },
  "featurePrioritization": {
    "mustHave": [{"feature": "string", "demand": number}],
    "differentiating": ["string", ...],
    "niceToHave": ["string", ...]
  },
  "monetization": {
    "recommendedModel": "string",
    "optimalPrice": "string",
    "priceRange": "string",
    "willingToPayPercentage": number,
    "estimatedConversion": number
  },
  "aiAdoption": {
    "trustLevel": number,
    "barriers": ["string", ...],
    "positioning": "string",
    "topFeatures": ["string", ...]
  },
  "recommendations": [
    {
      "what": "string",
      "why": "string",
      "target": "string",
      "outcome": "string"
    }
  ],
  "quotes": [
    {
      "text": "string",
      "context": "string"
    }
  ],
  "executiveSummary": {
    "paragraph1": "string",
    "paragraph2": "string",
    "paragraph3": "string"
  }
}`
