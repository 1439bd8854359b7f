package model

import (
	"errors"
	"time"
)

// Insight generation status values.
const (
	InsightStatusIdle       = "idle"
	InsightStatusGenerating = "generating"
	InsightStatusReady      = "ready"
	InsightStatusFailed     = "failed"
)

// InsightDocument is the persisted insight state. A single document
// ("latest") is upserted per generation; a failed run keeps the prior
// ready report content so the admin view never loses good data.
type InsightDocument struct {
	ID     string `json:"-" bson:"_id"`
	Status string `json:"status" bson:"status"`

	Report *InsightReport `json:"report,omitempty" bson:"report,omitempty"`

	ErrorKind    string `json:"errorKind,omitempty" bson:"errorKind,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty" bson:"errorMessage,omitempty"`

	GeneratedAt   *time.Time `json:"generatedAt,omitempty" bson:"generatedAt,omitempty"`
	ResponseCount int        `json:"responseCount,omitempty" bson:"responseCount,omitempty"`
}

// InsightReport is the strict report shape returned by the
// text-generation service. It is treated as untrusted until Validate
// passes; only a validated report is stored or exposed.
type InsightReport struct {
	PrimaryGap           PrimaryGap           `json:"primaryGap" bson:"primaryGap"`
	SecondaryGaps        []SecondaryGap       `json:"secondaryGaps" bson:"secondaryGaps"`
	TargetAudience       TargetAudience       `json:"targetAudience" bson:"targetAudience"`
	PartnerGapValidation PartnerGapValidation `json:"partnerGapValidation" bson:"partnerGapValidation"`
	FeaturePrioritization FeaturePrioritization `json:"featurePrioritization" bson:"featurePrioritization"`
	Monetization         Monetization         `json:"monetization" bson:"monetization"`
	AIAdoption           AIAdoption           `json:"aiAdoption" bson:"aiAdoption"`
	Recommendations      []Recommendation     `json:"recommendations" bson:"recommendations"`
	Quotes               []ReportQuote        `json:"quotes" bson:"quotes"`
	ExecutiveSummary     ExecutiveSummary     `json:"executiveSummary" bson:"executiveSummary"`
}

// PrimaryGap is the single most significant market gap.
type PrimaryGap struct {
	Name               string   `json:"name" bson:"name"`
	AffectedPercentage float64  `json:"affectedPercentage" bson:"affectedPercentage"`
	SeverityScore      float64  `json:"severityScore" bson:"severityScore"`
	WhyExistingFail    string   `json:"whyExistingFail" bson:"whyExistingFail"`
	Evidence           []string `json:"evidence" bson:"evidence"`
}

// SecondaryGap is a lesser but still notable gap.
type SecondaryGap struct {
	Name               string  `json:"name" bson:"name"`
	AffectedPercentage float64 `json:"affectedPercentage" bson:"affectedPercentage"`
	SeverityScore      float64 `json:"severityScore" bson:"severityScore"`
	Description        string  `json:"description" bson:"description"`
}

// TargetAudience describes the best-fit segment.
type TargetAudience struct {
	Name             string   `json:"name" bson:"name"`
	MarketSize       float64  `json:"marketSize" bson:"marketSize"`
	PainPoints       []string `json:"painPoints" bson:"painPoints"`
	WillingnessToPay string   `json:"willingnessToPay" bson:"willingnessToPay"`
}

// PartnerGapValidation is the verdict on the partner-communication gap
// hypothesis.
type PartnerGapValidation struct {
	IsValidated   bool                       `json:"isValidated" bson:"isValidated"`
	Confidence    float64                    `json:"confidence" bson:"confidence"`
	Evidence      PartnerValidationEvidence  `json:"evidence" bson:"evidence"`
	SeverityScore float64                    `json:"severityScore" bson:"severityScore"`
	TopFeatures   []string                   `json:"topFeatures" bson:"topFeatures"`
	MVPFeatures   []string                   `json:"mvpFeatures" bson:"mvpFeatures"`
}

// PartnerValidationEvidence carries the cross-tabulated numbers behind
// the partner gap verdict.
type PartnerValidationEvidence struct {
	UncomfortablePercentage float64            `json:"uncomfortablePercentage" bson:"uncomfortablePercentage"`
	ConflictPercentage      float64            `json:"conflictPercentage" bson:"conflictPercentage"`
	AverageImpactScores     map[string]float64 `json:"averageImpactScores" bson:"averageImpactScores"`
	InterestedPercentage    float64            `json:"interestedPercentage" bson:"interestedPercentage"`
}

// FeaturePrioritization splits candidate features into build tiers.
type FeaturePrioritization struct {
	MustHave        []FeatureDemand `json:"mustHave" bson:"mustHave"`
	Differentiating []string        `json:"differentiating" bson:"differentiating"`
	NiceToHave      []string        `json:"niceToHave" bson:"niceToHave"`
}

// FeatureDemand is a feature with its measured demand percentage.
type FeatureDemand struct {
	Feature string  `json:"feature" bson:"feature"`
	Demand  float64 `json:"demand" bson:"demand"`
}

// Monetization is the pricing recommendation.
type Monetization struct {
	RecommendedModel       string  `json:"recommendedModel" bson:"recommendedModel"`
	OptimalPrice           string  `json:"optimalPrice" bson:"optimalPrice"`
	PriceRange             string  `json:"priceRange" bson:"priceRange"`
	WillingToPayPercentage float64 `json:"willingToPayPercentage" bson:"willingToPayPercentage"`
	EstimatedConversion    float64 `json:"estimatedConversion" bson:"estimatedConversion"`
}

// AIAdoption summarizes readiness for AI-driven features.
type AIAdoption struct {
	TrustLevel  float64  `json:"trustLevel" bson:"trustLevel"`
	Barriers    []string `json:"barriers" bson:"barriers"`
	Positioning string   `json:"positioning" bson:"positioning"`
	TopFeatures []string `json:"topFeatures" bson:"topFeatures"`
}

// Recommendation is one actionable product-strategy step.
type Recommendation struct {
	What    string `json:"what" bson:"what"`
	Why     string `json:"why" bson:"why"`
	Target  string `json:"target" bson:"target"`
	Outcome string `json:"outcome" bson:"outcome"`
}

// ReportQuote is a supporting respondent quote with context.
type ReportQuote struct {
	Text    string `json:"text" bson:"text"`
	Context string `json:"context" bson:"context"`
}

// ExecutiveSummary is a fixed three-paragraph summary.
type ExecutiveSummary struct {
	Paragraph1 string `json:"paragraph1" bson:"paragraph1"`
	Paragraph2 string `json:"paragraph2" bson:"paragraph2"`
	Paragraph3 string `json:"paragraph3" bson:"paragraph3"`
}

// ErrInvalidReport is returned by Validate for a structurally empty or
// incomplete report.
var ErrInvalidReport = errors.New("insight report missing required sections")

// Validate checks that the parsed report carries the sections the admin
// view depends on. A response that parsed as JSON but doesn't match
// the report shape (for example, a bare apology string or a truncated
// object) is rejected here rather than propagating empty typed fields.
func (r *InsightReport) Validate() error {
	if r.PrimaryGap.Name == "" {
		return ErrInvalidReport
	}
	if r.TargetAudience.Name == "" {
		return ErrInvalidReport
	}
	if len(r.Recommendations) == 0 {
		return ErrInvalidReport
	}
	if r.ExecutiveSummary.Paragraph1 == "" {
		return ErrInvalidReport
	}
	return nil
}
