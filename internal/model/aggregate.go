package model

import "time"

// Bucket is one derived aggregate row. For frequency aggregations
// Count and Percentage are set; for mean aggregations Average is set.
// Buckets are transient — recomputed per request, never persisted.
type Bucket struct {
	Label      string  `json:"label"`
	Count      int     `json:"count,omitempty"`
	Percentage float64 `json:"percentage,omitempty"`
	Average    float64 `json:"average,omitempty"`
}

// DashboardStats is the admin dashboard payload.
type DashboardStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completionRate"`
	Today          int     `json:"today"`

	AgeDistribution     []Bucket `json:"ageDistribution"`
	TopFrustrations     []Bucket `json:"topFrustrations"`
	PartnerToolInterest []Bucket `json:"partnerToolInterest"`
	PaymentWillingness  []Bucket `json:"paymentWillingness"`

	ComputedAt time.Time `json:"computedAt"`
}

// QuoteSample is one free-text answer sampled for the insight prompt,
// with enough respondent context to anchor it.
type QuoteSample struct {
	Text        string `json:"text"`
	AgeGroup    string `json:"ageGroup,omitempty"`
	LifeStage   string `json:"lifeStage,omitempty"`
	Frustration string `json:"frustration,omitempty"`
}

// AggregatedData is the fixed set of aggregates fed to the insight
// generator: demographics, top frustrations, partner-subpopulation
// communication metrics, impact-score means, monetization signals, and
// a bounded sample of free-text answers.
type AggregatedData struct {
	TotalResponses int `json:"totalResponses"`

	AgeDistribution    []Bucket `json:"ageDistribution"`
	RelationshipStatus []Bucket `json:"relationshipStatus"`
	LifeStages         []Bucket `json:"lifeStages"`

	TopFrustrations []Bucket `json:"topFrustrations"`

	PartnersTotal         int                `json:"partnersTotal"`
	PartnerToolInterest   []Bucket           `json:"partnerToolInterest"`
	PartnerUnderstanding  []Bucket           `json:"partnerUnderstanding"`
	PartnerDismisses      []Bucket           `json:"partnerDismisses"`
	PartnerConflicts      []Bucket           `json:"partnerConflicts"`
	ComfortAverages       map[string]float64 `json:"comfortAverages"`

	ImpactAverages map[string]float64 `json:"impactAverages"`

	AITrust              []Bucket `json:"aiTrust"`
	PaymentWillingness   []Bucket `json:"paymentWillingness"`
	AveragePaymentAmount float64  `json:"averagePaymentAmount"`

	PartnerStories   []QuoteSample `json:"partnerStories"`
	OneThingEasier   []QuoteSample `json:"oneThingEasier"`
	PerfectCompanion []QuoteSample `json:"perfectCompanion"`
}
