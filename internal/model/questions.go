package model

// Logical question ids for the survey definition. These are stable and
// schema-independent: the raw keys in a stored answers map vary by
// submission era (see ResolveAnswer), but consumers always address
// questions through these ids.
const (
	QAgeGroup             = 1
	QRelationshipStatus   = 2
	QHasPartner           = 3
	QRelationshipDuration = 4
	QTracksHealth         = 5
	QWhatTracked          = 6
	QWhyStoppedTracking   = 7
	QPatternImportance    = 8
	QProviderDismissal    = 9
	QComfortMatrix        = 10
	QPartnerUnderstanding = 11
	QPartnerDismisses     = 12
	QConflicts            = 13
	QConflictTypes        = 14
	QPartnerTool          = 15
	QPartnerFeatures      = 16
	QPartnerStory         = 17
	QFrustration          = 18
	QImpactMatrix         = 19
	QProveSymptoms        = 20
	QDesiredImpact        = 21
	QToolFrequency        = 22
	QOneThingEasier       = 23
	QAITrust              = 24
	QAIFeatures           = 25
	QPrivacy              = 26
	QPayment              = 27
	QLifeStage            = 28
	QCompanionVision      = 29
	QFollowUpConsent      = 30
	QContactInfo          = 31
)

// PaymentAmountSubKey is the sub-key carrying the free-text amount for
// respondents who said they would pay (stored as e.g. "27_amount").
const PaymentAmountSubKey = "amount"

// PartnerYesValues are the answer spellings that qualify a respondent
// for the partner subpopulation. Both have been live at different times.
var PartnerYesValues = []string{"Yes", "Yes, in a relationship"}

// ComfortTopics maps the Q10 matrix sub-keys to display labels, in
// survey order.
var ComfortTopics = []MatrixTopic{
	{SubKey: "1", Label: "Menstrual cycle"},
	{SubKey: "2", Label: "Mood changes"},
	{SubKey: "3", Label: "Physical symptoms"},
	{SubKey: "4", Label: "Sexual health"},
	{SubKey: "5", Label: "Mental health"},
}

// ImpactTopics maps the Q19 matrix sub-keys to display labels, in
// survey order.
var ImpactTopics = []MatrixTopic{
	{SubKey: "1", Label: "Daily activities"},
	{SubKey: "2", Label: "Relationships"},
	{SubKey: "3", Label: "Work/productivity"},
	{SubKey: "4", Label: "Mental health"},
	{SubKey: "5", Label: "Healthcare access"},
}

// MatrixTopic is one row of a matrix-style question.
type MatrixTopic struct {
	SubKey string
	Label  string
}
