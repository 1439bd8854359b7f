package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"aroha-api/internal/model"
)

type fakeResponseRepo struct {
	records []*model.SurveyResponse
	err     error
}

func (f *fakeResponseRepo) ListAll(ctx context.Context) ([]*model.SurveyResponse, error) {
	return f.records, f.err
}

func (f *fakeResponseRepo) GetByID(ctx context.Context, id string) (*model.SurveyResponse, error) {
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeResponseRepo) Insert(ctx context.Context, r *model.SurveyResponse) (string, error) {
	f.records = append(f.records, r)
	return r.ID, nil
}

func (f *fakeResponseRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.records)), nil
}

type fakeInsightRepo struct {
	latest *model.InsightDocument
	saves  []string
}

func (f *fakeInsightRepo) SaveLatest(ctx context.Context, doc *model.InsightDocument) error {
	copied := *doc
	f.latest = &copied
	f.saves = append(f.saves, doc.Status)
	return nil
}

func (f *fakeInsightRepo) GetLatest(ctx context.Context) (*model.InsightDocument, error) {
	return f.latest, nil
}

type fakeGenerator struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

const validReportJSON = `{
	"primaryGap": {"name": "Mental load imbalance", "affectedPercentage": 72, "severityScore": 8.1},
	"targetAudience": {"name": "Dual-income couples 25-44"},
	"recommendations": [{"what": "Build a shared task board", "why": "Top frustration"}],
	"executiveSummary": {"paragraph1": "The survey shows a clear gap.", "paragraph2": "...", "paragraph3": "..."}
}`

func newTestInsightService(repo *fakeResponseRepo, store *fakeInsightRepo, gen TextGenerator) *InsightService {
	analytics := NewAnalyticsService(repo, nil)
	return NewInsightService(repo, store, analytics, gen)
}

func someRecords() []*model.SurveyResponse {
	return []*model.SurveyResponse{
		{ID: "r1", Answers: map[string]any{"1": "25-34", "3": "Yes", "18": "Chores"}},
		{ID: "r2", Answers: map[string]any{"Q1": "35-44", "Q3": "No"}},
	}
}

func TestGenerateSuccess(t *testing.T) {
	repo := &fakeResponseRepo{records: someRecords()}
	store := &fakeInsightRepo{}
	gen := &fakeGenerator{text: validReportJSON}
	svc := newTestInsightService(repo, store, gen)

	doc, err := svc.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if doc.Status != model.InsightStatusReady {
		t.Fatalf("status = %q, want ready", doc.Status)
	}
	if doc.Report == nil || doc.Report.PrimaryGap.Name != "Mental load imbalance" {
		t.Errorf("report = %+v", doc.Report)
	}
	if doc.ResponseCount != 2 {
		t.Errorf("ResponseCount = %d, want 2", doc.ResponseCount)
	}
	if doc.GeneratedAt == nil {
		t.Error("GeneratedAt not set")
	}

	// Status went generating then ready.
	if len(store.saves) != 2 || store.saves[0] != model.InsightStatusGenerating || store.saves[1] != model.InsightStatusReady {
		t.Errorf("save sequence = %v", store.saves)
	}

	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "survey data from 2 women") {
		t.Errorf("prompt missing aggregated data:\n%s", gen.prompts[0])
	}
}

func TestGenerateStripsCodeFence(t *testing.T) {
	repo := &fakeResponseRepo{records: someRecords()}
	store := &fakeInsightRepo{}
	gen := &fakeGenerator{text: "```json\n" + validReportJSON + "\n```"}
	svc := newTestInsightService(repo, store, gen)

	doc, err := svc.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if doc.Status != model.InsightStatusReady {
		t.Fatalf("status = %q, want ready (fence should be stripped)", doc.Status)
	}
}

func TestGenerateTransportFailure(t *testing.T) {
	repo := &fakeResponseRepo{records: someRecords()}
	store := &fakeInsightRepo{}
	gen := &fakeGenerator{err: newTransportError(errors.New("connection refused"))}
	svc := newTestInsightService(repo, store, gen)

	doc, err := svc.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v, generation failures should come back as a failed doc", err)
	}
	if doc.Status != model.InsightStatusFailed {
		t.Fatalf("status = %q, want failed", doc.Status)
	}
	if doc.ErrorKind != string(GenerationTransport) {
		t.Errorf("ErrorKind = %q, want transport", doc.ErrorKind)
	}
}

func TestGenerateParseFailureKinds(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not json", "I'm sorry, I can't analyze this survey."},
		{"json but wrong shape", `{"answer": 42}`},
		{"valid json failing validation", `{"primaryGap": {"name": ""}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeResponseRepo{records: someRecords()}
			store := &fakeInsightRepo{}
			svc := newTestInsightService(repo, store, &fakeGenerator{text: tt.text})

			doc, err := svc.Generate(context.Background())
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if doc.Status != model.InsightStatusFailed {
				t.Fatalf("status = %q, want failed", doc.Status)
			}
			if doc.ErrorKind != string(GenerationParse) {
				t.Errorf("ErrorKind = %q, want parse", doc.ErrorKind)
			}
		})
	}
}

func TestGenerateFailureKeepsPriorReport(t *testing.T) {
	repo := &fakeResponseRepo{records: someRecords()}
	store := &fakeInsightRepo{}
	svc := newTestInsightService(repo, store, &fakeGenerator{text: validReportJSON})

	if _, err := svc.Generate(context.Background()); err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}

	// Swap in a failing generator for the second run.
	svc.generator = &fakeGenerator{err: newTransportError(errors.New("quota exceeded"))}

	doc, err := svc.Generate(context.Background())
	if err != nil {
		t.Fatalf("second Generate() error = %v", err)
	}
	if doc.Status != model.InsightStatusFailed {
		t.Fatalf("status = %q, want failed", doc.Status)
	}
	if doc.Report == nil || doc.Report.PrimaryGap.Name != "Mental load imbalance" {
		t.Errorf("failed run dropped the prior ready report: %+v", doc.Report)
	}
	if doc.ResponseCount != 2 || doc.GeneratedAt == nil {
		t.Errorf("prior report metadata not carried: count=%d generatedAt=%v", doc.ResponseCount, doc.GeneratedAt)
	}
}

func TestGenerateEmptyRecordSet(t *testing.T) {
	svc := newTestInsightService(&fakeResponseRepo{}, &fakeInsightRepo{}, &fakeGenerator{})

	_, err := svc.Generate(context.Background())
	if !errors.Is(err, ErrNoResponses) {
		t.Fatalf("Generate() error = %v, want ErrNoResponses", err)
	}
}

func TestGenerateStoreFailureSurfacesAsError(t *testing.T) {
	repo := &fakeResponseRepo{err: errors.New("mongo down")}
	svc := newTestInsightService(repo, &fakeInsightRepo{}, &fakeGenerator{})

	if _, err := svc.Generate(context.Background()); err == nil {
		t.Fatal("Generate() = nil error, want store fault")
	}
}

func TestLatest(t *testing.T) {
	t.Run("idle placeholder when nothing generated", func(t *testing.T) {
		svc := newTestInsightService(&fakeResponseRepo{}, &fakeInsightRepo{}, &fakeGenerator{})
		doc, err := svc.Latest(context.Background())
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if doc.Status != model.InsightStatusIdle {
			t.Errorf("status = %q, want idle", doc.Status)
		}
	})

	t.Run("returns stored document", func(t *testing.T) {
		store := &fakeInsightRepo{latest: &model.InsightDocument{Status: model.InsightStatusReady}}
		svc := newTestInsightService(&fakeResponseRepo{}, store, &fakeGenerator{})
		doc, err := svc.Latest(context.Background())
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if doc.Status != model.InsightStatusReady {
			t.Errorf("status = %q, want ready", doc.Status)
		}
	})
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain json untouched", `{"a":1}`, `{"a":1}`},
		{"fence with language tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"single line fence", "```json{\"a\":1}```", `{"a":1}`},
		{"single line bare fence", "```{\"a\":1}```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n ", `{"a":1}`},
		{"unterminated fence", "```json\n{\"a\":1}", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.in); got != tt.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
