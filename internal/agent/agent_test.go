package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/a38062an/uk-econ-insight-agent/internal/conversation"
	"github.com/a38062an/uk-econ-insight-agent/internal/model"
	"github.com/a38062an/uk-econ-insight-agent/internal/retrieve"
	"github.com/a38062an/uk-econ-insight-agent/pkg/llm"
)

type fakeRouter struct {
	route       model.Route
	err         error
	lastHistory []model.Turn
}

func (f *fakeRouter) Classify(ctx context.Context, query string, history []model.Turn) (model.Route, error) {
	f.lastHistory = history
	return f.route, f.err
}

type fakeGenerator struct {
	text    string
	err     error
	lastReq llm.GenerateRequest
	calls   int
}

func (f *fakeGenerator) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	f.calls++
	f.lastReq = req
	return f.text, f.err
}

type fakeRetriever struct {
	summary []model.ScoredChunk
	trend   retrieve.TrendContext
	facts   []model.ScoredChunk
	err     error
}

func (f *fakeRetriever) ForSummary(ctx context.Context) ([]model.ScoredChunk, error) {
	return f.summary, f.err
}

func (f *fakeRetriever) ForTrend(ctx context.Context, query string) (retrieve.TrendContext, error) {
	return f.trend, f.err
}

func (f *fakeRetriever) ForFacts(ctx context.Context, query string) ([]model.ScoredChunk, error) {
	return f.facts, f.err
}

type fakeReportStore struct {
	saved []model.DocumentChunk
	err   error
}

func (f *fakeReportStore) SaveChunk(ctx context.Context, chunk *model.DocumentChunk, embedding []float32) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.saved = append(f.saved, *chunk)
	return true, nil
}

type stubEmbedder struct{}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int { return 2 }

func chunk(id int64, content string, published time.Time) model.ScoredChunk {
	return model.ScoredChunk{DocumentChunk: model.DocumentChunk{
		ID:           id,
		Content:      content,
		Source:       model.SourceBBC,
		DocumentType: model.DocTypeNews,
		PublishedAt:  published,
	}}
}

func newTestAgent(router *fakeRouter, gen *fakeGenerator, ret *fakeRetriever, reports *fakeReportStore) *Agent {
	return New(router, gen, ret, reports, conversation.NewMemoryStore(), &stubEmbedder{}, 3)
}

func TestAsk_GeneralBypassesRetrieval(t *testing.T) {
	gen := &fakeGenerator{}
	a := newTestAgent(&fakeRouter{route: model.RouteGeneral}, gen, &fakeRetriever{}, &fakeReportStore{})

	answer, err := a.Ask(context.Background(), "s1", "hello")
	assert.Equal(t, nil, err)
	assert.Equal(t, model.RouteGeneral, answer.Route)
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, true, strings.Contains(answer.Text, "UK Economic Insight Agent"))
}

func TestAsk_ClassificationErrorFallsBackToGeneral(t *testing.T) {
	a := newTestAgent(&fakeRouter{err: errors.New("llm down")}, &fakeGenerator{}, &fakeRetriever{}, &fakeReportStore{})

	answer, err := a.Ask(context.Background(), "s1", "what is the interest rate?")
	assert.Equal(t, nil, err)
	assert.Equal(t, model.RouteGeneral, answer.Route)
}

func TestAsk_SummaryStoresReport(t *testing.T) {
	now := time.Now()
	reports := &fakeReportStore{}
	gen := &fakeGenerator{text: "## Market Report\nInflation is rising."}
	ret := &fakeRetriever{summary: []model.ScoredChunk{
		chunk(3, "inflation latest", now),
		chunk(2, "inflation earlier", now.Add(-time.Hour)),
		chunk(1, "inflation oldest", now.Add(-2*time.Hour)),
	}}

	a := newTestAgent(&fakeRouter{route: model.RouteSummary}, gen, ret, reports)

	answer, err := a.Ask(context.Background(), "s1", "give me a market briefing")
	assert.Equal(t, nil, err)
	assert.Equal(t, model.RouteSummary, answer.Route)
	assert.Equal(t, 3, len(answer.Chunks))
	assert.Equal(t, int64(3), answer.Chunks[0].ID)

	assert.Equal(t, 1, len(reports.saved))
	assert.Equal(t, model.DocTypeReport, reports.saved[0].DocumentType)
	assert.Equal(t, model.SourceAgent, reports.saved[0].Source)
	assert.Equal(t, false, reports.saved[0].PublishedAt.IsZero())
}

func TestAsk_SummaryWritebackFailureStillAnswers(t *testing.T) {
	gen := &fakeGenerator{text: "report text"}
	ret := &fakeRetriever{summary: []model.ScoredChunk{chunk(1, "news", time.Now())}}

	a := newTestAgent(&fakeRouter{route: model.RouteSummary}, gen, ret, &fakeReportStore{err: errors.New("db down")})

	answer, err := a.Ask(context.Background(), "s1", "briefing please")
	assert.Equal(t, nil, err)
	assert.Equal(t, "report text", answer.Text)
}

func TestAsk_SummaryEmptyCorpus(t *testing.T) {
	gen := &fakeGenerator{}
	a := newTestAgent(&fakeRouter{route: model.RouteSummary}, gen, &fakeRetriever{}, &fakeReportStore{})

	answer, err := a.Ask(context.Background(), "s1", "briefing please")
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, true, strings.Contains(answer.Text, "No recent news"))
}

func TestAsk_TrendOnlyPostCutoffContext(t *testing.T) {
	cutoff := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	gen := &fakeGenerator{text: "GDP accelerated."}
	ret := &fakeRetriever{trend: retrieve.TrendContext{
		Cutoff:   cutoff,
		Baseline: "GDP was flat.",
		Recent:   []model.ScoredChunk{chunk(7, "GDP grew 0.5%", cutoff.Add(time.Minute))},
	}}

	a := newTestAgent(&fakeRouter{route: model.RouteTrend}, gen, ret, &fakeReportStore{})

	answer, err := a.Ask(context.Background(), "s1", "how has GDP changed?")
	assert.Equal(t, nil, err)
	assert.Equal(t, model.RouteTrend, answer.Route)
	assert.Equal(t, 1, len(answer.Chunks))
	assert.Equal(t, int64(7), answer.Chunks[0].ID)
	assert.Equal(t, "GDP was flat.", gen.lastReq.Baseline)
	assert.Equal(t, cutoff, gen.lastReq.Cutoff)
}

func TestAsk_TrendNoNewDevelopments(t *testing.T) {
	cutoff := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	gen := &fakeGenerator{}
	ret := &fakeRetriever{trend: retrieve.TrendContext{Cutoff: cutoff, Baseline: "old state"}}

	a := newTestAgent(&fakeRouter{route: model.RouteTrend}, gen, ret, &fakeReportStore{})

	answer, err := a.Ask(context.Background(), "s1", "any news on GDP?")
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, true, strings.Contains(answer.Text, "No new developments since"))
	assert.Equal(t, true, strings.Contains(answer.Text, "2026-08-20"))
}

func TestAsk_FactLookupEmptyContextAdmitsIgnorance(t *testing.T) {
	gen := &fakeGenerator{}
	a := newTestAgent(&fakeRouter{route: model.RouteFactLookup}, gen, &fakeRetriever{}, &fakeReportStore{})

	answer, err := a.Ask(context.Background(), "s1", "what is the interest rate?")
	assert.Equal(t, nil, err)
	assert.Equal(t, model.RouteFactLookup, answer.Route)
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, true, strings.Contains(answer.Text, "No relevant economic information"))
}

func TestAsk_FactLookupWithContext(t *testing.T) {
	gen := &fakeGenerator{text: "The interest rate is 5%."}
	ret := &fakeRetriever{facts: []model.ScoredChunk{chunk(1, "BoE held rates at 5%", time.Now())}}

	a := newTestAgent(&fakeRouter{route: model.RouteFactLookup}, gen, ret, &fakeReportStore{})

	answer, err := a.Ask(context.Background(), "s1", "what is the interest rate?")
	assert.Equal(t, nil, err)
	assert.Equal(t, "The interest rate is 5%.", answer.Text)
	assert.Equal(t, 1, len(answer.Chunks))
	assert.Equal(t, "what is the interest rate?", gen.lastReq.Query)
}

func TestAsk_GeneratorErrorSurfaces(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("llm down")}
	ret := &fakeRetriever{facts: []model.ScoredChunk{chunk(1, "context", time.Now())}}

	a := newTestAgent(&fakeRouter{route: model.RouteFactLookup}, gen, ret, &fakeReportStore{})

	_, err := a.Ask(context.Background(), "s1", "what is the interest rate?")
	assert.NotEqual(t, nil, err)
}

func TestAsk_HistoryFlowsIntoClassifierAndGenerator(t *testing.T) {
	router := &fakeRouter{route: model.RouteFactLookup}
	gen := &fakeGenerator{text: "Yes, 5% is above the 2% target."}
	ret := &fakeRetriever{facts: []model.ScoredChunk{chunk(1, "inflation is 5%", time.Now())}}

	a := newTestAgent(router, gen, ret, &fakeReportStore{})
	ctx := context.Background()

	// Turn 1.
	_, err := a.Ask(ctx, "s1", "what is the inflation rate?")
	assert.Equal(t, nil, err)

	// Turn 2: a pronoun follow-up. Both the classifier and the generator
	// must see turn 1.
	_, err = a.Ask(ctx, "s1", "is that good?")
	assert.Equal(t, nil, err)

	assert.Equal(t, 2, len(router.lastHistory))
	assert.Equal(t, "what is the inflation rate?", router.lastHistory[0].Content)
	assert.Equal(t, 2, len(gen.lastReq.History))
}

func TestAsk_RecordsBothTurns(t *testing.T) {
	store := conversation.NewMemoryStore()
	a := New(&fakeRouter{route: model.RouteGeneral}, &fakeGenerator{}, &fakeRetriever{}, &fakeReportStore{}, store, &stubEmbedder{}, 3)

	_, err := a.Ask(context.Background(), "s1", "hello")
	assert.Equal(t, nil, err)

	turns, _ := store.LastPairs(context.Background(), "s1", 3)
	assert.Equal(t, 2, len(turns))
	assert.Equal(t, model.RoleUser, turns[0].Role)
	assert.Equal(t, "hello", turns[0].Content)
	assert.Equal(t, model.RoleAssistant, turns[1].Role)
}

func TestNoNewDevelopmentsAnswer_ZeroCutoff(t *testing.T) {
	answer := noNewDevelopmentsAnswer(time.Time{})
	assert.Equal(t, true, strings.Contains(answer, "no economic news on record"))
}
