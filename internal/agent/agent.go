// Package agent orchestrates a single question-answering turn: classify the
// query, run the matching retrieval strategy, generate the answer, and
// update conversation state.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/a38062an/uk-econ-insight-agent/internal/conversation"
	"github.com/a38062an/uk-econ-insight-agent/internal/model"
	"github.com/a38062an/uk-econ-insight-agent/internal/retrieve"
	"github.com/a38062an/uk-econ-insight-agent/pkg/embedding"
	"github.com/a38062an/uk-econ-insight-agent/pkg/llm"
)

const (
	noRecentNewsAnswer = "No recent news found to generate a report. Try refreshing the feeds first."

	noGroundingAnswer = "No relevant economic information was found in my database for that question, so I cannot answer it reliably."
)

// Retriever is the strategy surface the agent dispatches over.
type Retriever interface {
	ForSummary(ctx context.Context) ([]model.ScoredChunk, error)
	ForTrend(ctx context.Context, query string) (retrieve.TrendContext, error)
	ForFacts(ctx context.Context, query string) ([]model.ScoredChunk, error)
}

// ReportStore receives generated reports back into the corpus.
type ReportStore interface {
	SaveChunk(ctx context.Context, chunk *model.DocumentChunk, embedding []float32) (bool, error)
}

// Answer is the result of one turn, carrying the route taken and the
// context chunks used so callers can cite sources.
type Answer struct {
	Text   string
	Route  model.Route
	Chunks []model.ScoredChunk
}

type Agent struct {
	router        llm.Router
	generator     llm.Generator
	retriever     Retriever
	reports       ReportStore
	conversations conversation.Store
	embedder      embedding.Embedder
	historyPairs  int
}

func New(router llm.Router, generator llm.Generator, retriever Retriever, reports ReportStore,
	conversations conversation.Store, embedder embedding.Embedder, historyPairs int) *Agent {
	return &Agent{
		router:        router,
		generator:     generator,
		retriever:     retriever,
		reports:       reports,
		conversations: conversations,
		embedder:      embedder,
		historyPairs:  historyPairs,
	}
}

// Ask answers one user query. Classification failures degrade to the
// GENERAL route; retrieval coming back empty produces an honest no-data
// answer. Only LLM or store failures surface as errors.
func (a *Agent) Ask(ctx context.Context, sessionID, query string) (Answer, error) {
	history, err := a.conversations.LastPairs(ctx, sessionID, a.historyPairs)
	if err != nil {
		return Answer{}, fmt.Errorf("load history: %w", err)
	}

	route, err := a.router.Classify(ctx, query, history)
	if err != nil {
		slog.Warn("intent classification failed, falling back to GENERAL", "error", err)
		route = model.RouteGeneral
	}

	answer := Answer{Route: route}
	switch route {
	case model.RouteSummary:
		answer.Text, answer.Chunks, err = a.answerSummary(ctx, history)
	case model.RouteTrend:
		answer.Text, answer.Chunks, err = a.answerTrend(ctx, query, history)
	case model.RouteFactLookup:
		answer.Text, answer.Chunks, err = a.answerFacts(ctx, query, history)
	default:
		answer.Text = llm.GeneralAnswer()
	}
	if err != nil {
		return Answer{}, err
	}

	a.recordTurns(ctx, sessionID, query, answer.Text)
	return answer, nil
}

func (a *Agent) answerSummary(ctx context.Context, history []model.Turn) (string, []model.ScoredChunk, error) {
	chunks, err := a.retriever.ForSummary(ctx)
	if err != nil {
		return "", nil, err
	}
	if len(chunks) == 0 {
		return noRecentNewsAnswer, nil, nil
	}

	report, err := a.generator.Generate(ctx, llm.GenerateRequest{
		Route:   model.RouteSummary,
		History: history,
		Chunks:  chunks,
	})
	if err != nil {
		return "", nil, err
	}

	// The report joins the corpus so later trend queries can use its
	// timestamp as their cutoff. Losing the writeback costs a baseline,
	// not the answer, so it only logs.
	if err := a.storeReport(ctx, report); err != nil {
		slog.Error("failed to index generated report", "error", err)
	}

	return report, chunks, nil
}

func (a *Agent) answerTrend(ctx context.Context, query string, history []model.Turn) (string, []model.ScoredChunk, error) {
	trend, err := a.retriever.ForTrend(ctx, query)
	if err != nil {
		return "", nil, err
	}

	if len(trend.Recent) == 0 {
		return noNewDevelopmentsAnswer(trend.Cutoff), nil, nil
	}

	text, err := a.generator.Generate(ctx, llm.GenerateRequest{
		Route:    model.RouteTrend,
		Query:    query,
		History:  history,
		Chunks:   trend.Recent,
		Baseline: trend.Baseline,
		Cutoff:   trend.Cutoff,
	})
	if err != nil {
		return "", nil, err
	}
	return text, trend.Recent, nil
}

func (a *Agent) answerFacts(ctx context.Context, query string, history []model.Turn) (string, []model.ScoredChunk, error) {
	chunks, err := a.retriever.ForFacts(ctx, query)
	if err != nil {
		return "", nil, err
	}
	if len(chunks) == 0 {
		return noGroundingAnswer, nil, nil
	}

	text, err := a.generator.Generate(ctx, llm.GenerateRequest{
		Route:   model.RouteFactLookup,
		Query:   query,
		History: history,
		Chunks:  chunks,
	})
	if err != nil {
		return "", nil, err
	}
	return text, chunks, nil
}

func (a *Agent) storeReport(ctx context.Context, report string) error {
	vector, err := a.embedder.Embed(ctx, report)
	if err != nil {
		return fmt.Errorf("embed report: %w", err)
	}

	now := time.Now()
	chunk := &model.DocumentChunk{
		Content:      report,
		Title:        "Market Report " + now.Format("2006-01-02"),
		Source:       model.SourceAgent,
		DocumentType: model.DocTypeReport,
		PublishedAt:  now,
	}

	_, err = a.reports.SaveChunk(ctx, chunk, vector)
	return err
}

// recordTurns appends both turns after a successful answer. A failed append
// costs follow-up context, not the current answer.
func (a *Agent) recordTurns(ctx context.Context, sessionID, query, answer string) {
	if err := a.conversations.Append(ctx, sessionID, model.Turn{Role: model.RoleUser, Content: query}); err != nil {
		slog.Error("failed to record user turn", "error", err)
		return
	}
	if err := a.conversations.Append(ctx, sessionID, model.Turn{Role: model.RoleAssistant, Content: answer}); err != nil {
		slog.Error("failed to record assistant turn", "error", err)
	}
}

func noNewDevelopmentsAnswer(cutoff time.Time) string {
	if cutoff.IsZero() {
		return "I have no economic news on record yet, so there are no developments to compare. Try refreshing the feeds first."
	}
	return fmt.Sprintf("No new developments since the last report on %s.", cutoff.Format("2006-01-02 15:04"))
}
