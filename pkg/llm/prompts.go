package llm

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/a38062an/uk-econ-insight-agent/internal/model"
)

const maxChunkChars = 1500

const routerSystemPrompt = `You are an intent classifier for a UK economic news assistant. Classify the user's latest message into exactly one of four categories.

### Categories

SUMMARY — the user wants a broad market briefing or report covering recent UK economic news as a whole.
Examples: "give me a market briefing", "summarise today's economic news", "what's the state of the market?"

TREND — the user asks how something has changed, developed, or moved over time, or what is new since the last update.
Examples: "how has GDP changed?", "is inflation getting worse?", "any new developments on interest rates?"

FACT_LOOKUP — the user asks for a specific fact, figure, or explanation about the economy.
Examples: "what is the current interest rate?", "why did the pound fall?", "what did the Bank of England announce?"

GENERAL — greetings, small talk, meta-conversational questions, or anything not about economics.
Examples: "hello", "what can you do?", "what did you just say?", "tell me a joke"

### Boundary cases

- Follow-up questions that reference earlier turns with pronouns ("is that good?", "why did it drop?") are about the economic topic under discussion. Use the conversation history to resolve the reference and classify as FACT_LOOKUP or TREND, never GENERAL.
- Questions about the assistant itself or the conversation ("can you repeat that?") are GENERAL even when the prior turns were economic.
- Non-economic factual questions ("what is the capital of France?") are GENERAL.

Respond with the category label only: SUMMARY, TREND, FACT_LOOKUP or GENERAL. No other text.`

const summarySystemPrompt = `You are an expert economic analyst specializing in the UK economy. You will receive recent news passages, newest first.

Produce a concise but comprehensive Markdown market report:
1. Identify the key themes (e.g. Inflation, Housing Market, BoE Interest Rates).
2. For each theme, give a 2-3 sentence summary of the latest developments.
3. Where the passages disagree (different figures, conflicting outlooks), state the conflict explicitly and attribute each side to its source. Never silently pick one side.
4. Conclude with a "Market Sentiment" rating (Positive, Neutral, Negative) and a one-sentence justification.

Use only facts from the passages. Format cleanly in Markdown with headers.`

const trendSystemPrompt = `You are an expert economic analyst specializing in the UK economy. You will receive the previous state of a topic (from the last market report or older coverage) and news passages published after it.

Compare the old and new state explicitly:
- What was the position before, and what do the new passages say?
- Name the direction of change (improved, worsened, unchanged) with figures where available.
- If the old and new passages conflict, say so and attribute each side.

Use only facts from the provided material. Do not invent figures. Keep the answer focused on the user's topic.`

const factSystemPrompt = `You are a helpful UK economic advisor. Answer the user's question using only the provided context passages and conversation history.

Rules:
- If the answer is not in the context, say that no relevant economic information was found in the database. Do NOT make up numbers or facts.
- Keep the answer professional but conversational.
- Mention the source article titles when they support the answer.`

// generalAnswer is the canned response for the GENERAL route, which bypasses
// retrieval and generation entirely.
const generalAnswer = "I am the UK Economic Insight Agent. I can provide market reports, analyse trends since the last report, or answer specific questions about the UK economy. How can I help you today?"

func buildRouterUserPrompt(query string, history []model.Turn) string {
	var sb strings.Builder
	if len(history) > 0 {
		sb.WriteString("Conversation history:\n")
		sb.WriteString(formatHistory(history))
		sb.WriteString("\n")
	}
	sb.WriteString("Latest user message: ")
	sb.WriteString(query)
	return sb.String()
}

func buildSummaryUserPrompt(req GenerateRequest) string {
	var sb strings.Builder
	sb.WriteString("Recent news passages (newest first):\n\n")
	sb.WriteString(formatChunks(req.Chunks))
	return sb.String()
}

func buildTrendUserPrompt(req GenerateRequest) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topic: %s\n\n", req.Query))

	sb.WriteString("Previous state")
	if !req.Cutoff.IsZero() {
		sb.WriteString(fmt.Sprintf(" (as of %s)", req.Cutoff.Format("2006-01-02 15:04")))
	}
	sb.WriteString(":\n")
	if strings.TrimSpace(req.Baseline) == "" {
		sb.WriteString("No earlier report exists for this topic.\n")
	} else {
		sb.WriteString(req.Baseline)
		sb.WriteString("\n")
	}

	sb.WriteString("\nNews published since then:\n\n")
	sb.WriteString(formatChunks(req.Chunks))
	return sb.String()
}

func buildFactUserPrompt(req GenerateRequest) string {
	var sb strings.Builder
	sb.WriteString("Context passages:\n\n")
	sb.WriteString(formatChunks(req.Chunks))
	if len(req.History) > 0 {
		sb.WriteString("\nConversation history:\n")
		sb.WriteString(formatHistory(req.History))
	}
	sb.WriteString(fmt.Sprintf("\nToday's date: %s\n", time.Now().Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("\nUser question: %s\n", req.Query))
	return sb.String()
}

func formatChunks(chunks []model.ScoredChunk) string {
	var sb strings.Builder
	for i, c := range chunks {
		title := c.Title
		if title == "" {
			title = "Untitled"
		}
		sb.WriteString(fmt.Sprintf("[%d] %s (%s, %s)\n", i+1, title, c.Source, c.PublishedAt.Format("2006-01-02 15:04")))
		sb.WriteString(truncate(c.Content, maxChunkChars))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func formatHistory(history []model.Turn) string {
	var sb strings.Builder
	for _, turn := range history {
		sb.WriteString(fmt.Sprintf("%s: %s\n", turn.Role, turn.Content))
	}
	return sb.String()
}

// truncate cuts s near max bytes, backing off to a rune boundary so the cut
// never leaves a broken UTF-8 sequence in the prompt.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}

// systemPromptFor picks the generation prompt for a route. GENERAL never
// reaches the generator.
func systemPromptFor(route model.Route) string {
	switch route {
	case model.RouteSummary:
		return summarySystemPrompt
	case model.RouteTrend:
		return trendSystemPrompt
	default:
		return factSystemPrompt
	}
}

func userPromptFor(req GenerateRequest) string {
	switch req.Route {
	case model.RouteSummary:
		return buildSummaryUserPrompt(req)
	case model.RouteTrend:
		return buildTrendUserPrompt(req)
	default:
		return buildFactUserPrompt(req)
	}
}

// GeneralAnswer returns the canned GENERAL-route response.
func GeneralAnswer() string {
	return generalAnswer
}
