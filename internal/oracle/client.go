// Package oracle talks to the configured LLM provider to generate interview
// questions and evaluate answers. Neither operation ever returns an error:
// every transport or parse failure resolves to the deterministic fallback
// (static question bank, heuristic evaluator) and the outcome records which
// path produced the result.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/engine"
	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/fallback"
	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/provider"
)

// Source tags which path produced a result.
type Source string

const (
	SourceOracle   Source = "oracle"
	SourceFallback Source = "fallback"
)

type GenerateResult struct {
	Questions []string `json:"questions"`
	Source    Source   `json:"source"`
}

type EvaluateResult struct {
	engine.EvaluationResult
	Source Source `json:"source"`
}

type Client struct {
	registry *provider.Registry
	bank     *fallback.Bank

	// When the provider returns fewer questions than the difficulty
	// requires, pad the list from the bank instead of leaving it short.
	padShortLists bool
}

func NewClient(registry *provider.Registry, bank *fallback.Bank) *Client {
	return &Client{registry: registry, bank: bank, padShortLists: true}
}

// ResolveProvider normalizes a provider id, mapping unknown ids to the
// registry default.
func (c *Client) ResolveProvider(id string) string {
	return c.registry.Resolve(id)
}

const generateSystemPrompt = `You are an interview question generator. You must respond with ONLY a valid JSON array of strings (no markdown, no code fences, no explanations), for example:

["First question?", "Second question?"]

Rules:
- Each element is one complete interview question
- Questions must be specific to the requested role, interview type and difficulty
- Do not number the questions inside the strings
- Return ONLY the JSON array, nothing else`

const evaluateSystemPrompt = `You are an interview answer evaluator. You must respond with ONLY a valid JSON object (no markdown, no code fences, no explanations) in the following format:

{"score": 7.5, "feedback": "Two to four sentences of constructive feedback."}

Rules:
- "score" is a number from 0 to 10 with at most one decimal place
- "feedback" is specific, constructive and non-empty
- Return ONLY the JSON object, nothing else`

// GenerateQuestions asks the provider for a question set sized by difficulty.
// On any failure it falls back to the static bank, so the returned list always
// has exactly the difficulty-determined count.
func (c *Client) GenerateQuestions(ctx context.Context, cfg engine.SessionConfig) GenerateResult {
	count := cfg.Difficulty.QuestionCount()

	client, meta := c.registry.Get(cfg.Provider)
	prompt := fmt.Sprintf(
		"Generate %d %s interview questions at %s difficulty for a %s position.",
		count, cfg.Type, cfg.Difficulty, cfg.Role,
	)

	content, err := client.Complete(ctx, generateSystemPrompt, prompt)
	if err != nil {
		log.Printf("oracle: generation via %s failed, using question bank: %v", meta.ID, err)
		return GenerateResult{Questions: c.bankQuestions(cfg, count), Source: SourceFallback}
	}

	var questions []string
	if err := json.Unmarshal([]byte(cleanJSONContent(content)), &questions); err != nil {
		log.Printf("oracle: generation via %s returned invalid JSON, using question bank: %v", meta.ID, err)
		return GenerateResult{Questions: c.bankQuestions(cfg, count), Source: SourceFallback}
	}

	questions = trimEmpty(questions)
	if len(questions) == 0 {
		log.Printf("oracle: generation via %s returned no usable questions, using question bank", meta.ID)
		return GenerateResult{Questions: c.bankQuestions(cfg, count), Source: SourceFallback}
	}

	if len(questions) > count {
		questions = questions[:count]
	}
	if len(questions) < count && c.padShortLists {
		questions = c.padFromBank(questions, cfg, count)
	}
	return GenerateResult{Questions: questions, Source: SourceOracle}
}

// EvaluateAnswer scores one answer via the provider, falling back to the
// heuristic evaluator on any failure.
func (c *Client) EvaluateAnswer(ctx context.Context, question, answer, role, providerID string) EvaluateResult {
	client, meta := c.registry.Get(providerID)
	prompt := fmt.Sprintf(
		"Role: %s\n\nInterview question: %s\n\nCandidate answer: %s\n\nEvaluate the answer.",
		role, question, answer,
	)

	content, err := client.Complete(ctx, evaluateSystemPrompt, prompt)
	if err != nil {
		log.Printf("oracle: evaluation via %s failed, using heuristic: %v", meta.ID, err)
		return EvaluateResult{EvaluationResult: engine.HeuristicEvaluate(answer), Source: SourceFallback}
	}

	var parsed struct {
		Score    float64 `json:"score"`
		Feedback string  `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(cleanJSONContent(content)), &parsed); err != nil {
		log.Printf("oracle: evaluation via %s returned invalid JSON, using heuristic: %v", meta.ID, err)
		return EvaluateResult{EvaluationResult: engine.HeuristicEvaluate(answer), Source: SourceFallback}
	}
	if strings.TrimSpace(parsed.Feedback) == "" {
		log.Printf("oracle: evaluation via %s returned empty feedback, using heuristic", meta.ID)
		return EvaluateResult{EvaluationResult: engine.HeuristicEvaluate(answer), Source: SourceFallback}
	}

	score := parsed.Score
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	score = float64(int(score*10+0.5)) / 10

	return EvaluateResult{
		EvaluationResult: engine.EvaluationResult{Score: score, Feedback: parsed.Feedback},
		Source:           SourceOracle,
	}
}

func (c *Client) bankQuestions(cfg engine.SessionConfig, count int) []string {
	qs := c.bank.Lookup(cfg.Role, cfg.Type)
	if len(qs) > count {
		qs = qs[:count]
	}
	out := make([]string, len(qs))
	copy(out, qs)
	return out
}

func (c *Client) padFromBank(questions []string, cfg engine.SessionConfig, count int) []string {
	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		seen[q] = true
	}
	for _, q := range c.bank.Lookup(cfg.Role, cfg.Type) {
		if len(questions) >= count {
			break
		}
		if !seen[q] {
			questions = append(questions, q)
			seen[q] = true
		}
	}
	return questions
}

func trimEmpty(questions []string) []string {
	out := questions[:0]
	for _, q := range questions {
		if strings.TrimSpace(q) != "" {
			out = append(out, strings.TrimSpace(q))
		}
	}
	return out
}

// cleanJSONContent strips incidental code-fence wrapping that models add
// around structured replies.
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	}
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}
