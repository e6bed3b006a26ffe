// Package llm generates answers from retrieved passages with a Google
// GenAI text model.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/prannavdeshpande/second-brain/pkg/logger"
)

// Generator abstracts plain prompt-in, text-out generation so the answer
// synthesizer can be tested without network access.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini is a Generator backed by a Google GenAI generative model.
type Gemini struct {
	model *genai.GenerativeModel
}

// NewGemini creates a generation client for the named model.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create GenAI client: %w", err)
	}
	return &Gemini{model: client.GenerativeModel(modelName)}, nil
}

// Generate sends the prompt and returns the flattened text of the first
// candidate.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini response was empty or in an unexpected format")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

var _ Generator = (*Gemini)(nil)

// Synthesizer turns a question plus retrieved passages into a grounded
// answer.
type Synthesizer struct {
	gen Generator
	log *logger.Logger
}

// NewSynthesizer creates a Synthesizer over any Generator.
func NewSynthesizer(gen Generator, log *logger.Logger) *Synthesizer {
	return &Synthesizer{gen: gen, log: log}
}

// Answer builds a context-stuffed prompt from the passages, in relevance
// order, and asks the model to answer from them alone.
func (s *Synthesizer) Answer(ctx context.Context, question string, passages []string) (string, error) {
	s.log.Info(fmt.Sprintf("Building prompt for question with %d passages", len(passages)))

	answer, err := s.gen.Generate(ctx, buildPrompt(question, passages))
	if err != nil {
		s.log.WithErr(err).Error("LLM failed to generate answer")
		return "", err
	}
	return answer, nil
}

func buildPrompt(question string, passages []string) string {
	var sb strings.Builder
	sb.WriteString("Based on the following context, please answer the question. ")
	sb.WriteString("If the context does not contain the answer, say so.\n\nContext:\n")
	for i, passage := range passages {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("Context %d:\n%s\n", i+1, passage))
	}
	sb.WriteString("---\n\n")
	sb.WriteString(fmt.Sprintf("Question: %s", question))
	return sb.String()
}
