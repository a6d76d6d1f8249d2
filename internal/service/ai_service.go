package service

import (
	"bytes"
	"codementor_backend/internal/config"
	"codementor_backend/internal/exam"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Chat sends one completion request and returns the assistant reply.
func (s *AIService) Chat(ctx context.Context, system string, messages []AIChatMessage) (string, error) {
	all := make([]AIChatMessage, 0, len(messages)+1)
	if system != "" {
		all = append(all, AIChatMessage{Role: "system", Content: system})
	}
	all = append(all, messages...)

	reqBody := map[string]interface{}{
		"model":    s.config.Model,
		"messages": all,
	}
	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("AI API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("AI API returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

const generateQuestionsSystem = `You are a programming instructor writing quiz questions.
Respond ONLY with a JSON array. Each element must have:
"id" (string), "type" ("mcq", "code-mcq" or "multi-select"), "question" (string),
"options" (array of strings, at least 2), "points" (positive integer),
"correctAnswer" (option index, for mcq and code-mcq) or "correctAnswers"
(array of option indices, for multi-select), optional "code", "language" and
"explanation". No prose, no markdown fences.`

// GenerateTestQuestions asks the model for draft questions and validates
// them with the same rules as hand-written ones. Invalid output is an
// error, never silently saved.
func (s *AIService) GenerateTestQuestions(ctx context.Context, language, difficulty string, count int) ([]exam.Question, error) {
	prompt := fmt.Sprintf("Write %d quiz questions about %s at %s level. Mix the three question types.",
		count, language, difficulty)

	reply, err := s.Chat(ctx, generateQuestionsSystem, []AIChatMessage{{Role: "user", Content: prompt}})
	if err != nil {
		return nil, err
	}

	// Models sometimes wrap JSON in fences despite instructions.
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")

	var questions exam.QuestionList
	if err := json.Unmarshal([]byte(reply), &questions); err != nil {
		return nil, fmt.Errorf("AI returned unparseable questions: %w", err)
	}
	for _, q := range questions {
		if err := exam.ValidateQuestion(q); err != nil {
			return nil, fmt.Errorf("AI question %s rejected: %w", q.ID(), err)
		}
	}
	return questions, nil
}

// ExplainResult produces study feedback for a finished attempt.
func (s *AIService) ExplainResult(ctx context.Context, language string, result *exam.Result) (string, error) {
	summary, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	prompt := fmt.Sprintf(
		"A student finished a %s test. Their result: %s. In 3 short paragraphs, tell them what to review next.",
		language, summary)
	return s.Chat(ctx, "You are an encouraging programming tutor.", []AIChatMessage{{Role: "user", Content: prompt}})
}
