package service

import (
	"bytes"
	"codementor_backend/internal/config"
	"codementor_backend/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// judge0Languages maps our language slugs to Judge0 language ids.
var judge0Languages = map[string]int{
	"c":          50,
	"cpp":        54,
	"go":         60,
	"java":       62,
	"javascript": 63,
	"python":     71,
	"typescript": 74,
}

type CodeExecutionService struct {
	config config.Judge0Config
	client *http.Client
}

func NewCodeExecutionService(cfg config.Judge0Config) *CodeExecutionService {
	return &CodeExecutionService{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type ExecutionResult struct {
	Stdout        string  `json:"stdout"`
	Stderr        string  `json:"stderr"`
	CompileOutput string  `json:"compileOutput"`
	Status        string  `json:"status"`
	Time          float64 `json:"time"`
	Memory        int     `json:"memory"`
}

type ChallengeRunResult struct {
	Passed      bool              `json:"passed"`
	TotalCases  int               `json:"totalCases"`
	PassedCases int               `json:"passedCases"`
	Results     []TestCaseOutcome `json:"results"`
}

type TestCaseOutcome struct {
	Input    string `json:"input,omitempty"` // hidden cases omit the input
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Passed   bool   `json:"passed"`
	Status   string `json:"status"`
}

type judge0Submission struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin,omitempty"`
}

type judge0Response struct {
	Stdout        *string `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
	Time          string  `json:"time"`
	Memory        int     `json:"memory"`
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

// Execute runs one snippet against stdin and returns the raw outcome.
func (s *CodeExecutionService) Execute(ctx context.Context, language, sourceCode, stdin string) (*ExecutionResult, error) {
	languageID, ok := judge0Languages[language]
	if !ok {
		return nil, fmt.Errorf("unsupported language %q", language)
	}

	payload, _ := json.Marshal(judge0Submission{
		SourceCode: sourceCode,
		LanguageID: languageID,
		Stdin:      stdin,
	})

	url := s.config.URL + "/submissions?base64_encoded=false&wait=true"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.config.APIKey != "" {
		req.Header.Set("X-RapidAPI-Key", s.config.APIKey)
		req.Header.Set("X-RapidAPI-Host", s.config.Host)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("judge0 error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed judge0Response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	result := &ExecutionResult{
		Status: parsed.Status.Description,
		Memory: parsed.Memory,
	}
	if parsed.Stdout != nil {
		result.Stdout = *parsed.Stdout
	}
	if parsed.Stderr != nil {
		result.Stderr = *parsed.Stderr
	}
	if parsed.CompileOutput != nil {
		result.CompileOutput = *parsed.CompileOutput
	}
	fmt.Sscanf(parsed.Time, "%f", &result.Time)
	return result, nil
}

// RunChallenge executes a submission against every test case of a
// challenge. Output comparison trims trailing whitespace on both sides.
func (s *CodeExecutionService) RunChallenge(ctx context.Context, challenge *model.Challenge, sourceCode string) (*ChallengeRunResult, error) {
	var cases []model.TestCase
	if err := json.Unmarshal(challenge.TestCases, &cases); err != nil {
		return nil, fmt.Errorf("challenge %d has malformed test cases: %w", challenge.ID, err)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("challenge %d has no test cases", challenge.ID)
	}

	run := &ChallengeRunResult{TotalCases: len(cases)}
	for _, tc := range cases {
		exec, err := s.Execute(ctx, challenge.Language, sourceCode, tc.Input)
		if err != nil {
			return nil, err
		}

		outcome := TestCaseOutcome{
			Passed: strings.TrimRight(exec.Stdout, " \n\t") == strings.TrimRight(tc.ExpectedOutput, " \n\t"),
			Status: exec.Status,
		}
		if !tc.Hidden {
			outcome.Input = tc.Input
			outcome.Expected = tc.ExpectedOutput
			outcome.Actual = exec.Stdout
		}
		if outcome.Passed {
			run.PassedCases++
		}
		run.Results = append(run.Results, outcome)
	}
	run.Passed = run.PassedCases == run.TotalCases
	return run, nil
}
