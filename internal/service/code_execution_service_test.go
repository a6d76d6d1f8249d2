package service

import (
	"codementor_backend/internal/config"
	"codementor_backend/internal/model"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeJudge0 answers submissions with a canned stdout per stdin value.
func fakeJudge0(t *testing.T, outputs map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sub judge0Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			t.Errorf("bad submission body: %v", err)
		}
		stdout := outputs[sub.Stdin]
		resp := map[string]interface{}{
			"stdout": stdout,
			"time":   "0.02",
			"memory": 1024,
			"status": map[string]interface{}{"id": 3, "description": "Accepted"},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestExecute(t *testing.T) {
	srv := fakeJudge0(t, map[string]string{"5": "25\n"})
	defer srv.Close()

	svc := NewCodeExecutionService(config.Judge0Config{URL: srv.URL})
	result, err := svc.Execute(context.Background(), "python", "print(int(input())**2)", "5")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Stdout != "25\n" {
		t.Errorf("stdout = %q", result.Stdout)
	}
	if result.Status != "Accepted" {
		t.Errorf("status = %q", result.Status)
	}
	if result.Time == 0 {
		t.Error("time not parsed")
	}
}

func TestExecute_UnsupportedLanguage(t *testing.T) {
	svc := NewCodeExecutionService(config.Judge0Config{URL: "http://unused"})
	if _, err := svc.Execute(context.Background(), "cobol", "", ""); err == nil {
		t.Error("expected error for unsupported language")
	}
}

func TestRunChallenge(t *testing.T) {
	srv := fakeJudge0(t, map[string]string{
		"1": "2",     // expected "2\n": passes after trailing-whitespace trim
		"3": "wrong", // hidden case, fails
	})
	defer srv.Close()

	cases, _ := json.Marshal([]model.TestCase{
		{Input: "1", ExpectedOutput: "2\n"},
		{Input: "3", ExpectedOutput: "4", Hidden: true},
	})
	challenge := &model.Challenge{Language: "go", TestCases: cases}

	svc := NewCodeExecutionService(config.Judge0Config{URL: srv.URL})
	run, err := svc.RunChallenge(context.Background(), challenge, "package main")
	if err != nil {
		t.Fatalf("RunChallenge: %v", err)
	}

	if run.Passed {
		t.Error("one case failed, run must not pass")
	}
	if run.TotalCases != 2 || run.PassedCases != 1 {
		t.Errorf("cases = %d/%d, want 1/2", run.PassedCases, run.TotalCases)
	}
	if !run.Results[0].Passed {
		t.Error("trailing newline difference should still pass")
	}
	if run.Results[0].Input == "" || run.Results[0].Actual == "" {
		t.Error("visible case should expose input and output")
	}

	hidden := run.Results[1]
	if hidden.Passed {
		t.Error("hidden case should fail")
	}
	if hidden.Input != "" || hidden.Expected != "" || hidden.Actual != "" {
		t.Errorf("hidden case leaked details: %+v", hidden)
	}
}

func TestRunChallenge_NoCases(t *testing.T) {
	svc := NewCodeExecutionService(config.Judge0Config{URL: "http://unused"})
	challenge := &model.Challenge{Language: "go", TestCases: json.RawMessage(`[]`)}
	if _, err := svc.RunChallenge(context.Background(), challenge, "x"); err == nil {
		t.Error("expected error for challenge without test cases")
	}
}
