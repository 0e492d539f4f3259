package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
)

type fakeGenerator struct {
	text string
	err  error

	calls   int
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func TestParseSuggestedScore(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *float64
	}{
		{name: "plain integer", text: "Suggested Score: 85\n\nOverall Evaluation: good work", want: scorePtr(85)},
		{name: "decimal", text: "Suggested Score: 72.5", want: scorePtr(72.5)},
		{name: "case insensitive", text: "SUGGESTED SCORE: 90", want: scorePtr(90)},
		{name: "mid text", text: "Some preamble.\nSuggested Score: 60\nMore text.", want: scorePtr(60)},
		{name: "clamped above", text: "Suggested Score: 150", want: scorePtr(100)},
		{name: "zero", text: "Suggested Score: 0", want: scorePtr(0)},
		{name: "no pattern", text: "The student did well overall.", want: nil},
		{name: "empty", text: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSuggestedScore(tt.text)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParseSuggestedScore(%q) = %v, want %v", tt.text, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("ParseSuggestedScore(%q) = %v, want %v", tt.text, *got, *tt.want)
			}
		})
	}
}

func TestParseAnswerComments(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[int]string
	}{
		{
			name: "numbered entries",
			text: "Suggested Score: 80\n\nDetailed Feedback:\n1. Clear thesis.\n2. Misses the edge case.\n\nStrengths:\ngood prose\n",
			want: map[int]string{1: "Clear thesis.", 2: "Misses the edge case."},
		},
		{
			name: "multiline entry",
			text: "Detailed Feedback:\n1. Good start.\nCould go deeper.\n2. Correct.\n",
			want: map[int]string{1: "Good start.\nCould go deeper.", 2: "Correct."},
		},
		{
			name: "section without numbering",
			text: "Detailed Feedback:\nOverall the answers are fine.\n\nStrengths:\nclarity\n",
			want: nil,
		},
		{
			name: "no section",
			text: "Suggested Score: 90\nWell done.",
			want: nil,
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAnswerComments(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseAnswerComments(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for n, want := range tt.want {
				if got[n] != want {
					t.Errorf("comment %d = %q, want %q", n, got[n], want)
				}
			}
		})
	}
}

func TestAIFeedbackService_AnalyzeSubmission(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := context.Background()

	t.Run("successful analysis persists feedback and score", func(t *testing.T) {
		repo := newMemoryRepository()
		teacher := repo.seedTeacher("profe")
		student := repo.seedStudent("alumno")
		assignment := repo.seedAssignment("Ensayo sobre Go", nil, teacher)
		submission := repo.seedSubmission(assignment, student)

		generator := &fakeGenerator{text: "Suggested Score: 85\n\nOverall Evaluation:\nSolid work."}
		service := NewAIFeedbackService(repo, logger, generator)

		result, err := service.AnalyzeSubmission(ctx, submission.ID)
		if err != nil {
			t.Fatalf("AnalyzeSubmission failed: %v", err)
		}

		if !result.AnalysisComplete {
			t.Error("expected AnalysisComplete to be true")
		}
		if result.SuggestedScore == nil || *result.SuggestedScore != 85 {
			t.Errorf("expected suggested score 85, got %v", result.SuggestedScore)
		}
		if result.Error != "" {
			t.Errorf("expected empty error detail, got %q", result.Error)
		}

		stored := repo.submissions[submission.ID]
		if stored.AIFeedback == nil || *stored.AIFeedback != generator.text {
			t.Error("expected feedback persisted on submission")
		}
		if stored.AIScore == nil || *stored.AIScore != 85 {
			t.Errorf("expected AI score 85 persisted, got %v", stored.AIScore)
		}
	})

	t.Run("prompt includes assignment context", func(t *testing.T) {
		repo := newMemoryRepository()
		teacher := repo.seedTeacher("profe")
		student := repo.seedStudent("alumno")
		assignment := repo.seedAssignment("Ensayo sobre Go", nil, teacher)
		submission := repo.seedSubmission(assignment, student)

		generator := &fakeGenerator{text: "Suggested Score: 70"}
		service := NewAIFeedbackService(repo, logger, generator)

		if _, err := service.AnalyzeSubmission(ctx, submission.ID); err != nil {
			t.Fatalf("AnalyzeSubmission failed: %v", err)
		}

		if generator.calls != 1 {
			t.Fatalf("expected 1 generator call, got %d", generator.calls)
		}
		prompt := generator.prompts[0]
		if !strings.Contains(prompt, "Ensayo sobre Go") {
			t.Error("expected prompt to include the assignment title")
		}
		if !strings.Contains(prompt, "Suggested Score: [number 0-100]") {
			t.Error("expected prompt to pin the response format")
		}
	})

	t.Run("generator failure returns placeholder without error", func(t *testing.T) {
		repo := newMemoryRepository()
		teacher := repo.seedTeacher("profe")
		student := repo.seedStudent("alumno")
		assignment := repo.seedAssignment("Ensayo sobre Go", nil, teacher)
		submission := repo.seedSubmission(assignment, student)

		generator := &fakeGenerator{err: fmt.Errorf("quota exceeded")}
		service := NewAIFeedbackService(repo, logger, generator)

		result, err := service.AnalyzeSubmission(ctx, submission.ID)
		if err != nil {
			t.Fatalf("expected nil error on generator failure, got %v", err)
		}

		if result.AnalysisComplete {
			t.Error("expected AnalysisComplete to be false")
		}
		if result.Feedback != placeholderFeedback {
			t.Errorf("expected placeholder feedback, got %q", result.Feedback)
		}
		if result.SuggestedScore != nil {
			t.Errorf("expected no suggested score, got %v", result.SuggestedScore)
		}
		if !strings.Contains(result.Error, "quota exceeded") {
			t.Errorf("expected error detail to surface, got %q", result.Error)
		}

		stored := repo.submissions[submission.ID]
		if stored.AIFeedback != nil {
			t.Error("failed analysis must not persist feedback")
		}
	})

	t.Run("persists per-answer comments from the detailed feedback", func(t *testing.T) {
		repo := newMemoryRepository()
		teacher := repo.seedTeacher("profe")
		student := repo.seedStudent("alumno")
		assignment := repo.seedAssignment("Ensayo sobre Go", nil, teacher)
		submission := repo.seedSubmission(assignment, student)
		repo.seedAnswer(submission, 1, "Los punteros comparten memoria.")
		repo.seedAnswer(submission, 2, "Un canal sincroniza goroutines.")

		generator := &fakeGenerator{text: "Suggested Score: 80\n\n" +
			"Overall Evaluation:\nSolid work.\n\n" +
			"Detailed Feedback:\n1. Clear explanation of sharing.\n2. Misses buffered channels.\n\n" +
			"Strengths:\nconcise answers\n"}
		service := NewAIFeedbackService(repo, logger, generator)

		if _, err := service.AnalyzeSubmission(ctx, submission.ID); err != nil {
			t.Fatalf("AnalyzeSubmission failed: %v", err)
		}

		answers := repo.answersForSubmission(submission.ID)
		if len(answers) != 2 {
			t.Fatalf("expected 2 answers, got %d", len(answers))
		}
		if answers[0].AIComment == nil || *answers[0].AIComment != "Clear explanation of sharing." {
			t.Errorf("expected comment on first answer, got %v", answers[0].AIComment)
		}
		if answers[1].AIComment == nil || *answers[1].AIComment != "Misses buffered channels." {
			t.Errorf("expected comment on second answer, got %v", answers[1].AIComment)
		}
	})

	t.Run("response without detailed feedback leaves answers untouched", func(t *testing.T) {
		repo := newMemoryRepository()
		teacher := repo.seedTeacher("profe")
		student := repo.seedStudent("alumno")
		assignment := repo.seedAssignment("Ensayo sobre Go", nil, teacher)
		submission := repo.seedSubmission(assignment, student)
		repo.seedAnswer(submission, 1, "Respuesta breve.")

		generator := &fakeGenerator{text: "Suggested Score: 65\nDecent effort overall."}
		service := NewAIFeedbackService(repo, logger, generator)

		if _, err := service.AnalyzeSubmission(ctx, submission.ID); err != nil {
			t.Fatalf("AnalyzeSubmission failed: %v", err)
		}

		answers := repo.answersForSubmission(submission.ID)
		if len(answers) != 1 || answers[0].AIComment != nil {
			t.Errorf("expected no comment, got %+v", answers)
		}
	})

	t.Run("unknown submission", func(t *testing.T) {
		repo := newMemoryRepository()
		service := NewAIFeedbackService(repo, logger, &fakeGenerator{text: "Suggested Score: 50"})

		_, err := service.AnalyzeSubmission(ctx, 999)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func scorePtr(v float64) *float64 { return &v }
