package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/UDLA-2025/assignment-service/internal/models"
	"github.com/UDLA-2025/assignment-service/internal/repositories"
)

// scorePattern matches the "Suggested Score: <number>" line the prompt asks
// the model to emit.
var scorePattern = regexp.MustCompile(`(?i)suggested score:\s*(\d+(?:\.\d+)?)`)

// detailedFeedbackPattern captures the per-question analysis section, which
// runs until the next "Heading:" line or the end of the text.
var detailedFeedbackPattern = regexp.MustCompile(`(?is)detailed feedback:\s*(.+?)(?:\n[a-z][a-z ]+:\n|\z)`)

// answerCommentPattern marks the start of one numbered entry in that section.
var answerCommentPattern = regexp.MustCompile(`(?m)^\s*(\d+)[.)]\s*`)

const placeholderFeedback = "Could not generate automatic feedback. Please review the submission manually."

type aiFeedbackService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	generator TextGenerator
}

func NewAIFeedbackService(repo repositories.Repository, logger *slog.Logger, generator TextGenerator) AIFeedbackService {
	return &aiFeedbackService{
		repo:      repo,
		logger:    logger,
		generator: generator,
	}
}

func (s *aiFeedbackService) AnalyzeSubmission(ctx context.Context, submissionID uint) (*AIFeedbackResult, error) {
	submission, err := s.repo.Submission().GetByIDWithDetails(ctx, nil, submissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: submission %d", ErrNotFound, submissionID)
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	prompt := buildAnalysisPrompt(submission)

	text, genErr := s.generator.Generate(ctx, prompt)
	if genErr != nil {
		// The generator failing is a result, not an error: the caller still
		// gets placeholder feedback plus the detail.
		s.logger.Error("AI feedback generation failed",
			"submission_id", submissionID,
			"error", genErr)
		return &AIFeedbackResult{
			Feedback:         placeholderFeedback,
			SuggestedScore:   nil,
			AnalysisComplete: false,
			Error:            genErr.Error(),
		}, nil
	}

	score := ParseSuggestedScore(text)
	comments := ParseAnswerComments(text)

	submission.AIFeedback = &text
	submission.AIScore = score
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Submission().Update(ctx, nil, submission); err != nil {
			return fmt.Errorf("failed to persist AI feedback: %w", err)
		}

		// Numbered entries follow the prompt's answer order.
		for i := range submission.Answers {
			comment, ok := comments[i+1]
			if !ok {
				continue
			}
			answer := submission.Answers[i]
			answer.AIComment = &comment
			if err := txRepo.Answer().Update(ctx, nil, &answer); err != nil {
				return fmt.Errorf("failed to persist answer comment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("AI feedback generated",
		"submission_id", submissionID,
		"has_score", score != nil)

	return &AIFeedbackResult{
		Feedback:         text,
		SuggestedScore:   score,
		AnalysisComplete: true,
	}, nil
}

// ParseSuggestedScore extracts the suggested score from free text. Absent
// pattern means absent score; parsed values clamp to [0, 100].
func ParseSuggestedScore(text string) *float64 {
	match := scorePattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	score, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return &score
}

// ParseAnswerComments splits the "Detailed Feedback" section into one comment
// per numbered entry. Entry n maps to the n-th answer in prompt order. Text
// without the section, or without numbered entries, yields nothing.
func ParseAnswerComments(text string) map[int]string {
	section := detailedFeedbackPattern.FindStringSubmatch(text)
	if section == nil {
		return nil
	}
	body := section[1]

	marks := answerCommentPattern.FindAllStringSubmatchIndex(body, -1)
	if len(marks) == 0 {
		return nil
	}

	comments := make(map[int]string, len(marks))
	for i, mark := range marks {
		n, err := strconv.Atoi(body[mark[2]:mark[3]])
		if err != nil {
			continue
		}
		end := len(body)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}
		if comment := strings.TrimSpace(body[mark[1]:end]); comment != "" {
			comments[n] = comment
		}
	}
	return comments
}

func buildAnalysisPrompt(sub *models.Submission) string {
	var b strings.Builder

	b.WriteString("You are an expert educational assistant. Analyze the following student submission and provide constructive feedback.\n\n")

	if sub.Assignment != nil {
		fmt.Fprintf(&b, "ASSIGNMENT: %s\n", sub.Assignment.Title)
		if sub.Assignment.Description != nil {
			fmt.Fprintf(&b, "DESCRIPTION: %s\n", *sub.Assignment.Description)
		}
	}

	b.WriteString("\nSTUDENT QUESTIONS AND ANSWERS:\n")
	for i, answer := range sub.Answers {
		if answer.Question != nil {
			fmt.Fprintf(&b, "\n%d. QUESTION (%s): %s\n", i+1, answer.Question.Type, answer.Question.Text)
		} else {
			fmt.Fprintf(&b, "\n%d. QUESTION %d\n", i+1, answer.QuestionID)
		}

		switch {
		case answer.TextAnswer != nil:
			fmt.Fprintf(&b, "   ANSWER: %s\n", *answer.TextAnswer)
		case len(answer.SelectedOptions) > 0:
			var selected []uint
			_ = json.Unmarshal(answer.SelectedOptions, &selected)
			fmt.Fprintf(&b, "   SELECTED OPTIONS: %v\n", selected)
		case answer.NumericAnswer != nil:
			fmt.Fprintf(&b, "   NUMERIC ANSWER: %g\n", *answer.NumericAnswer)
		}
	}

	b.WriteString(`
Please provide:
1. An overall evaluation of the submission
2. Specific feedback per answer
3. Strengths and areas for improvement
4. A suggested score from 0 to 100
5. Recommendations for the student

RESPONSE FORMAT:
Suggested Score: [number 0-100]

Overall Evaluation:
[your evaluation]

Detailed Feedback:
[per-question analysis]

Strengths:
[strong points]

Areas for Improvement:
[aspects to improve]

Recommendations:
[specific suggestions]
`)

	return b.String()
}
