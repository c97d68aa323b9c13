package graders

import (
	"context"
	"fmt"

	"github.com/spboyer/callqa/internal/extract"
	"github.com/spboyer/callqa/internal/models"
	"github.com/spboyer/callqa/internal/rubric"
)

// infoGrader reports an extracted fact for a zero-weight criterion.
type infoGrader struct {
	name string
	fact rubric.Fact
}

// NewInfoGrader creates an [infoGrader] for the given fact.
func NewInfoGrader(name string, fact rubric.Fact) (*infoGrader, error) {
	switch fact {
	case rubric.FactNone, rubric.FactAgentName, rubric.FactCallType, rubric.FactAccountNumber:
		return &infoGrader{name: name, fact: fact}, nil
	default:
		return nil, fmt.Errorf("info grader %q: unknown fact %q", name, fact)
	}
}

func (ig *infoGrader) Name() string            { return ig.name }
func (ig *infoGrader) Kind() models.GraderKind { return models.GraderKindInfo }

func (ig *infoGrader) Grade(ctx context.Context, gradingContext *Context) (*models.GraderResults, error) {
	return measureTime(func() (*models.GraderResults, error) {
		value, feedback := describeFact(ig.fact, gradingContext.Transcript)

		return &models.GraderResults{
			Name:     ig.name,
			Type:     models.GraderKindInfo,
			Passed:   true,
			Feedback: feedback,
			Details: map[string]any{
				"fact":  string(ig.fact),
				"value": value,
			},
		}, nil
	})
}

func describeFact(fact rubric.Fact, text string) (value, feedback string) {
	switch fact {
	case rubric.FactAgentName:
		value = extract.AgentName(text)
		return value, "Agent identified as: " + value
	case rubric.FactCallType:
		value = extract.CallType(text)
		return value, "Call type: " + value
	case rubric.FactAccountNumber:
		value = extract.AccountNumber(text)
		return value, "Account mentioned: " + value
	default:
		return "", ""
	}
}
