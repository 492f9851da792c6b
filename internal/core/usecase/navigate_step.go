package usecase

import (
	"context"
	"fmt"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// NavigateStepUseCase moves the wizard one step. Navigation never validates
// the draft and never changes it.
type NavigateStepUseCase struct {
	sessions port.SessionStorePort
}

func NewNavigateStepUseCase(sessions port.SessionStorePort) *NavigateStepUseCase {
	return &NavigateStepUseCase{sessions: sessions}
}

func (uc *NavigateStepUseCase) Execute(ctx context.Context, sessionID string, direction domain.StepDirection) (*domain.Session, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "NavigateStep",
		"session_id": sessionID,
		"direction":  direction,
	})

	session, err := uc.sessions.Update(ctx, sessionID, func(s *domain.Session) error {
		switch direction {
		case domain.StepForward:
			s.Advance()
		case domain.StepBack:
			s.Retreat()
		default:
			return fmt.Errorf("%w: direction %q", domain.ErrInvalidFieldValue, direction)
		}
		return nil
	})
	if err != nil {
		ucLogger.Warn("Navigation rejected", port.Fields{"error": err.Error()})
		return nil, err
	}

	ucLogger.Debug("Step changed", port.Fields{"step": session.Sequencer().Current()})
	return session, nil
}
