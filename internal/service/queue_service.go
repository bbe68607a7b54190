package service

import (
	"context"
	"sort"

	"github.com/spec-kit/helpdesk-platform/internal/domain"
	"github.com/spec-kit/helpdesk-platform/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-platform/pkg/util"
)

// QueueService derives an agent's working set from assignment and category
// competencies. Pure read projection, no write effects.
type QueueService struct {
	tickets      repository.TicketRepository
	competencies repository.CompetencyRepository
}

// NewQueueService constructs the projection.
func NewQueueService(tickets repository.TicketRepository, competencies repository.CompetencyRepository) *QueueService {
	return &QueueService{tickets: tickets, competencies: competencies}
}

// TicketsToManage returns the agent's working set. A ticket qualifies when it
// is assigned to the agent; or unassigned and either the agent declares no
// competencies or the ticket's category is among them; or assigned to someone
// else but inside the agent's competency set. Nudged tickets sort first, most
// recent nudge leading; ties fall back to creation time descending.
func (s *QueueService) TicketsToManage(ctx context.Context, agent *domain.User) ([]domain.Ticket, error) {
	if agent == nil {
		return nil, apperrors.NewUnauthorized("user required")
	}

	categoryIDs, err := s.competencies.ListCategoryIDsByUser(ctx, agent.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	competent := make(map[string]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		competent[id] = struct{}{}
	}

	tickets, err := s.tickets.ListByClinics(ctx, agent.ClinicIDs)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	working := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if s.inWorkingSet(agent, &ticket, competent) {
			working = append(working, ticket)
		}
	}

	sort.SliceStable(working, func(i, j int) bool {
		a, b := working[i], working[j]
		aNudged, bNudged := a.NudgeCount > 0, b.NudgeCount > 0
		if aNudged != bNudged {
			return aNudged
		}
		if aNudged && a.LastNudgeAt != nil && b.LastNudgeAt != nil && !a.LastNudgeAt.Equal(*b.LastNudgeAt) {
			return a.LastNudgeAt.After(*b.LastNudgeAt)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return working, nil
}

func (s *QueueService) inWorkingSet(agent *domain.User, ticket *domain.Ticket, competent map[string]struct{}) bool {
	if ticket.AssigneeID != nil && *ticket.AssigneeID == agent.ID {
		return true
	}
	_, inCompetency := competent[ticket.CategoryID]
	if ticket.AssigneeID == nil {
		return len(competent) == 0 || inCompetency
	}
	return inCompetency
}
