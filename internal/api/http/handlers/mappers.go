package handlers

import (
	"github.com/spec-kit/msp-dashboard/internal/api/dto"
	"github.com/spec-kit/msp-dashboard/internal/domain"
)

func ticketResponse(t *domain.Ticket) dto.TicketResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return dto.TicketResponse{
		ID:              t.ID,
		ExternalID:      t.ExternalID,
		Title:           t.Title,
		ClientID:        t.ClientID,
		UserID:          t.UserID,
		Category:        t.Category,
		Priority:        t.Priority,
		Status:          t.Status,
		Sensitivity:     t.Sensitivity,
		Symptoms:        t.Symptoms,
		ImpactedService: t.ImpactedService,
		QuickNotes:      t.QuickNotes,
		Description:     t.Description,
		AffectedUsers:   t.AffectedUsers,
		IsOutage:        t.IsOutage,
		Tags:            tags,
		Pillars:         pillarRefs(t.Pillars),
		DetectedAt:      t.DetectedAt,
		AcknowledgedAt:  t.AcknowledgedAt,
		MitigatedAt:     t.MitigatedAt,
		ResolvedAt:      t.ResolvedAt,
		ClosedAt:        t.ClosedAt,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func ticketListItem(item *domain.TicketListItem) dto.TicketListItemResponse {
	return dto.TicketListItemResponse{
		TicketResponse: ticketResponse(&item.Ticket),
		Client:         dto.ClientRef{Name: item.ClientName, Acronym: item.ClientAcronym},
		TaskCount:      item.TaskCount,
	}
}

func resolutionResponse(r *domain.Resolution) *dto.ResolutionResponse {
	if r == nil {
		return nil
	}
	return &dto.ResolutionResponse{
		TicketID:         r.TicketID,
		Summary:          r.Summary,
		RootCause:        r.RootCause,
		FixApplied:       r.FixApplied,
		ValidationSteps:  r.ValidationSteps,
		Prevention:       r.Prevention,
		TimeSpentMinutes: r.TimeSpentMinutes,
		Collaborators:    r.Collaborators,
		HandoffNotes:     r.HandoffNotes,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func taskResponse(t *domain.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Category:    t.Category,
		DueDate:     t.DueDate,
		TicketID:    t.TicketID,
		ClientID:    t.ClientID,
		UserID:      t.UserID,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func taskResponses(tasks []domain.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, taskResponse(&tasks[i]))
	}
	return out
}

func clientResponse(c *domain.Client) dto.ClientResponse {
	tags := c.EnvTags
	if tags == nil {
		tags = []string{}
	}
	return dto.ClientResponse{
		ID:          c.ID,
		Name:        c.Name,
		Acronym:     c.Acronym,
		Notes:       c.Notes,
		EnvType:     c.EnvType,
		EnvTags:     tags,
		IsActive:    c.IsActive,
		TicketCount: c.TicketCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func templateResponse(t *domain.ExportTemplate) dto.TemplateResponse {
	return dto.TemplateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Type:      t.Type,
		Content:   t.Content,
		IsDefault: t.IsDefault,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func userResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func pillarRefs(refs []domain.PillarRef) []dto.PillarRefResponse {
	out := make([]dto.PillarRefResponse, 0, len(refs))
	for _, ref := range refs {
		out = append(out, dto.PillarRefResponse{ID: ref.ID, Name: ref.Name, Color: ref.Color})
	}
	return out
}

func pillarResponse(p *domain.Pillar) dto.PillarResponse {
	return dto.PillarResponse{
		ID:        p.ID,
		Name:      p.Name,
		Color:     p.Color,
		SortOrder: p.SortOrder,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func kbArticleResponse(a *domain.KBArticle) dto.KBArticleResponse {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return dto.KBArticleResponse{
		ID:          a.ID,
		Title:       a.Title,
		Problem:     a.Problem,
		Environment: a.Environment,
		Symptoms:    a.Symptoms,
		Cause:       a.Cause,
		Resolution:  a.Resolution,
		Commands:    a.Commands,
		References:  a.References,
		Sensitivity: a.Sensitivity,
		TicketID:    a.TicketID,
		ClientID:    a.ClientID,
		UserID:      a.UserID,
		Tags:        tags,
		Pillars:     pillarRefs(a.Pillars),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func kbArticleListItem(item *domain.KBArticleListItem) dto.KBArticleListItemResponse {
	resp := dto.KBArticleListItemResponse{
		KBArticleResponse: kbArticleResponse(&item.KBArticle),
		Author:            dto.AuthorResponse{Name: item.AuthorName},
	}
	if item.ClientName != nil {
		ref := dto.ClientRef{Name: *item.ClientName}
		if item.ClientAcronym != nil {
			ref.Acronym = *item.ClientAcronym
		}
		resp.Client = &ref
	}
	if item.TicketID != nil && item.TicketTitle != nil {
		resp.Ticket = &dto.KBTicketRef{ID: *item.TicketID, Title: *item.TicketTitle, ExternalID: item.TicketExternalID}
	}
	return resp
}

func kbArticleRefs(refs []domain.KBArticleRef) []dto.KBArticleRefResponse {
	out := make([]dto.KBArticleRefResponse, 0, len(refs))
	for _, ref := range refs {
		out = append(out, dto.KBArticleRefResponse{ID: ref.ID, Title: ref.Title, CreatedAt: ref.CreatedAt})
	}
	return out
}

func snippetResponse(s *domain.Snippet) dto.SnippetResponse {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return dto.SnippetResponse{
		ID:          s.ID,
		Title:       s.Title,
		Language:    s.Language,
		Code:        s.Code,
		Description: s.Description,
		UsageNotes:  s.UsageNotes,
		Tags:        tags,
		UserID:      s.UserID,
		Pillars:     pillarRefs(s.Pillars),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
