package service

import (
	"context"
	"strings"

	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/repository"
	"github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

// ClientService manages customers.
type ClientService struct {
	clients repository.ClientRepository
}

// ClientInput describes a client create or partial update.
type ClientInput struct {
	Name     *string
	Acronym  *string
	Notes    *string
	EnvType  *domain.EnvType
	EnvTags  []string
	IsActive *bool
}

// NewClientService constructs the service.
func NewClientService(clients repository.ClientRepository) *ClientService {
	return &ClientService{clients: clients}
}

// ListClients returns active clients with their ticket counts.
func (s *ClientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.clients.ListActive(ctx)
}

// CreateClient adds a client. The acronym is stored upper-case.
func (s *ClientService) CreateClient(ctx context.Context, input ClientInput) (*domain.Client, error) {
	details := map[string]any{}
	name := ""
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
	}
	acronym := ""
	if input.Acronym != nil {
		acronym = strings.ToUpper(strings.TrimSpace(*input.Acronym))
	}
	if name == "" {
		details["name"] = "required"
	}
	if acronym == "" {
		details["acronym"] = "required"
	}
	if len(details) > 0 {
		return nil, errorutil.NewValidationError("name and acronym are required", details)
	}

	client := &domain.Client{
		Name:     name,
		Acronym:  acronym,
		Notes:    input.Notes,
		EnvType:  domain.EnvTypeHybrid,
		EnvTags:  normalizeTags(input.EnvTags),
		IsActive: true,
	}
	if input.EnvType != nil {
		client.EnvType = *input.EnvType
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// UpdateClient applies a partial update.
func (s *ClientService) UpdateClient(ctx context.Context, id string, input ClientInput) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "client")
	}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			client.Name = name
		}
	}
	if input.Acronym != nil {
		if acronym := strings.ToUpper(strings.TrimSpace(*input.Acronym)); acronym != "" {
			client.Acronym = acronym
		}
	}
	if input.Notes != nil {
		client.Notes = input.Notes
	}
	if input.EnvType != nil {
		client.EnvType = *input.EnvType
	}
	if input.EnvTags != nil {
		client.EnvTags = normalizeTags(input.EnvTags)
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, notFoundAs(err, "client")
	}
	return client, nil
}
