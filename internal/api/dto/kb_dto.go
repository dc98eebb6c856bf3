package dto

import (
	"time"

	"github.com/spec-kit/msp-dashboard/internal/domain"
)

// CreateKBArticleRequest payload.
type CreateKBArticleRequest struct {
	Title       string             `json:"title" validate:"required,max=500"`
	Problem     string             `json:"problem" validate:"required"`
	Environment *string            `json:"environment"`
	Symptoms    *string            `json:"symptoms"`
	Cause       *string            `json:"cause"`
	Resolution  string             `json:"resolution" validate:"required"`
	Commands    *string            `json:"commands"`
	References  *string            `json:"references"`
	Sensitivity domain.Sensitivity `json:"sensitivity" validate:"omitempty,oneof=internal client_shareable"`
	TicketID    *string            `json:"ticketId"`
	ClientID    *string            `json:"clientId"`
	Tags        []string           `json:"tags"`
	PillarIDs   []string           `json:"pillarIds" validate:"omitempty,dive,required"`
}

// UpdateKBArticleRequest is a partial update. Tags and pillarIds replace the
// current sets when present.
type UpdateKBArticleRequest struct {
	Title       *string             `json:"title" validate:"omitempty,max=500"`
	Problem     *string             `json:"problem"`
	Environment *string             `json:"environment"`
	Symptoms    *string             `json:"symptoms"`
	Cause       *string             `json:"cause"`
	Resolution  *string             `json:"resolution"`
	Commands    *string             `json:"commands"`
	References  *string             `json:"references"`
	Sensitivity *domain.Sensitivity `json:"sensitivity" validate:"omitempty,oneof=internal client_shareable"`
	TicketID    *string             `json:"ticketId"`
	ClientID    *string             `json:"clientId"`
	Tags        []string            `json:"tags"`
	PillarIDs   []string            `json:"pillarIds" validate:"omitempty,dive,required"`
}

// KBArticleResponse representation.
type KBArticleResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Problem     string              `json:"problem"`
	Environment *string             `json:"environment"`
	Symptoms    *string             `json:"symptoms"`
	Cause       *string             `json:"cause"`
	Resolution  string              `json:"resolution"`
	Commands    *string             `json:"commands"`
	References  *string             `json:"references"`
	Sensitivity domain.Sensitivity  `json:"sensitivity"`
	TicketID    *string             `json:"ticketId"`
	ClientID    *string             `json:"clientId"`
	UserID      string              `json:"userId"`
	Tags        []string            `json:"tags"`
	Pillars     []PillarRefResponse `json:"pillars"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// KBArticleListItemResponse adds the linked client, source ticket and author.
type KBArticleListItemResponse struct {
	KBArticleResponse
	Client *ClientRef     `json:"client"`
	Ticket *KBTicketRef   `json:"ticket"`
	Author AuthorResponse `json:"author"`
}

// KBTicketRef names an article's source ticket.
type KBTicketRef struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	ExternalID *string `json:"externalId"`
}

// AuthorResponse names who wrote an article.
type AuthorResponse struct {
	Name string `json:"name"`
}

// KBArticleRefResponse lists an article under a ticket or report.
type KBArticleRefResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}
