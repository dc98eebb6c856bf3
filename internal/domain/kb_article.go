package domain

import "time"

// KBArticle is a reusable write-up of a problem and its fix.
type KBArticle struct {
	ID          string
	Title       string
	Problem     string
	Environment *string
	Symptoms    *string
	Cause       *string
	Resolution  string
	Commands    *string
	References  *string
	Sensitivity Sensitivity
	TicketID    *string
	ClientID    *string
	UserID      string
	Tags        []string
	Pillars     []PillarRef
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// KBArticleListItem is an article with the names of its client, source
// ticket and author.
type KBArticleListItem struct {
	KBArticle
	ClientName       *string
	ClientAcronym    *string
	TicketTitle      *string
	TicketExternalID *string
	AuthorName       string
}

// KBArticleRef identifies an article in ticket details and reports.
type KBArticleRef struct {
	ID        string
	Title     string
	CreatedAt time.Time
}
