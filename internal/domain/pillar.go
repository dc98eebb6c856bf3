package domain

import "time"

// Pillar is a technology area (identity, networking, backup, ...) that
// tickets, KB articles and snippets are tagged with.
type Pillar struct {
	ID        string
	Name      string
	Color     *string
	SortOrder int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ref returns the part of the pillar shown on tagged records.
func (p *Pillar) Ref() PillarRef {
	return PillarRef{ID: p.ID, Name: p.Name, Color: p.Color}
}

// PillarRef names a pillar on a tagged record.
type PillarRef struct {
	ID    string
	Name  string
	Color *string
}

// PillarOwner is the kind of record a pillar assignment belongs to.
type PillarOwner string

const (
	PillarOwnerTicket    PillarOwner = "ticket"
	PillarOwnerKBArticle PillarOwner = "kb_article"
	PillarOwnerSnippet   PillarOwner = "snippet"
)
