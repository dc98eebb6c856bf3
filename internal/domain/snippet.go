package domain

import "time"

// SnippetLanguage is the language a snippet is written in.
type SnippetLanguage string

const (
	SnippetLanguagePowerShell SnippetLanguage = "powershell"
	SnippetLanguageTerraform  SnippetLanguage = "terraform"
	SnippetLanguageBash       SnippetLanguage = "bash"
	SnippetLanguageSQL        SnippetLanguage = "sql"
	SnippetLanguagePython     SnippetLanguage = "python"
	SnippetLanguageCLI        SnippetLanguage = "cli"
	SnippetLanguageOther      SnippetLanguage = "other"
)

// Snippet is a saved script or command.
type Snippet struct {
	ID          string
	Title       string
	Language    SnippetLanguage
	Code        string
	Description *string
	UsageNotes  *string
	Tags        []string
	UserID      string
	Pillars     []PillarRef
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Valid reports whether l is one of the supported languages.
func (l SnippetLanguage) Valid() bool {
	switch l {
	case SnippetLanguagePowerShell, SnippetLanguageTerraform, SnippetLanguageBash, SnippetLanguageSQL,
		SnippetLanguagePython, SnippetLanguageCLI, SnippetLanguageOther:
		return true
	}
	return false
}
