package models

// Role tags a document as the source article or the synopsis written about it.
type Role string

const (
	RoleArticle  Role = "article"
	RoleSynopsis Role = "synopsis"
)

// Document is a decoded text tied to its role. It lives for one request.
type Document struct {
	Role   Role   `json:"role"`
	Source string `json:"source,omitempty"`
	Text   string `json:"-"`
}

func NewDocument(role Role, source, text string) *Document {
	return &Document{Role: role, Source: source, Text: text}
}
