package domain

// Document is a unit of external text content tied to one repository.
// Immutable once fetched.
type Document struct {
	Content  string
	Source   string
	RepoName string
}
