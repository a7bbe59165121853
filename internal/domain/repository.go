package domain

// Issue is an issue as returned by the repository API.
// Pull requests are never represented as Issues.
type Issue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
	URL    string `json:"url,omitempty"`
}

// PullRequest is the minimal view of a pull request used for notifications.
type PullRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	URL    string `json:"url,omitempty"`
}

// UnknownAuthor is used when a commit is not linked to a user account.
const UnknownAuthor = "Unknown"

// Commit is the minimal view of a commit used for notifications.
type Commit struct {
	ShortHash string `json:"short_hash"`
	Message   string `json:"message"`
	Author    string `json:"author"`
}

// Branch is a git branch in the repository.
type Branch struct {
	Name      string `json:"name"`
	SHA       string `json:"sha"`
	Protected bool   `json:"protected"`
}

// Issue states accepted by issue listing.
const (
	IssueStateOpen   = "open"
	IssueStateClosed = "closed"
	IssueStateAll    = "all"
)

// ValidIssueState reports whether s is one of the accepted issue states.
func ValidIssueState(s string) bool {
	switch s {
	case IssueStateOpen, IssueStateClosed, IssueStateAll:
		return true
	}
	return false
}
