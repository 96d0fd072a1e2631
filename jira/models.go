package jira

import (
	"bytes"
	"encoding/json"
	"time"
)

// DefaultMaxResults is the page size assumed when the remote omits it.
const DefaultMaxResults = 50

// ID is a Jira identifier. Jira sends some ids as numbers and others as
// strings; ID accepts both and always holds the textual form.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Fields holds provider-specific issue fields. The schema is open.
type Fields map[string]any

// Page describes the window a paged response covers.
type Page struct {
	Total      int `json:"total" yaml:"total"`
	StartAt    int `json:"startAt" yaml:"startAt"`
	MaxResults int `json:"maxResults" yaml:"maxResults"`
}

// PageOptions selects a page. Nil fields are not sent.
type PageOptions struct {
	MaxResults *int
	StartAt    *int
}

// Int returns a pointer to n, for filling PageOptions.
func Int(n int) *int {
	return &n
}

// User is a Jira user as relayed by Juncture.
type User struct {
	AccountID    string `json:"accountId,omitempty" yaml:"accountId,omitempty"`
	DisplayName  string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty" yaml:"emailAddress,omitempty"`
	AvatarURL    string `json:"avatarUrl,omitempty" yaml:"avatarUrl,omitempty"`
}

// Name returns the display name, falling back to the account id.
func (u *User) Name() string {
	if u == nil {
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.AccountID
}

// Project is a Jira project visible to the connection.
type Project struct {
	ID             ID     `json:"id" yaml:"id"`
	Key            string `json:"key" yaml:"key"`
	Name           string `json:"name" yaml:"name"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
	ProjectTypeKey string `json:"projectTypeKey,omitempty" yaml:"projectTypeKey,omitempty"`
	AvatarURL      string `json:"avatarUrl,omitempty" yaml:"avatarUrl,omitempty"`
	Lead           *User  `json:"lead,omitempty" yaml:"lead,omitempty"`
}

// Ticket is an issue summary as returned by the list endpoints.
type Ticket struct {
	ID        ID         `json:"id" yaml:"id"`
	Key       string     `json:"key" yaml:"key"`
	Summary   string     `json:"summary" yaml:"summary"`
	Status    string     `json:"status,omitempty" yaml:"status,omitempty"`
	Priority  string     `json:"priority,omitempty" yaml:"priority,omitempty"`
	IssueType string     `json:"issueType,omitempty" yaml:"issueType,omitempty"`
	Assignee  *User      `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Reporter  *User      `json:"reporter,omitempty" yaml:"reporter,omitempty"`
	Created   *time.Time `json:"created,omitempty" yaml:"created,omitempty"`
	Updated   *time.Time `json:"updated,omitempty" yaml:"updated,omitempty"`
}

// Sprint is an agile sprint.
type Sprint struct {
	ID           ID         `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	State        string     `json:"state" yaml:"state"`
	Goal         string     `json:"goal,omitempty" yaml:"goal,omitempty"`
	BoardID      ID         `json:"boardId,omitempty" yaml:"boardId,omitempty"`
	StartDate    *time.Time `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	CompleteDate *time.Time `json:"completeDate,omitempty" yaml:"completeDate,omitempty"`
}

// Sprint states.
const (
	SprintStateFuture = "future"
	SprintStateActive = "active"
	SprintStateClosed = "closed"
)

// IsActive reports whether the sprint is in progress.
func (s *Sprint) IsActive() bool {
	return s.State == SprintStateActive
}

// Board is an agile board.
type Board struct {
	ID         ID     `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	ProjectKey string `json:"projectKey,omitempty" yaml:"projectKey,omitempty"`
}

// Comment is a comment on an issue. Body is plain text or an ADF document.
type Comment struct {
	ID      ID         `json:"id" yaml:"id"`
	Author  *User      `json:"author,omitempty" yaml:"author,omitempty"`
	Body    any        `json:"body,omitempty" yaml:"body,omitempty"`
	Created *time.Time `json:"created,omitempty" yaml:"created,omitempty"`
	Updated *time.Time `json:"updated,omitempty" yaml:"updated,omitempty"`
}

// BodyText renders the comment body as Markdown-flavoured text.
func (c *Comment) BodyText() string {
	return RenderText(c.Body)
}

// Attachment is a file attached to an issue.
type Attachment struct {
	ID         ID         `json:"id" yaml:"id"`
	Filename   string     `json:"filename" yaml:"filename"`
	MimeType   string     `json:"mimeType,omitempty" yaml:"mimeType,omitempty"`
	Size       int64      `json:"size,omitempty" yaml:"size,omitempty"`
	ContentURL string     `json:"contentUrl,omitempty" yaml:"contentUrl,omitempty"`
	Author     *User      `json:"author,omitempty" yaml:"author,omitempty"`
	Created    *time.Time `json:"created,omitempty" yaml:"created,omitempty"`
}

// DetailedIssue is a single issue with its comments and attachments.
type DetailedIssue struct {
	ID          ID           `json:"id" yaml:"id"`
	Key         string       `json:"key" yaml:"key"`
	Summary     string       `json:"summary" yaml:"summary"`
	Description any          `json:"description,omitempty" yaml:"description,omitempty"`
	Status      string       `json:"status,omitempty" yaml:"status,omitempty"`
	Priority    string       `json:"priority,omitempty" yaml:"priority,omitempty"`
	IssueType   string       `json:"issueType,omitempty" yaml:"issueType,omitempty"`
	Assignee    *User        `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Reporter    *User        `json:"reporter,omitempty" yaml:"reporter,omitempty"`
	Labels      []string     `json:"labels" yaml:"labels"`
	Created     *time.Time   `json:"created,omitempty" yaml:"created,omitempty"`
	Updated     *time.Time   `json:"updated,omitempty" yaml:"updated,omitempty"`
	Comments    []Comment    `json:"comments" yaml:"comments"`
	Attachments []Attachment `json:"attachments" yaml:"attachments"`
	Fields      Fields       `json:"fields" yaml:"fields"`
}

// DescriptionText renders the description as Markdown-flavoured text.
func (i *DetailedIssue) DescriptionText() string {
	return RenderText(i.Description)
}

// Requests.

// SelectProjectRequest selects the project subsequent calls operate on.
type SelectProjectRequest struct {
	ProjectID string `json:"project_id" validate:"required"`
}

// SprintTicketsRequest lists the tickets of one sprint.
type SprintTicketsRequest struct {
	SprintID   string `validate:"required"`
	MaxResults *int
	StartAt    *int
}

// CreateTicketRequest creates an issue in the given project.
type CreateTicketRequest struct {
	ProjectKey  string `json:"project_key" validate:"required"`
	IssueType   string `json:"issue_type" validate:"required"`
	Summary     string `json:"summary" validate:"required"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
	Fields      Fields `json:"fields,omitempty"`
}

// EditIssueRequest updates fields of an existing issue.
type EditIssueRequest struct {
	IssueKey string `json:"issue_key" validate:"required"`
	Fields   Fields `json:"fields"`
}

// Responses.

// ProjectsResponse lists every project the connection can see.
type ProjectsResponse struct {
	Projects []Project `json:"projects" yaml:"projects"`
}

// SuccessResponse reports the outcome of a mutation.
//
// Success defaults to true when the remote omits the flag, so a body of {}
// reads as success.
type SuccessResponse struct {
	Success bool `json:"success" yaml:"success"`
}

// SelectedProjectResponse holds the currently selected project id.
type SelectedProjectResponse struct {
	ProjectID string `json:"projectId" yaml:"projectId"`
}

// TicketsResponse is one page of tickets.
type TicketsResponse struct {
	Page    `yaml:",inline"`
	Tickets []Ticket `json:"tickets" yaml:"tickets"`
}

// IssueDetailsResponse wraps a single detailed issue.
type IssueDetailsResponse struct {
	Issue DetailedIssue `json:"issue" yaml:"issue"`
}

// CreateTicketResponse identifies the created issue.
type CreateTicketResponse struct {
	Success   bool   `json:"success" yaml:"success"`
	TicketKey string `json:"ticketKey,omitempty" yaml:"ticketKey,omitempty"`
	TicketID  string `json:"ticketId,omitempty" yaml:"ticketId,omitempty"`
}

// SprintsResponse is one page of sprints.
type SprintsResponse struct {
	Page    `yaml:",inline"`
	Sprints []Sprint `json:"sprints" yaml:"sprints"`
}

// ActiveSprintsResponse lists the sprints currently in progress.
type ActiveSprintsResponse struct {
	Sprints []Sprint `json:"sprints" yaml:"sprints"`
}

// BoardsResponse is one page of boards.
type BoardsResponse struct {
	Page   `yaml:",inline"`
	Boards []Board `json:"boards" yaml:"boards"`
}
