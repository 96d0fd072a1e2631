package jira

import (
	"fmt"
	"time"

	jhttp "github.com/randalmurphal/juncture/http"
)

// Wire shapes as Juncture sends them. Every field is optional; the
// conversions below fill in defaults so callers never see nil lists.

type pageWire struct {
	Total      *int `json:"total"`
	StartAt    *int `json:"startAt"`
	MaxResults *int `json:"maxResults"`
}

func (w pageWire) page() Page {
	p := Page{MaxResults: DefaultMaxResults}
	if w.Total != nil {
		p.Total = *w.Total
	}
	if w.StartAt != nil {
		p.StartAt = *w.StartAt
	}
	if w.MaxResults != nil {
		p.MaxResults = *w.MaxResults
	}
	return p
}

type userWire struct {
	AccountID    string `json:"account_id"`
	DisplayName  string `json:"display_name"`
	EmailAddress string `json:"email_address"`
	AvatarURL    string `json:"avatar_url"`
}

func (w *userWire) user() *User {
	if w == nil {
		return nil
	}
	return &User{
		AccountID:    w.AccountID,
		DisplayName:  w.DisplayName,
		EmailAddress: w.EmailAddress,
		AvatarURL:    w.AvatarURL,
	}
}

type projectWire struct {
	ID             ID        `json:"id"`
	Key            string    `json:"key"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	ProjectTypeKey string    `json:"project_type_key"`
	AvatarURL      string    `json:"avatar_url"`
	Lead           *userWire `json:"lead"`
}

type ticketWire struct {
	ID        ID        `json:"id"`
	Key       string    `json:"key"`
	Summary   string    `json:"summary"`
	Status    string    `json:"status"`
	Priority  string    `json:"priority"`
	IssueType string    `json:"issue_type"`
	Assignee  *userWire `json:"assignee"`
	Reporter  *userWire `json:"reporter"`
	Created   *string   `json:"created"`
	Updated   *string   `json:"updated"`
}

type sprintWire struct {
	ID           ID      `json:"id"`
	Name         string  `json:"name"`
	State        string  `json:"state"`
	Goal         string  `json:"goal"`
	BoardID      ID      `json:"board_id"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	CompleteDate *string `json:"complete_date"`
}

type boardWire struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	ProjectKey string `json:"project_key"`
}

type commentWire struct {
	ID      ID        `json:"id"`
	Author  *userWire `json:"author"`
	Body    any       `json:"body"`
	Created *string   `json:"created"`
	Updated *string   `json:"updated"`
}

type attachmentWire struct {
	ID         ID        `json:"id"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	ContentURL string    `json:"content_url"`
	Author     *userWire `json:"author"`
	Created    *string   `json:"created"`
}

type detailedIssueWire struct {
	ID          ID               `json:"id"`
	Key         string           `json:"key"`
	Summary     string           `json:"summary"`
	Description any              `json:"description"`
	Status      string           `json:"status"`
	Priority    string           `json:"priority"`
	IssueType   string           `json:"issue_type"`
	Assignee    *userWire        `json:"assignee"`
	Reporter    *userWire        `json:"reporter"`
	Labels      []string         `json:"labels"`
	Created     *string          `json:"created"`
	Updated     *string          `json:"updated"`
	Comments    []commentWire    `json:"comments"`
	Attachments []attachmentWire `json:"attachments"`
	Fields      Fields           `json:"fields"`
}

type projectsWire struct {
	Projects []projectWire `json:"projects"`
}

type successWire struct {
	Success *bool `json:"success"`
}

type selectedProjectWire struct {
	ProjectID ID `json:"project_id"`
}

type ticketsWire struct {
	pageWire
	Tickets []ticketWire `json:"tickets"`
}

type issueDetailsWire struct {
	Issue *detailedIssueWire `json:"issue"`
}

type createTicketWire struct {
	Success   *bool  `json:"success"`
	TicketKey string `json:"ticket_key"`
	TicketID  ID     `json:"ticket_id"`
}

type sprintsWire struct {
	pageWire
	Sprints []sprintWire `json:"sprints"`
}

type activeSprintsWire struct {
	Sprints []sprintWire `json:"sprints"`
}

type boardsWire struct {
	pageWire
	Boards []boardWire `json:"boards"`
}

// dates collects the first parse failure across several fields so a
// conversion can parse everything and check once.
type dates struct {
	err error
}

func (d *dates) parse(field string, s *string) *time.Time {
	if d.err != nil {
		return nil
	}
	t, err := jhttp.ParseOptionalTime(s)
	if err != nil {
		d.err = fmt.Errorf("%s: %w", field, err)
		return nil
	}
	return t
}

func successOrDefault(b *bool) bool {
	if b == nil {
		return true
	}
	return *b
}

func (w projectsWire) response() *ProjectsResponse {
	resp := &ProjectsResponse{Projects: make([]Project, 0, len(w.Projects))}
	for _, p := range w.Projects {
		resp.Projects = append(resp.Projects, Project{
			ID:             p.ID,
			Key:            p.Key,
			Name:           p.Name,
			Description:    p.Description,
			ProjectTypeKey: p.ProjectTypeKey,
			AvatarURL:      p.AvatarURL,
			Lead:           p.Lead.user(),
		})
	}
	return resp
}

func (w successWire) response() *SuccessResponse {
	return &SuccessResponse{Success: successOrDefault(w.Success)}
}

func (w selectedProjectWire) response() *SelectedProjectResponse {
	return &SelectedProjectResponse{ProjectID: w.ProjectID.String()}
}

func (w ticketsWire) response() (*TicketsResponse, error) {
	resp := &TicketsResponse{Page: w.page(), Tickets: make([]Ticket, 0, len(w.Tickets))}
	var d dates
	for _, t := range w.Tickets {
		resp.Tickets = append(resp.Tickets, Ticket{
			ID:        t.ID,
			Key:       t.Key,
			Summary:   t.Summary,
			Status:    t.Status,
			Priority:  t.Priority,
			IssueType: t.IssueType,
			Assignee:  t.Assignee.user(),
			Reporter:  t.Reporter.user(),
			Created:   d.parse("created", t.Created),
			Updated:   d.parse("updated", t.Updated),
		})
	}
	if d.err != nil {
		return nil, d.err
	}
	return resp, nil
}

func (w issueDetailsWire) response() (*IssueDetailsResponse, error) {
	in := w.Issue
	if in == nil {
		in = &detailedIssueWire{}
	}

	var d dates
	issue := DetailedIssue{
		ID:          in.ID,
		Key:         in.Key,
		Summary:     in.Summary,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		IssueType:   in.IssueType,
		Assignee:    in.Assignee.user(),
		Reporter:    in.Reporter.user(),
		Labels:      make([]string, 0, len(in.Labels)),
		Created:     d.parse("created", in.Created),
		Updated:     d.parse("updated", in.Updated),
		Comments:    make([]Comment, 0, len(in.Comments)),
		Attachments: make([]Attachment, 0, len(in.Attachments)),
		Fields:      in.Fields,
	}
	issue.Labels = append(issue.Labels, in.Labels...)
	if issue.Fields == nil {
		issue.Fields = Fields{}
	}

	for _, c := range in.Comments {
		issue.Comments = append(issue.Comments, Comment{
			ID:      c.ID,
			Author:  c.Author.user(),
			Body:    c.Body,
			Created: d.parse("comment created", c.Created),
			Updated: d.parse("comment updated", c.Updated),
		})
	}
	for _, a := range in.Attachments {
		issue.Attachments = append(issue.Attachments, Attachment{
			ID:         a.ID,
			Filename:   a.Filename,
			MimeType:   a.MimeType,
			Size:       a.Size,
			ContentURL: a.ContentURL,
			Author:     a.Author.user(),
			Created:    d.parse("attachment created", a.Created),
		})
	}

	if d.err != nil {
		return nil, d.err
	}
	return &IssueDetailsResponse{Issue: issue}, nil
}

func (w createTicketWire) response() *CreateTicketResponse {
	return &CreateTicketResponse{
		Success:   successOrDefault(w.Success),
		TicketKey: w.TicketKey,
		TicketID:  w.TicketID.String(),
	}
}

func convertSprints(in []sprintWire) ([]Sprint, error) {
	out := make([]Sprint, 0, len(in))
	var d dates
	for _, s := range in {
		out = append(out, Sprint{
			ID:           s.ID,
			Name:         s.Name,
			State:        s.State,
			Goal:         s.Goal,
			BoardID:      s.BoardID,
			StartDate:    d.parse("start_date", s.StartDate),
			EndDate:      d.parse("end_date", s.EndDate),
			CompleteDate: d.parse("complete_date", s.CompleteDate),
		})
	}
	if d.err != nil {
		return nil, d.err
	}
	return out, nil
}

func (w sprintsWire) response() (*SprintsResponse, error) {
	sprints, err := convertSprints(w.Sprints)
	if err != nil {
		return nil, err
	}
	return &SprintsResponse{Page: w.page(), Sprints: sprints}, nil
}

func (w activeSprintsWire) response() (*ActiveSprintsResponse, error) {
	sprints, err := convertSprints(w.Sprints)
	if err != nil {
		return nil, err
	}
	return &ActiveSprintsResponse{Sprints: sprints}, nil
}

func (w boardsWire) response() *BoardsResponse {
	resp := &BoardsResponse{Page: w.page(), Boards: make([]Board, 0, len(w.Boards))}
	for _, b := range w.Boards {
		resp.Boards = append(resp.Boards, Board{
			ID:         b.ID,
			Name:       b.Name,
			Type:       b.Type,
			ProjectKey: b.ProjectKey,
		})
	}
	return resp
}
