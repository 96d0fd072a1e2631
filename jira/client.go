package jira

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	jerrors "github.com/randalmurphal/juncture/errors"
	jhttp "github.com/randalmurphal/juncture/http"
)

// Juncture endpoints for Jira operations.
const (
	pathProjects          = "/get-all-projects"
	pathSelectProject     = "/select-project"
	pathSelectedProjectID = "/get-selected-project-id"
	pathTicketsForProject = "/get-tickets-for-project"
	pathTicketsForSprint  = "/get-tickets-for-sprint"
	pathIssueDetails      = "/get-issue-details"
	pathCreateTicket      = "/create-ticket"
	pathEditIssue         = "/edit-issue"
	pathDeleteIssue       = "/delete-issue"
	pathSprints           = "/get-all-sprints-for-project"
	pathActiveSprints     = "/get-active-sprints-for-project"
	pathBoards            = "/get-boards-for-project"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Client performs Jira operations through Juncture. It holds no state of
// its own beyond the transport, so it is safe for concurrent use.
type Client struct {
	transport *jhttp.Client
}

// New returns a Client bound to transport. The transport carries the base
// URL and the secret key header.
func New(transport *jhttp.Client) *Client {
	return &Client{transport: transport}
}

// Projects lists every project the connection can see.
func (c *Client) Projects(ctx context.Context) (*ProjectsResponse, error) {
	var wire projectsWire
	if err := c.transport.Get(ctx, pathProjects, nil, &wire); err != nil {
		return nil, jerrors.Normalize("Projects", err, "Failed to get projects")
	}
	return wire.response(), nil
}

// SelectProject makes req.ProjectID the project later calls operate on.
// Selecting the already selected project succeeds.
func (c *Client) SelectProject(ctx context.Context, req SelectProjectRequest) (*SuccessResponse, error) {
	const op = "SelectProject"
	if err := validateRequest(op, req); err != nil {
		return nil, err
	}

	var wire successWire
	if err := c.transport.Post(ctx, pathSelectProject, req, &wire); err != nil {
		return nil, jerrors.Normalize(op, err, "Failed to select project")
	}
	return wire.response(), nil
}

// SelectedProjectID returns the currently selected project id.
func (c *Client) SelectedProjectID(ctx context.Context) (*SelectedProjectResponse, error) {
	var wire selectedProjectWire
	if err := c.transport.Get(ctx, pathSelectedProjectID, nil, &wire); err != nil {
		return nil, jerrors.Normalize("SelectedProjectID", err, "Failed to get selected project ID")
	}
	return wire.response(), nil
}

// TicketsForProject lists one page of tickets in the selected project.
func (c *Client) TicketsForProject(ctx context.Context, opts PageOptions) (*TicketsResponse, error) {
	const op = "TicketsForProject"
	const fallback = "Failed to get tickets for project"

	var wire ticketsWire
	if err := c.transport.Get(ctx, pathTicketsForProject, pageQuery(nil, opts), &wire); err != nil {
		return nil, jerrors.Normalize(op, err, fallback)
	}
	resp, err := wire.response()
	if err != nil {
		return nil, decodeError(op, err, fallback)
	}
	return resp, nil
}

// TicketsForSprint lists one page of tickets in a sprint.
func (c *Client) TicketsForSprint(ctx context.Context, req SprintTicketsRequest) (*TicketsResponse, error) {
	const op = "TicketsForSprint"
	const fallback = "Failed to get tickets for sprint"
	if err := validateRequest(op, req); err != nil {
		return nil, err
	}

	query := url.Values{"sprint_id": {req.SprintID}}
	query = pageQuery(query, PageOptions{MaxResults: req.MaxResults, StartAt: req.StartAt})

	var wire ticketsWire
	if err := c.transport.Get(ctx, pathTicketsForSprint, query, &wire); err != nil {
		return nil, jerrors.Normalize(op, err, fallback)
	}
	resp, err := wire.response()
	if err != nil {
		return nil, decodeError(op, err, fallback)
	}
	return resp, nil
}

// IssueDetails fetches one issue with its comments and attachments.
func (c *Client) IssueDetails(ctx context.Context, issueKey string) (*IssueDetailsResponse, error) {
	const op = "IssueDetails"
	const fallback = "Failed to get issue details"
	if issueKey == "" {
		return nil, jerrors.Invalid(op, errors.New("issue key is required"))
	}

	var wire issueDetailsWire
	if err := c.transport.Get(ctx, pathIssueDetails, url.Values{"issue_key": {issueKey}}, &wire); err != nil {
		return nil, jerrors.Normalize(op, err, fallback)
	}
	resp, err := wire.response()
	if err != nil {
		return nil, decodeError(op, err, fallback)
	}
	return resp, nil
}

// CreateTicket creates an issue. ProjectKey, IssueType and Summary are
// required and checked before any request is sent.
func (c *Client) CreateTicket(ctx context.Context, req CreateTicketRequest) (*CreateTicketResponse, error) {
	const op = "CreateTicket"
	if err := validateRequest(op, req); err != nil {
		return nil, err
	}

	var wire createTicketWire
	if err := c.transport.Post(ctx, pathCreateTicket, req, &wire); err != nil {
		return nil, jerrors.Normalize(op, err, "Failed to create ticket")
	}
	return wire.response(), nil
}

// EditIssue updates the given fields of an issue.
func (c *Client) EditIssue(ctx context.Context, req EditIssueRequest) (*SuccessResponse, error) {
	const op = "EditIssue"
	if err := validateRequest(op, req); err != nil {
		return nil, err
	}
	if req.Fields == nil {
		req.Fields = Fields{}
	}

	var wire successWire
	if err := c.transport.Put(ctx, pathEditIssue, req, &wire); err != nil {
		return nil, jerrors.Normalize(op, err, "Failed to edit issue")
	}
	return wire.response(), nil
}

// DeleteIssue deletes an issue by key.
func (c *Client) DeleteIssue(ctx context.Context, issueKey string) (*SuccessResponse, error) {
	const op = "DeleteIssue"
	if issueKey == "" {
		return nil, jerrors.Invalid(op, errors.New("issue key is required"))
	}

	var wire successWire
	if err := c.transport.Delete(ctx, pathDeleteIssue, url.Values{"issue_key": {issueKey}}, &wire); err != nil {
		return nil, jerrors.Normalize(op, err, "Failed to delete issue")
	}
	return wire.response(), nil
}

// Sprints lists one page of sprints in the selected project.
func (c *Client) Sprints(ctx context.Context, opts PageOptions) (*SprintsResponse, error) {
	const op = "Sprints"
	const fallback = "Failed to get sprints"

	var wire sprintsWire
	if err := c.transport.Get(ctx, pathSprints, pageQuery(nil, opts), &wire); err != nil {
		return nil, jerrors.Normalize(op, err, fallback)
	}
	resp, err := wire.response()
	if err != nil {
		return nil, decodeError(op, err, fallback)
	}
	return resp, nil
}

// ActiveSprints lists the sprints in progress in the selected project.
func (c *Client) ActiveSprints(ctx context.Context) (*ActiveSprintsResponse, error) {
	const op = "ActiveSprints"
	const fallback = "Failed to get active sprints"

	var wire activeSprintsWire
	if err := c.transport.Get(ctx, pathActiveSprints, nil, &wire); err != nil {
		return nil, jerrors.Normalize(op, err, fallback)
	}
	resp, err := wire.response()
	if err != nil {
		return nil, decodeError(op, err, fallback)
	}
	return resp, nil
}

// Boards lists one page of boards in the selected project.
func (c *Client) Boards(ctx context.Context, opts PageOptions) (*BoardsResponse, error) {
	var wire boardsWire
	if err := c.transport.Get(ctx, pathBoards, pageQuery(nil, opts), &wire); err != nil {
		return nil, jerrors.Normalize("Boards", err, "Failed to get boards")
	}
	return wire.response(), nil
}

// pageQuery adds the pagination parameters that are set. The pagination
// names are camelCase on the wire, unlike every other parameter.
func pageQuery(q url.Values, opts PageOptions) url.Values {
	if q == nil {
		q = url.Values{}
	}
	if opts.MaxResults != nil {
		q.Set("maxResults", strconv.Itoa(*opts.MaxResults))
	}
	if opts.StartAt != nil {
		q.Set("startAt", strconv.Itoa(*opts.StartAt))
	}
	return q
}

func validateRequest(op string, req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Tag() == "required" {
			return jerrors.Invalid(op, fmt.Errorf("%s is required", fe.Field()))
		}
		return jerrors.Invalid(op, fmt.Errorf("%s failed %q validation", fe.Field(), fe.Tag()))
	}
	return jerrors.Invalid(op, err)
}

func decodeError(op string, err error, fallback string) error {
	return jerrors.Normalize(op, fmt.Errorf("decode response: %w", err), fallback)
}
