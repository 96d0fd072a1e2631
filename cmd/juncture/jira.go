package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/juncture/jira"
)

func newJiraCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jira",
		Short: "Work with Jira through a connection",
		Long: `Work with Jira projects, tickets, sprints, and boards through Juncture.

Every jira command acts on the connection identified by the secret key.
Ticket, sprint, and board commands operate on the selected project; select
one with 'juncture jira projects select <id>'.`,
	}
	cmd.AddCommand(
		newJiraProjectsCmd(a),
		newJiraTicketsCmd(a),
		newJiraSprintsCmd(a),
		newJiraBoardsCmd(a),
	)
	return cmd
}

// jiraRun returns a RunE that resolves the Jira client and runs fn.
func jiraRun(a *app, fn func(cmd *cobra.Command, args []string, client *jira.Client, p *printer) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		settings, p, err := a.setup(cmd)
		if err != nil {
			return err
		}
		client, err := a.secretClient(cmd, settings)
		if err != nil {
			return err
		}
		return fn(cmd, args, client.Jira(), p)
	}
}

// pageFlags registers --max-results and --start-at.
type pageFlags struct {
	maxResults int
	startAt    int
}

func (f *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxResults, "max-results", jira.DefaultMaxResults, "Page size")
	cmd.Flags().IntVar(&f.startAt, "start-at", 0, "Index of the first result")
}

// options returns only the flags the user set, so the remote applies its
// own defaults otherwise.
func (f *pageFlags) options(cmd *cobra.Command) jira.PageOptions {
	var opts jira.PageOptions
	if cmd.Flags().Changed("max-results") {
		opts.MaxResults = jira.Int(f.maxResults)
	}
	if cmd.Flags().Changed("start-at") {
		opts.StartAt = jira.Int(f.startAt)
	}
	return opts
}

func pageFooter(t table.Writer, shown int, page jira.Page) {
	t.AppendFooter(table.Row{fmt.Sprintf("%d-%d of %d", page.StartAt+min(shown, 1), page.StartAt+shown, page.Total)})
}

func newJiraProjectsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List and select Jira projects",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List projects visible to the connection",
		Args:  cobra.NoArgs,
		RunE: jiraRun(a, func(cmd *cobra.Command, _ []string, client *jira.Client, p *printer) error {
			resp, err := client.Projects(cmd.Context())
			if err != nil {
				return err
			}
			if len(resp.Projects) == 0 {
				return p.empty(resp, "No projects found.")
			}
			return p.print(resp, func(t table.Writer) {
				t.AppendHeader(table.Row{"ID", "Key", "Name", "Type", "Lead"})
				for _, pr := range resp.Projects {
					t.AppendRow(table.Row{pr.ID, pr.Key, pr.Name, orDash(pr.ProjectTypeKey), orDash(pr.Lead.Name())})
				}
			})
		}),
	}

	selectCmd := &cobra.Command{
		Use:   "select <project-id>",
		Short: "Select the project later commands operate on",
		Args:  cobra.ExactArgs(1),
		RunE: jiraRun(a, func(cmd *cobra.Command, args []string, client *jira.Client, p *printer) error {
			resp, err := client.SelectProject(cmd.Context(), jira.SelectProjectRequest{ProjectID: args[0]})
			if err != nil {
				return err
			}
			if !p.isTable() {
				return p.print(resp, nil)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Selected project %s.\n", args[0])
			return nil
		}),
	}

	selected := &cobra.Command{
		Use:   "selected",
		Short: "Print the selected project id",
		Args:  cobra.NoArgs,
		RunE: jiraRun(a, func(cmd *cobra.Command, _ []string, client *jira.Client, p *printer) error {
			resp, err := client.SelectedProjectID(cmd.Context())
			if err != nil {
				return err
			}
			if !p.isTable() {
				return p.print(resp, nil)
			}
			if resp.ProjectID == "" {
				return p.empty(resp, "No project selected.")
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.ProjectID)
			return nil
		}),
	}

	cmd.AddCommand(list, selectCmd, selected)
	return cmd
}

func newJiraTicketsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tickets",
		Aliases: []string{"issues"},
		Short:   "List, view, create, edit, and delete tickets",
	}
	cmd.AddCommand(
		newTicketsListCmd(a),
		newTicketsGetCmd(a),
		newTicketsCreateCmd(a),
		newTicketsEditCmd(a),
		newTicketsDeleteCmd(a),
	)
	return cmd
}

func newTicketsListCmd(a *app) *cobra.Command {
	var (
		page   pageFlags
		sprint string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets in the selected project or a sprint",
		Args:  cobra.NoArgs,
		RunE: jiraRun(a, func(cmd *cobra.Command, _ []string, client *jira.Client, p *printer) error {
			opts := page.options(cmd)

			var (
				resp *jira.TicketsResponse
				err  error
			)
			if sprint != "" {
				resp, err = client.TicketsForSprint(cmd.Context(), jira.SprintTicketsRequest{
					SprintID:   sprint,
					MaxResults: opts.MaxResults,
					StartAt:    opts.StartAt,
				})
			} else {
				resp, err = client.TicketsForProject(cmd.Context(), opts)
			}
			if err != nil {
				return err
			}
			if len(resp.Tickets) == 0 {
				return p.empty(resp, "No tickets found.")
			}
			return p.print(resp, func(t table.Writer) {
				t.AppendHeader(table.Row{"Key", "Type", "Status", "Priority", "Assignee", "Summary"})
				for _, tk := range resp.Tickets {
					t.AppendRow(table.Row{tk.Key, orDash(tk.IssueType), orDash(tk.Status), orDash(tk.Priority), orDash(tk.Assignee.Name()), tk.Summary})
				}
				pageFooter(t, len(resp.Tickets), resp.Page)
			})
		}),
	}

	page.register(cmd)
	cmd.Flags().StringVar(&sprint, "sprint", "", "List the tickets of this sprint instead")
	return cmd
}

func newTicketsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <issue-key>",
		Short: "Show a ticket with its comments and attachments",
		Args:  cobra.ExactArgs(1),
		RunE: jiraRun(a, func(cmd *cobra.Command, args []string, client *jira.Client, p *printer) error {
			resp, err := client.IssueDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			issue := &resp.Issue
			if err := p.print(resp, func(t table.Writer) {
				fieldRows(t,
					table.Row{"Key", issue.Key},
					table.Row{"Summary", issue.Summary},
					table.Row{"Type", orDash(issue.IssueType)},
					table.Row{"Status", orDash(issue.Status)},
					table.Row{"Priority", orDash(issue.Priority)},
					table.Row{"Assignee", orDash(issue.Assignee.Name())},
					table.Row{"Reporter", orDash(issue.Reporter.Name())},
					table.Row{"Labels", orDash(strings.Join(issue.Labels, ", "))},
					table.Row{"Created", formatTime(issue.Created)},
					table.Row{"Updated", formatTime(issue.Updated)},
				)
			}); err != nil {
				return err
			}
			if !p.isTable() {
				return nil
			}
			writeIssueBody(cmd, issue)
			return nil
		}),
	}
}

func writeIssueBody(cmd *cobra.Command, issue *jira.DetailedIssue) {
	out := cmd.OutOrStdout()
	if desc := issue.DescriptionText(); desc != "" {
		fmt.Fprintf(out, "\n%s\n%s\n", text.Bold.Sprint("Description"), desc)
	}
	if len(issue.Comments) > 0 {
		fmt.Fprintf(out, "\n%s\n", text.Bold.Sprintf("Comments (%d)", len(issue.Comments)))
		for i := range issue.Comments {
			c := &issue.Comments[i]
			fmt.Fprintf(out, "\n%s  %s\n%s\n", text.FgHiCyan.Sprint(orDash(c.Author.Name())), formatTime(c.Created), c.BodyText())
		}
	}
	if len(issue.Attachments) > 0 {
		fmt.Fprintf(out, "\n%s\n", text.Bold.Sprintf("Attachments (%d)", len(issue.Attachments)))
		for _, att := range issue.Attachments {
			fmt.Fprintf(out, "  %s (%d bytes) %s\n", att.Filename, att.Size, att.ContentURL)
		}
	}
}

func newTicketsCreateCmd(a *app) *cobra.Command {
	var (
		req    jira.CreateTicketRequest
		fields []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a ticket",
		Example: `  juncture jira tickets create --project ENG --type Task --summary "Fix login"
  juncture jira tickets create --project ENG --type Bug --summary "Crash" --field labels='["urgent"]'`,
		Args: cobra.NoArgs,
		RunE: jiraRun(a, func(cmd *cobra.Command, _ []string, client *jira.Client, p *printer) error {
			parsed, err := parseFields(fields)
			if err != nil {
				return err
			}
			if len(parsed) > 0 {
				req.Fields = parsed
			}

			resp, err := client.CreateTicket(cmd.Context(), req)
			if err != nil {
				return err
			}
			if !p.isTable() {
				return p.print(resp, nil)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s.\n", orDash(resp.TicketKey))
			return nil
		}),
	}

	f := cmd.Flags()
	f.StringVar(&req.ProjectKey, "project", "", "Project key")
	f.StringVar(&req.IssueType, "type", "", "Issue type, such as Task or Bug")
	f.StringVar(&req.Summary, "summary", "", "One-line summary")
	f.StringVar(&req.Description, "description", "", "Description")
	f.StringVar(&req.Priority, "priority", "", "Priority name")
	f.StringVar(&req.Assignee, "assignee", "", "Assignee account id")
	f.StringArrayVar(&fields, "field", nil, "Extra field as key=value; JSON values are decoded (repeatable)")
	return cmd
}

func newTicketsEditCmd(a *app) *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:     "edit <issue-key>",
		Short:   "Update fields of a ticket",
		Example: `  juncture jira tickets edit ENG-12 --field summary="New title" --field storyPoints=3`,
		Args:    cobra.ExactArgs(1),
		RunE: jiraRun(a, func(cmd *cobra.Command, args []string, client *jira.Client, p *printer) error {
			parsed, err := parseFields(fields)
			if err != nil {
				return err
			}
			if len(parsed) == 0 {
				return errors.New("at least one --field is required")
			}

			resp, err := client.EditIssue(cmd.Context(), jira.EditIssueRequest{IssueKey: args[0], Fields: parsed})
			if err != nil {
				return err
			}
			if !p.isTable() {
				return p.print(resp, nil)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s.\n", args[0])
			return nil
		}),
	}

	cmd.Flags().StringArrayVar(&fields, "field", nil, "Field to set as key=value; JSON values are decoded (repeatable)")
	return cmd
}

func newTicketsDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <issue-key>",
		Short: "Delete a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: jiraRun(a, func(cmd *cobra.Command, args []string, client *jira.Client, p *printer) error {
			if !yes {
				return fmt.Errorf("refusing to delete %s without --yes", args[0])
			}
			resp, err := client.DeleteIssue(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !p.isTable() {
				return p.print(resp, nil)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")
	return cmd
}

// parseFields turns key=value pairs into Fields. Values that are valid JSON
// are decoded; anything else is kept as a string.
func parseFields(pairs []string) (jira.Fields, error) {
	fields := jira.Fields{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --field %q: want key=value", pair)
		}
		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			fields[key] = decoded
		} else {
			fields[key] = value
		}
	}
	return fields, nil
}

func newJiraSprintsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sprints",
		Short: "List sprints in the selected project",
	}

	var (
		page   pageFlags
		active bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List sprints",
		Args:  cobra.NoArgs,
		RunE: jiraRun(a, func(cmd *cobra.Command, _ []string, client *jira.Client, p *printer) error {
			var (
				sprints []jira.Sprint
				result  any
				footer  *jira.Page
			)
			if active {
				resp, err := client.ActiveSprints(cmd.Context())
				if err != nil {
					return err
				}
				sprints, result = resp.Sprints, resp
			} else {
				resp, err := client.Sprints(cmd.Context(), page.options(cmd))
				if err != nil {
					return err
				}
				sprints, result, footer = resp.Sprints, resp, &resp.Page
			}

			if len(sprints) == 0 {
				return p.empty(result, "No sprints found.")
			}
			return p.print(result, func(t table.Writer) {
				t.AppendHeader(table.Row{"ID", "Name", "State", "Start", "End", "Goal"})
				for i := range sprints {
					s := &sprints[i]
					state := s.State
					if s.IsActive() {
						state = text.FgGreen.Sprint(state)
					}
					t.AppendRow(table.Row{s.ID, s.Name, state, formatTime(s.StartDate), formatTime(s.EndDate), orDash(s.Goal)})
				}
				if footer != nil {
					pageFooter(t, len(sprints), *footer)
				}
			})
		}),
	}
	page.register(list)
	list.Flags().BoolVar(&active, "active", false, "Only sprints in progress (not paginated)")
	list.MarkFlagsMutuallyExclusive("active", "max-results")
	list.MarkFlagsMutuallyExclusive("active", "start-at")

	cmd.AddCommand(list)
	return cmd
}

func newJiraBoardsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boards",
		Short: "List boards in the selected project",
	}

	var page pageFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List boards",
		Args:  cobra.NoArgs,
		RunE: jiraRun(a, func(cmd *cobra.Command, _ []string, client *jira.Client, p *printer) error {
			resp, err := client.Boards(cmd.Context(), page.options(cmd))
			if err != nil {
				return err
			}
			if len(resp.Boards) == 0 {
				return p.empty(resp, "No boards found.")
			}
			return p.print(resp, func(t table.Writer) {
				t.AppendHeader(table.Row{"ID", "Name", "Type", "Project"})
				for _, b := range resp.Boards {
					t.AppendRow(table.Row{b.ID, b.Name, b.Type, orDash(b.ProjectKey)})
				}
				pageFooter(t, len(resp.Boards), resp.Page)
			})
		}),
	}
	page.register(list)

	cmd.AddCommand(list)
	return cmd
}
