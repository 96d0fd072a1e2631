package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/juncture/jira"
	"github.com/randalmurphal/juncture/testutil"
)

func TestJiraProjects(t *testing.T) {
	h := newHarness(t)
	h.server.JSON(http.MethodGet, "/get-all-projects", map[string]any{
		"projects": []any{
			map[string]any{"id": 10001, "key": "ENG", "name": "Engineering", "lead": map[string]any{"display_name": "Sam Rivera"}},
		},
	})
	h.server.JSON(http.MethodPost, "/select-project", map[string]any{"success": true})
	h.server.JSON(http.MethodGet, "/get-selected-project-id", map[string]any{"project_id": "10001"})

	res := h.run(t, "jira", "projects", "list")
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "10001")
	assert.Contains(t, res.stdout, "Engineering")
	assert.Contains(t, res.stdout, "Sam Rivera")

	res = h.run(t, "jira", "projects", "select", "10001")
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Equal(t, "Selected project 10001.\n", res.stdout)
	assert.Equal(t, map[string]any{"project_id": "10001"}, h.server.LastRequest(t).Body)

	res = h.run(t, "jira", "projects", "selected")
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Equal(t, "10001\n", res.stdout)
}

func TestJiraTicketsList(t *testing.T) {
	tickets := map[string]any{
		"tickets": []any{
			map[string]any{"id": "1", "key": "ENG-1", "summary": "Fix login", "status": "To Do", "issue_type": "Bug"},
		},
		"total":      1,
		"startAt":    0,
		"maxResults": 10,
	}

	t.Run("project with paging", func(t *testing.T) {
		h := newHarness(t)
		h.server.JSON(http.MethodGet, "/get-tickets-for-project", tickets)

		res := h.run(t, "jira", "tickets", "list", "--max-results", "10")

		require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, "ENG-1")
		assert.Contains(t, res.stdout, "Fix login")
		assert.Contains(t, res.stdout, "1-1 of 1")

		req := h.server.LastRequest(t)
		assert.Equal(t, "10", req.Query.Get("maxResults"))
		assert.False(t, req.Query.Has("startAt"))
	})

	t.Run("sprint as json", func(t *testing.T) {
		h := newHarness(t)
		h.server.JSON(http.MethodGet, "/get-tickets-for-sprint", tickets)

		res := h.run(t, "-o", "json", "jira", "tickets", "list", "--sprint", "7", "--start-at", "5")
		require.Equal(t, ExitCodeSuccess, res.code, res.stderr)

		var out jira.TicketsResponse
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
		require.Len(t, out.Tickets, 1)
		assert.Equal(t, "ENG-1", out.Tickets[0].Key)
		assert.Equal(t, 10, out.MaxResults)

		req := h.server.LastRequest(t)
		assert.Equal(t, "7", req.Query.Get("sprint_id"))
		assert.Equal(t, "5", req.Query.Get("startAt"))
	})

	t.Run("empty", func(t *testing.T) {
		h := newHarness(t)
		h.server.JSON(http.MethodGet, "/get-tickets-for-project", map[string]any{})

		res := h.run(t, "jira", "tickets", "list")

		require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, "No tickets found.")
	})
}

func TestJiraTicketsGet(t *testing.T) {
	h := newHarness(t)
	h.server.Handle(http.MethodGet, "/get-issue-details", http.StatusOK, testutil.LoadFixture(t, "issue_details.json"))

	res := h.run(t, "jira", "tickets", "get", "PROJ-42")

	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "PROJ-42")
	assert.Contains(t, res.stdout, "Description")
	assert.Contains(t, res.stdout, "Comments (1)")
	assert.Contains(t, res.stdout, "Attachments (1)")
	assert.Equal(t, "PROJ-42", h.server.LastRequest(t).Query.Get("issue_key"))
}

func TestJiraTicketsCreate(t *testing.T) {
	h := newHarness(t)
	h.server.JSON(http.MethodPost, "/create-ticket", map[string]any{
		"success":    true,
		"ticket_key": "ENG-99",
		"ticket_id":  10099,
	})

	t.Run("sends fields", func(t *testing.T) {
		res := h.run(t, "jira", "tickets", "create",
			"--project", "ENG", "--type", "Task", "--summary", "Write docs",
			"--field", `labels=["docs"]`, "--field", "team=platform")

		require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
		assert.Equal(t, "Created ENG-99.\n", res.stdout)

		body := h.server.LastRequest(t).Body
		assert.Equal(t, "ENG", body["project_key"])
		assert.Equal(t, "Task", body["issue_type"])
		assert.Equal(t, "Write docs", body["summary"])
		assert.Equal(t, map[string]any{"labels": []any{"docs"}, "team": "platform"}, body["fields"])
	})

	t.Run("summary is required", func(t *testing.T) {
		before := len(h.server.Requests())

		res := h.run(t, "jira", "tickets", "create", "--project", "ENG", "--type", "Task")

		assert.Equal(t, ExitCodeError, res.code)
		assert.Contains(t, res.stderr, "Summary is required")
		assert.Len(t, h.server.Requests(), before)
	})
}

func TestJiraTicketsEditAndDelete(t *testing.T) {
	h := newHarness(t)
	h.server.JSON(http.MethodPut, "/edit-issue", map[string]any{"success": true})
	h.server.JSON(http.MethodDelete, "/delete-issue", map[string]any{})

	res := h.run(t, "jira", "tickets", "edit", "ENG-1", "--field", "storyPoints=3")
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Equal(t, "Updated ENG-1.\n", res.stdout)
	req := h.server.LastRequest(t)
	assert.Equal(t, "ENG-1", req.Body["issue_key"])
	assert.Equal(t, map[string]any{"storyPoints": float64(3)}, req.Body["fields"])

	res = h.run(t, "jira", "tickets", "edit", "ENG-1")
	assert.Equal(t, ExitCodeError, res.code)
	assert.Contains(t, res.stderr, "at least one --field is required")

	res = h.run(t, "jira", "tickets", "delete", "ENG-1")
	assert.Equal(t, ExitCodeError, res.code)
	assert.Contains(t, res.stderr, "without --yes")

	res = h.run(t, "-o", "json", "jira", "tickets", "delete", "ENG-1", "--yes")
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.JSONEq(t, `{"success": true}`, res.stdout)
	assert.Equal(t, "ENG-1", h.server.LastRequest(t).Query.Get("issue_key"))
}

func TestJiraRemoteError(t *testing.T) {
	h := newHarness(t)
	h.server.Handle(http.MethodGet, "/get-all-projects", http.StatusBadGateway, map[string]any{"error": "Jira is unavailable"})

	res := h.run(t, "jira", "projects", "list")

	assert.Equal(t, ExitCodeError, res.code)
	assert.Equal(t, "Error: Jira is unavailable\n", res.stderr)
}

func TestJiraSprintsAndBoards(t *testing.T) {
	h := newHarness(t)
	sprints := []any{
		map[string]any{"id": 7, "name": "Sprint 7", "state": "active", "start_date": "2026-10-05T09:00:00.000+0000"},
	}
	h.server.JSON(http.MethodGet, "/get-all-sprints-for-project", map[string]any{"sprints": sprints, "total": 1})
	h.server.JSON(http.MethodGet, "/get-active-sprints-for-project", map[string]any{"sprints": sprints})
	h.server.JSON(http.MethodGet, "/get-boards-for-project", map[string]any{
		"boards": []any{map[string]any{"id": 3, "name": "ENG board", "type": "scrum"}},
		"total":  1,
	})

	res := h.run(t, "jira", "sprints", "list")
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Sprint 7")
	assert.Contains(t, res.stdout, "2026-10-05T09:00:00Z")

	res = h.run(t, "jira", "sprints", "list", "--active")
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Equal(t, "/get-active-sprints-for-project", h.server.LastRequest(t).Path)

	for _, flag := range []string{"--max-results", "--start-at"} {
		before := len(h.server.Requests())
		res = h.run(t, "jira", "sprints", "list", "--active", flag, "5")
		assert.Equal(t, ExitCodeError, res.code, flag)
		assert.Contains(t, res.stderr, "none of the others can be", flag)
		assert.Len(t, h.server.Requests(), before, flag)
	}

	res = h.run(t, "jira", "boards", "list", "--start-at", "0")
	require.Equal(t, ExitCodeSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "ENG board")
	assert.Equal(t, "0", h.server.LastRequest(t).Query.Get("startAt"))
}

func TestParseFields(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    jira.Fields
		wantErr bool
	}{
		{"empty", nil, jira.Fields{}, false},
		{"string", []string{"summary=New title"}, jira.Fields{"summary": "New title"}, false},
		{"number", []string{"points=5"}, jira.Fields{"points": float64(5)}, false},
		{"object", []string{`priority={"name":"High"}`}, jira.Fields{"priority": map[string]any{"name": "High"}}, false},
		{"value with equals", []string{"jql=a=b"}, jira.Fields{"jql": "a=b"}, false},
		{"empty value", []string{"note="}, jira.Fields{"note": ""}, false},
		{"missing equals", []string{"summary"}, nil, true},
		{"missing key", []string{"=x"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFields(tt.pairs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
