// Package jira performs Jira operations through the Juncture API.
//
// A Client is obtained from a secret-keyed Juncture client and operates on
// the project the connection has selected:
//
//	secret, err := juncture.NewSecretClient(juncture.SecretConfig{
//		JunctureAPIURL:    "https://api.juncture.example",
//		JunctureSecretKey: os.Getenv("JUNCTURE_SECRET_KEY"),
//	})
//	if err != nil {
//		return err
//	}
//
//	page, err := secret.Jira().TicketsForProject(ctx, jira.PageOptions{MaxResults: jira.Int(25)})
//
// Every response is fully populated: lists are never nil and paged
// responses default to startAt 0, maxResults 50, and total 0 when the
// remote omits them. Failures are *errors.RequestError values.
//
// # Rich Text
//
// Descriptions and comment bodies arrive either as plain text or as
// Atlassian Document Format (ADF). DetailedIssue.DescriptionText and
// Comment.BodyText render both to Markdown-flavoured text.
package jira
