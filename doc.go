// Package juncture is a client for the Juncture integration API.
//
// Juncture brokers OAuth connections between your users, identified by an
// external id of your choosing, and third-party providers such as Jira.
// Two clients cover the two trust contexts:
//
//   - PublicClient runs where end users are. It starts OAuth flows and sends
//     the user to the provider's authorization page.
//   - SecretClient runs on your servers. It checks connections, fetches
//     credentials and access tokens, and performs provider operations.
//
// # Connecting a user
//
//	public, err := juncture.NewPublicClient(juncture.PublicConfig{
//		JunctureAPIURL: "https://api.juncture.example",
//	})
//	if err != nil {
//		return err
//	}
//	url, err := public.AuthorizationURL(ctx, juncture.ProviderJira, userID)
//
// In an HTTP handler, RedirectResponse answers the request with a redirect
// to the authorization page. Desktop and CLI programs use RedirectTo, which
// opens the system browser.
//
// # Server-side calls
//
//	secret, err := juncture.NewSecretClient(juncture.SecretConfig{
//		JunctureAPIURL:    "https://api.juncture.example",
//		JunctureSecretKey: os.Getenv("JUNCTURE_SECRET_KEY"),
//	})
//	if err != nil {
//		return err
//	}
//
//	token, err := secret.AccessToken(ctx, userID, juncture.ProviderJira)
//	if errors.IsReauthorizationRequired(err) {
//		// ask the user to go through PublicClient.Reauthorize
//	}
//
//	projects, err := secret.Jira().Projects(ctx)
//
// Every failure is one of the types in the errors package. Clients hold no
// mutable state and are safe for concurrent use.
package juncture
