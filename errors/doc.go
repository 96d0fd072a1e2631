// Package errors defines the error taxonomy shared by Juncture clients.
//
// Every failure a client returns is exactly one of:
//   - ConfigurationError: a required configuration field is missing
//   - EnvironmentError: the runtime cannot navigate a browser
//   - RequestError: a remote call failed
//   - ReauthorizationRequiredError: a RequestError whose remote flagged that
//     the end user must authorize the connection again
//
// Normalize turns transport failures into a RequestError with a
// human-readable message. Use the predicates or errors.As to branch:
//
//	token, err := secret.AccessToken(ctx, externalID, juncture.ProviderJira)
//	if errors.IsReauthorizationRequired(err) {
//	    return public.Reauthorize(ctx, juncture.ProviderJira, externalID, juncture.FrameworkReact)
//	}
//
// Explain adds actionable suggestions for command-line output.
package errors
