// Package microsoft provides authentication and request plumbing for
// Microsoft Graph.
//
// The service runs unattended, so it authenticates with the OAuth2 client
// credentials grant against a single tenant:
//   - Token URL: {authority}/{tenant}/oauth2/v2.0/token
//   - Scope: https://graph.microsoft.com/.default
//
// The app registration needs the Sites.Read.All application permission.
//
// # Paging
//
// Collection responses carry @odata.nextLink while more pages remain.
// Client.Collect follows it until the collection is exhausted.
//
// # Rate Limits
//
// SharePoint throttles per app and per tenant. Requests go through a token
// bucket and a 429 Retry-After header pauses every subsequent request.
package microsoft
