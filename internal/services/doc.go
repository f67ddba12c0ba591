// package services implements clients for the external APIs the pipeline
// talks to.
//
// SpotifyService covers both authentication modes the pipeline needs:
// app-only client-credentials tokens for catalog search, and the delegated
// authorization-code flow (via [golang.org/x/oauth2]) for playlist mutation
// on behalf of a user.
package services
