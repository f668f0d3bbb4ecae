// Package auth provides the account and session core for a multi-kind
// principal API: signup with emailed one-time confirmation tokens, JWT
// session issuance over header or cookie transport, and a middleware
// pipeline for route protection and role gating.
//
// Principal kinds:
//   - Users and Sellers share the same PrincipalRecord shape but live
//     in separate tables with separate repositories. The Principals
//     interface abstracts one kind; PrincipalLookup fans a session
//     token's subject out across kinds in a fixed order.
//
// Session tokens:
//   - TokenService signs HS256 JWTs carrying the principal id and role.
//     The pipeline validates signature, expiry, issuer, and audience,
//     then re-resolves the principal and rejects tokens issued before
//     the most recent password change.
//
// Confirmation tokens:
//   - ConfirmationTokens generates a random plaintext whose sha256
//     digest is stored alongside an expiry. Only the digest persists;
//     consuming a token clears it so the link is single use.
//
// Failure shaping:
//   - Login failures are uniform regardless of cause so responses do
//     not reveal whether an email is registered. Pipeline failures hide
//     everything but the category behind a generic 401.
package auth
