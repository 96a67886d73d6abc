// Package acl is the anti-corruption layer between the application and the
// remote quote store.
//
// The store speaks json-server: quotes carry their text under "quote", likes
// reference quotes through "quoteId" and carry "createdAt" in Unix seconds,
// and identifiers may be numbers or strings depending on the server version.
// None of that leaks past this package. [QuoteStore] accepts and returns
// domain types, and every failure is translated by [MapHTTPError] into one
// of the domain error kinds:
//
//   - network failure, open circuit, 5xx → [domain.ErrUnavailable]
//   - deadline or cancellation → the context error, wrapped
//   - 404 → [domain.ErrNotFound]
//   - 400/422 → [domain.ErrValidation]
//   - any other non-2xx → [domain.ErrRejected]
package acl
