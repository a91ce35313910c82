// Package panel provides the typed read-side client for the panel API screens
// surrounding the purchase flow: the plan catalog, the user's active
// subscriptions, the announcement feed, and the account summary.
//
// These are plain fetch-and-decode calls with no retry or consistency logic;
// credential injection, response classification, and failure notifications are
// handled by the shared apiclient transport underneath.
package panel
