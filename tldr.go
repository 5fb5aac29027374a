// Package tldr turns an article URL into a streamed AI summary.
// It fetches the page, reduces it to plain text, extracts head-tag metadata,
// and relays generated summary text as it is produced.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, openai/, rod/).
package tldr
