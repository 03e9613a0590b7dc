// Package keywords canonicalizes raw keyword strings into the delivery format:
// comma separated, at most three words per phrase, title cased, with banned
// phrases removed.
//
// Phrases longer than three words are first offered to a Rewriter (normally
// backed by the text generation service). A failed or empty rewrite falls back
// to the original phrase, which is then truncated if it survives the ban
// filter. Callers that need to audit which phrases were rewritten use Process
// instead of Normalize.
package keywords
