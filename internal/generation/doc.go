// Package generation runs the text generation steps that fill the album:
// track descriptions, album description, album name, cover art prompts, and
// the MailChimp intro.
//
// Each step returns an Outcome. A successful step writes its value into the
// session; a failed step leaves the previous value untouched and reports why.
package generation
