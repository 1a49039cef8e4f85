// Package draft holds the editable state of a post and turns it into the
// multipart submission the server expects.
//
// Media is tracked as MediaRef values tagged with where their content comes
// from: a row already on the server, a local file, or a link. Saving sends the
// ids of the stored rows to keep; stored rows left out are deleted by the
// server. A Draft is never modified in place.
package draft
