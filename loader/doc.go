// Package loader fetches feature collections from an HTTP URL or a local
// file. It is the one asynchronous boundary in front of a session: a
// failed fetch is terminal, retry policy belongs to the caller.
package loader
