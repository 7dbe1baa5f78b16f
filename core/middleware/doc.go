// Package middleware groups the fiber middleware used by the server.
//
//   - rayid: tags each request with an X-Ray-ID (kept from the client or a new uuid).
//   - auth: checks X-API-Key against the configured key. An empty key turns it off.
//
// Register rayid first so auth rejections are logged with the id.
package middleware
