// Package health reports whether the storage endpoint and the optional
// journal database are reachable.
//
// Storage is probed with a bucket listing, which also proves the credentials
// work. The database is pinged only when it is connected; a disabled database
// does not make the report unhealthy.
//
// # HTTP Endpoints
//
//   - GET /health : 200 with the report when healthy, 503 otherwise.
package health
