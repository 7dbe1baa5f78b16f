// Package loader registers HTTP features on the fiber app.
//
// A feature owns a group of routes and implements Feature. The Manager keeps
// features in registration order; LoadAll skips disabled ones, rejects
// duplicate names and stops at the first Load error.
package loader
