// Package types contains the shared types and interfaces of the roomshare
// library.
//
// This package is a leaf: it has no dependencies on other roomshare
// packages, which allows internal packages to depend on it without
// importing the root roomshare package. The root package re-exports the
// public subset via type aliases.
package types
