// Package source provides built-in resource source implementations.
//
// Resource sources discover the shareable resources available for
// allocation. The package includes:
//
//   - Static: Fixed list of resources
//
// Custom sources can be implemented by satisfying the types.ResourceSource interface.
package source
