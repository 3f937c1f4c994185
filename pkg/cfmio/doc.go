// Package cfmio provides the one concrete importer/exporter pair this
// repository carries: JSON for a CFM and its ConfigurationNode trees, and
// an SVG renderer for a CFM's feature tree. FeatureIDE XML, UVL, and PNG
// are spec.md's explicit non-goals; this package exists so the core has
// at least one testable round trip (spec.md §8's "Validator round-trip
// under export/import on JSON") and exercises the teacher's svgo
// dependency.
package cfmio
