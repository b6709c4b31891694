// Package core defines the domain model for the asset library: assets and
// their AI-derived annotations, download records, the processing lifecycle,
// search result types, validation rules, and the binary serializers used by
// the storage layer.
package core
