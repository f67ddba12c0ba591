// package models defines the data model for the chart-to-playlist pipeline.
//
// The core value types (ChartEntry, Playlist) flow forward through the
// pipeline; PublishRecord is the persisted ledger row written after a
// successful publish.
package models
