// package repositories provides the persistence layer for the publish
// history ledger.
//
// HistoryRepository implements [models.Repository] for
// [models.PublishRecord] on SQLite.
package repositories
