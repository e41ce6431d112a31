// Package ldbstore persists training snapshots in a LevelDB database,
// with one record per information set.
//
// Unlike cfr.FileStore, a Store can be inspected and read back one
// information set at a time without decoding the whole table.
package ldbstore
