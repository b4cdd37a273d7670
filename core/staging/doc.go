// Package staging manages the ephemeral staging side of a load run: a
// uniquely named all-TEXT table, a bulk loader for delimited input, and
// source resolution for local files or object storage.
//
// A staging set lives exactly as long as one reconciliation. The caller
// creates it, bulk-loads it, hands its table name to the merge engine, and
// drops it afterwards (typically via defer) whether the run succeeded or
// not.
package staging
