// Package history loads the previously completed exports of a dataset for
// preview. Only the first Limit records, in service order, are kept.
package history
