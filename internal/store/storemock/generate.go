// Package storemock provides a generated mock of internal/store.Store for
// unit tests that don't want to open a real SQLite file, mirroring
// claircore's test/mock/indexer convention of one mockgen-generated
// package per interface under test.
package storemock

//go:generate -command mockgen go run go.uber.org/mock/mockgen -destination=./mock_store.go -package=storemock github.com/SemClone/binarysniffer/internal/store Store
//go:generate mockgen
