// Package store opens the database derived queries run against and
// creates tables for entity models.
//
// # Database Configuration
//
// sqlite3 connections are configured with:
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//   - upper(): Unicode upper-casing, matching IgnoreCase parameters
//
// mysql connections are used as configured by the DSN.
//
// Migrate only creates missing tables. It never alters or drops existing
// ones.
package store
