// Package querysql renders derived query trees as parameterized SQL for
// sqlite3 and mysql.
//
// The derived query text addresses entities and property paths; the SQL
// addresses the entity's table and columns through a Schema. Parameters
// are consumed in the order the derived query numbered them, so the value
// bound to ?n always lands in the nth placeholder slot (or slots, for an
// expanded IN list).
package querysql
