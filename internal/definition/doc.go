// Package definition loads repository definition files.
//
// A definition declares one or more repositories, each naming its entity
// metadata and the query methods it exposes:
//
//	repositories:
//	  - name: SimpleRepository
//	    entity:
//	      name: Simple
//	      table: simple_table
//	      properties:
//	        - {path: id, type: int}
//	        - {path: name, type: string}
//	    methods:
//	      - findByName
//	      - countByEnabledTrue
//
// YAML (.yaml, .yml) is decoded strictly: unknown fields are rejected.
// CUE (.cue) files are evaluated and their "repositories" field decoded.
// Loading a directory loads every definition file beneath it in path order.
package definition
