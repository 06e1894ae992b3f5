// Package entity describes persisted entities: their name, query alias,
// table, and the dotted property paths a derived query may reference.
//
// A Model can be built by hand with NewModel (this is what repository
// definition files produce) or parsed from a Go struct through a Registry.
// Nested structs contribute dotted paths ("address.city"), embedded
// structs contribute promoted paths. Columns default to the underscore form
// of the whole path ("address.city" -> "address_city"), and struct tags
// override the defaults:
//
//	type Simple struct {
//		ID       int64  `orm:"path=id"`
//		Name     string `orm:"column=simple_name"`
//		Embedded Embedded
//		Internal string `orm:"-"`
//	}
//
// Model satisfies the metadata contract of the derive package except for
// the method prefix, which belongs to the repository.
package entity
