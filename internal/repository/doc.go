// Package repository runs derived query methods.
//
// A Registry holds repositories, each an entity model plus the method
// names it declares. Bootstrap compiles every declared method up front so
// that a bad method name fails at startup rather than at first call:
//
//	reg := repository.New(repository.WithLogger(logger))
//	for _, def := range defs {
//		if err := reg.Register(def); err != nil {
//			return err
//		}
//	}
//	if err := reg.Bootstrap(repository.CollectAll); err != nil {
//		for _, e := range repository.Errors(err) {
//			...
//		}
//	}
//
// An Executor binds call arguments, renders SQL for its dialect and runs
// the statement through a middleware chain:
//
//	exec := repository.NewExecutor(reg, db, querysql.SQLite,
//		repository.WithMiddlewares(querylog.NewBuilder(logger).Build()))
//	res, err := exec.Invoke(ctx, "SimpleRepository", "findByName", "a")
//
// Result shapes follow the method prefix: find methods return rows,
// countBy a count, deleteBy the number of deleted rows. Single applies the
// prefix's single-result style (findOptionalBy, findAnyBy).
package repository
