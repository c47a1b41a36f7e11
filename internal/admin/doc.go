// Package admin turns introspected table descriptors into REST CRUD
// endpoints consumable by an admin-on-rest style frontend.
//
// A Resource binds one table to its five operations (list, detail, create,
// update, delete); a Schema collects registered resources, serves the
// frontend bootstrap document, and mounts everything on a chi router.
// Driver-specific mutation mechanics (RETURNING vs LAST_INSERT_ID, explicit
// transactions, id coercion) live behind the Strategy interface, so there
// is a single Resource type rather than a type per database.
package admin
