// Package mongodb provides MongoDB implementations of the store interfaces.
// Users and tasks live in the "users" and "tasks" collections; ids are
// native ObjectIDs, so domain.ID converts without parsing.
package mongodb
