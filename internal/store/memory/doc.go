// Package memory provides in-process implementations of the store interfaces.
// They back the "memory" database driver and the service and router tests.
package memory
