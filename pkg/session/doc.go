/*
Package session implements save management and persistence orchestration.

It serializes access to one save across goroutines with ref-counted mutexes and, when a
distributed locker is configured, across replicas. Update runs a whole
load-mutate-save cycle under that lock.
*/
package session
