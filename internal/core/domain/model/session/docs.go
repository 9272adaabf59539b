// Package session models who is operating a station: the signed-in user and
// their role. A Session is created at login and discarded at logout, and is
// passed explicitly to every use case that acts on the backend on the user's behalf.
package session
