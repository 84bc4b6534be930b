// Package user implements the user aggregate: fold, decider, and
// command/event registration.
package user
