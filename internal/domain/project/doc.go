// Package project implements the project aggregate: fold, decider, and
// command/event registration.
package project
