// Package command defines the canonical command envelope and contract used
// across the write path.
//
// Commands express caller intent against a single aggregate. They are the
// stable boundary before domain deciders so that business rules are evaluated
// only against normalized, validated inputs.
//
// The package-level registry and definitions exist to keep command behavior
// consistent for: aggregate addressing, payload shape, and actor identity.
package command
