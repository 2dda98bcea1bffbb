// Package core holds small numeric helpers and the shared processor
// configuration used across the reverb building blocks.
package core
