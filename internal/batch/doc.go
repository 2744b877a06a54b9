// Package batch runs provider steps one at a time, reports progress after
// each step and hands a Result to the finish hooks. Completed steps are never
// rolled back when a later step fails.
package batch
