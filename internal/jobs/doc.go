// Package jobs runs periodic maintenance on top of gocron: closing study
// sessions that were never ended and deactivating goals whose window has
// passed.
package jobs
