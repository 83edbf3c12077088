// Package events provides an in-process publish/subscribe mechanism.
//
// Services emit events after their own work has committed; handlers react
// to them without the emitting service knowing who listens. The study
// service, for example, announces ended sessions and the goal tracker
// stamps achieved goals in response.
package events
