// Package service holds the application use cases of the flashcard API:
// account registration and login, categories and themes, card management,
// study goals, performance reports and admin-curated question lists.
//
// Services receive their stores through constructor injection and depend only
// on the interfaces declared in internal/store. Operations that touch more
// than one store run inside a store.Transactor. Ownership checks live here:
// a resource belonging to another user yields ErrNotOwned, which the HTTP
// layer maps to 403.
//
// Study sessions and SM-2 scheduling live in the review subpackage, password
// hashing and tokens in the auth subpackage.
package service
