// Package domain contains the core business entities of the study application:
// users, categories and themes, flashcards, study sessions, review events,
// study goals and admin-curated question lists. Entities carry their own
// validation and are independent of storage and transport.
package domain
