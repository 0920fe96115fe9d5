package domain

// ConnectionID identifies one admitted transport session.
// A disconnect reports it, so a late cleanup never touches a newer session of the same user.
type ConnectionID string
