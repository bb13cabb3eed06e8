package model

import "time"

// User represents an application user record as stored in the
// `users` table. Bookings reference users by ID; the email is the
// login handle and is unique across all users. The password is
// only ever persisted as a bcrypt hash.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique, normalized (lower-cased) email address.
//  PasswordHash – bcrypt hashed password.
//  DisplayName  – name shown on the dashboard.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    DisplayName  string    // users.display_name
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// Session models an entry in the `sessions` table. A session is the
// opaque credential handed out at login; the plain token is not
// stored, only its SHA-256 hash. A session stays valid until it
// expires or is revoked by logout.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the session.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the session.
//  RevokedAt – when the session was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type Session struct {
    ID        uint64     // sessions.id
    UserID    uint64     // sessions.user_id
    TokenHash string     // sessions.token_hash
    ExpiresAt time.Time  // sessions.expires_at
    RevokedAt *time.Time // sessions.revoked_at (nullable)
    CreatedAt time.Time  // sessions.created_at
}
