// Package session keeps the power grid game's live sessions in memory.
//
// Manager stores one service.Session per ID, each with its own engine.
// IDs are 4 hex characters from crypto/rand, matched case-insensitively,
// and regenerated on collision.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//	sessions := manager.List() // oldest first
//
// Cleanup:
//
// Nothing is persisted. CleanupExpiredSessions drops sessions that have not
// been touched within a given age; the server runs it periodically.
package session
