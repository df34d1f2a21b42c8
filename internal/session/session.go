// Package session keeps the token -> user id table. It lives in process
// memory only: a restart logs everyone out, which is fine for this board.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
)

// 16 random bytes, hex-encoded to 32 characters.
const tokenBytes = 16

type Table struct {
	mu     sync.RWMutex
	tokens map[string]int
}

func NewTable() *Table {
	return &Table{tokens: make(map[string]int)}
}

// Create issues a fresh token for userID.
func (t *Table) Create(userID int) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	t.mu.Lock()
	t.tokens[token] = userID
	t.mu.Unlock()
	return token, nil
}

// Resolve maps a token back to a user id.
func (t *Table) Resolve(token string) (int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.tokens[token]
	return id, ok
}

// Destroy removes a token. No-op if it was never issued.
func (t *Table) Destroy(token string) {
	t.mu.Lock()
	delete(t.tokens, token)
	t.mu.Unlock()
}
