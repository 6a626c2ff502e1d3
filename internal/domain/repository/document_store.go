// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"lessonradar/internal/errors"

	"github.com/google/uuid"
)

// DocumentKey names one persisted value of an owner.
type DocumentKey string

// Keys stored per owner. Values are written whole on every mutation.
const (
	KeySavedAddresses  DocumentKey = "savedAddresses"  // JSON array of strings.
	KeySelectedAddress DocumentKey = "selectedAddress" // Plain string.
	KeyCart            DocumentKey = "cart"            // JSON array of lesson records.
	KeyIsLoggedIn      DocumentKey = "isLoggedIn"      // "true" or "false".
	KeyUserID          DocumentKey = "userId"          // Plain string.
	KeyKakaoNickname   DocumentKey = "kakaoNickname"   // Plain string.
	KeyLoginProvider   DocumentKey = "loginProvider"   // Plain string.
	KeyPasswordHash    DocumentKey = "passwordHash"    // bcrypt hash; only ID/password accounts have one.
	KeySessionID       DocumentKey = "sessionId"       // Login session the current access token is bound to.
	KeyCheckouts       DocumentKey = "checkouts"       // JSON array of recorded checkouts, newest first.
)

// ErrDocumentNotFound is returned when nothing has been stored under a key yet.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore is a per-owner key/value store of opaque documents.
// There are no cross-key transactions; the last Set for a key wins.
type DocumentStore interface {
	// Get returns the stored value or ErrDocumentNotFound.
	Get(ctx context.Context, ownerID uuid.UUID, key DocumentKey) ([]byte, error)

	// Set replaces the stored value.
	Set(ctx context.Context, ownerID uuid.UUID, key DocumentKey, value []byte) error
}
