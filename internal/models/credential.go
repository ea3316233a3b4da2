// Package models defines the domain records stored by the vault.
package models

// Credential is a login secret. Content is plaintext while in memory and
// ciphertext at rest; the repository encrypts on write and decrypts on read.
type Credential struct {
	ID         int64
	Website    string
	Content    string
	IsFavorite bool
	// IsOwner reflects the requesting user's link when the credential was
	// loaded through a per-user listing. Zero value otherwise.
	IsOwner bool
}

// NewCredentialRequest carries the validated input for inserting or
// updating a credential.
type NewCredentialRequest struct {
	Website string
	Content string
}

// OwnershipLink is one row of the user↔credential association. For a given
// credential exactly one link carries IsOwner=true; the rest are shares.
type OwnershipLink struct {
	UserID     int64
	PasswordID int64
	IsOwner    bool
}

// WebsiteAuthentication is the decrypted credential + account email pair
// served to the browser-autofill endpoint.
type WebsiteAuthentication struct {
	Email   string
	Content string
}
