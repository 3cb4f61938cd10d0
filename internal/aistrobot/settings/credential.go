package settings

// CredentialName is the fixed settings name the API key is stored under.
const CredentialName = "api_key"

// CredentialStore reads and writes the single API credential.
// Values are stored as given; nothing is validated, the empty string included.
type CredentialStore struct {
	store Store
}

func NewCredentialStore(store Store) *CredentialStore {
	return &CredentialStore{store: store}
}

// Set stores key, replacing the previous credential.
func (c *CredentialStore) Set(key string) error {
	return c.store.Set(CredentialName, key)
}

// Get returns the stored credential. ok is false if none was ever set.
func (c *CredentialStore) Get() (string, bool, error) {
	return c.store.Get(CredentialName)
}

// Clear forgets the stored credential.
func (c *CredentialStore) Clear() error {
	return c.store.Delete(CredentialName)
}
