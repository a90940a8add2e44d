package domain

// KeyPrefix namespaces every key and channel folio writes to the store.
const KeyPrefix = "folio:"

// ChangesChannel is the pub/sub channel catalog mutations are announced on.
const ChangesChannel = KeyPrefix + "changes"
