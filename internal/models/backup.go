package models

// BackupAccount is one record of the portable backup document. The secret
// is the base32 plaintext: the backup file is a deliberate, user-accepted
// trust boundary, not an encrypted store.
type BackupAccount struct {
	Issuer      string `json:"issuer"`
	AccountName string `json:"account_name"`
	Secret      string `json:"secret"`
}
