// Package otpauth parses otpauth://totp provisioning URIs, the payload of
// authenticator QR codes.
package otpauth

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/secure2fa/vault/internal/common"
	"github.com/secure2fa/vault/internal/totp"
)

// Info is the account triple carried by a provisioning URI.
type Info struct {
	Issuer      string
	AccountName string
	Secret      string
}

// Parse extracts issuer, account name and base32 secret from an
// otpauth://totp/<label>?secret=...&issuer=... URI.
//
// The label may be "issuer:account"; when the issuer query parameter is
// also present it takes precedence over the label-embedded issuer. Returns
// common.ErrorParse for a missing scheme, a type other than totp, a
// missing secret parameter, or a secret that is not valid base32.
func Parse(uri string) (*Info, error) {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return nil, fmt.Errorf("invalid uri: %w", common.ErrorParse)
	}
	if u.Scheme != "otpauth" {
		return nil, fmt.Errorf("scheme %q is not otpauth: %w", u.Scheme, common.ErrorParse)
	}
	// The otp type ends up in the host position: otpauth://totp/label.
	if u.Host != "totp" {
		return nil, fmt.Errorf("unsupported otp type %q: %w", u.Host, common.ErrorParse)
	}

	issuer, accountName := splitLabel(strings.TrimPrefix(u.Path, "/"))

	query := u.Query()
	if qi := query.Get("issuer"); qi != "" {
		issuer = qi
	}

	secret := query.Get("secret")
	if secret == "" {
		return nil, fmt.Errorf("missing secret parameter: %w", common.ErrorParse)
	}
	if err := totp.ValidateSecret(secret); err != nil {
		return nil, fmt.Errorf("secret is not valid base32: %w", common.ErrorParse)
	}

	return &Info{
		Issuer:      strings.TrimSpace(issuer),
		AccountName: strings.TrimSpace(accountName),
		Secret:      secret,
	}, nil
}

// splitLabel splits "issuer:account" on the first colon; a label without a
// colon is all account name.
func splitLabel(label string) (issuer, accountName string) {
	if idx := strings.Index(label, ":"); idx >= 0 {
		return label[:idx], label[idx+1:]
	}
	return "", label
}
