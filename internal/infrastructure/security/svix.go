package security

import (
	"encoding/json"
	"net/http"
	"strings"

	"coursemarket/internal/domain"

	"github.com/pkg/errors"
	svix "github.com/svix/svix-webhooks/go"
)

// IdentityVerifier authenticates user lifecycle webhooks sent by the auth provider
// (Clerk delivers them through Svix).
type IdentityVerifier struct {
	wh *svix.Webhook
}

func NewIdentityVerifier(secret string) (*IdentityVerifier, error) {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, errors.Wrap(err, "init svix webhook")
	}
	return &IdentityVerifier{wh: wh}, nil
}

type clerkEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		ImageURL       string `json:"image_url"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// Verify checks svix-id, svix-timestamp and svix-signature over the raw body and
// decodes the Clerk payload.
func (v *IdentityVerifier) Verify(payload []byte, headers http.Header) (*domain.IdentityEvent, error) {
	if err := v.wh.Verify(payload, headers); err != nil {
		return nil, errors.Wrap(domain.ErrAuthentication, err.Error())
	}

	var ev clerkEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, errors.Wrapf(domain.ErrAuthentication, "decode identity event: %v", err)
	}

	user := domain.User{
		ID:       ev.Data.ID,
		Name:     strings.TrimSpace(ev.Data.FirstName + " " + ev.Data.LastName),
		ImageURL: ev.Data.ImageURL,
	}
	if len(ev.Data.EmailAddresses) > 0 {
		user.Email = ev.Data.EmailAddresses[0].EmailAddress
	}
	return &domain.IdentityEvent{Type: domain.IdentityEventType(ev.Type), User: user}, nil
}
