package domain

import "time"

// Shop is the installation record for a connected store. AccessToken is the
// opaque credential issued by Shopify; it is stored as-is and never included
// in any API response.
type Shop struct {
	Domain      string    `json:"domain" bson:"domain"`
	AccessToken string    `json:"-" bson:"access_token"`
	Scopes      []string  `json:"scopes" bson:"scopes"`
	InstalledAt time.Time `json:"installed_at" bson:"installed_at"`
}
