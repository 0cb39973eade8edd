// Package domain holds DTOs for the apps http and service contracts
package domain

// GeoArea is a circular play area, center as [longitude, latitude]
type GeoArea struct {
	Center       [2]float64 `json:"center"`
	RadiusMeters float64    `json:"radiusMeters" validate:"required,min=10,max=10000"`
}

// PublicDetail is the public view of a published listing
type PublicDetail struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Slug      string  `json:"slug"`
	HeroURL   string  `json:"heroUrl,omitempty"`
	OwnerName string  `json:"ownerName"`
	BuildURL  string  `json:"buildUrl"`
	Semver    string  `json:"semver"`
	Geo       GeoArea `json:"geo"`
}

// SubmitInput is the body accepted by the CI submission endpoint
type SubmitInput struct {
	Title      string  `json:"title" validate:"required,min=1,max=100" example:"Marais Walk"`
	Slug       string  `json:"slug" validate:"required,min=1,max=50" example:"marais-walk"`
	Geo        GeoArea `json:"geo" validate:"required"`
	HeroURL    string  `json:"heroUrl,omitempty" validate:"omitempty,url"`
	BuildURL   string  `json:"buildUrl" validate:"required,url"`
	SDKVersion string  `json:"sdkVersion,omitempty" example:"1.2.0"`
}

// SubmitOutput acknowledges a CI submission
type SubmitOutput struct {
	AppID     string `json:"appId"`
	VersionID string `json:"versionId"`
	Dashboard string `json:"dashboard"`
	Status    string `json:"status"`
}
