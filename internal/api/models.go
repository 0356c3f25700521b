package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/service"
)

// AddressRequest is an address in a registration or address request.
type AddressRequest struct {
	Street    string `json:"street"    validate:"required"`
	City      string `json:"city"      validate:"required"`
	ZipCode   string `json:"zipCode"   validate:"required"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault"`
}

func (a AddressRequest) toDomain() domain.Address {
	return domain.Address{
		Street:    a.Street,
		City:      a.City,
		ZipCode:   a.ZipCode,
		Country:   a.Country,
		IsDefault: a.IsDefault,
	}
}

// RegisterClientRequest is the payload of POST /auth/register/client.
type RegisterClientRequest struct {
	FirstName string           `json:"firstName" validate:"required"`
	LastName  string           `json:"lastName"  validate:"required"`
	Email     string           `json:"email"     validate:"required,email"`
	Phone     string           `json:"phone"     validate:"required"`
	Password  string           `json:"password"  validate:"required,min=6,max=72"`
	Addresses []AddressRequest `json:"addresses" validate:"omitempty,dive"`
	Language  string           `json:"language"  validate:"omitempty,oneof=fr en he ar"`
}

func (req RegisterClientRequest) toInput() service.RegisterClientInput {
	addresses := make([]domain.Address, 0, len(req.Addresses))
	for _, a := range req.Addresses {
		addresses = append(addresses, a.toDomain())
	}
	return service.RegisterClientInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Addresses: addresses,
		Language:  domain.Language(req.Language),
	}
}

// ServiceDetailRequest is a rate sheet entry.
type ServiceDetailRequest struct {
	Type        string  `json:"type"        validate:"required"`
	HourlyRate  float64 `json:"hourlyRate"  validate:"gte=0"`
	Description string  `json:"description"`
}

// RegisterProviderRequest is the payload of POST /auth/register/provider.
type RegisterProviderRequest struct {
	FirstName      string                 `json:"firstName"      validate:"required"`
	LastName       string                 `json:"lastName"       validate:"required"`
	Email          string                 `json:"email"          validate:"required,email"`
	Phone          string                 `json:"phone"          validate:"required"`
	Password       string                 `json:"password"       validate:"required,min=6,max=72"`
	ServiceTypes   []string               `json:"serviceTypes"   validate:"required,min=1"`
	ServiceAreas   []string               `json:"serviceAreas"   validate:"required,min=1,dive,required"`
	HourlyRate     float64                `json:"hourlyRate"     validate:"gte=0"`
	ServiceDetails []ServiceDetailRequest `json:"serviceDetails" validate:"omitempty,dive"`
	Language       string                 `json:"language"       validate:"omitempty,oneof=fr en he ar"`
}

func (req RegisterProviderRequest) toInput() service.RegisterProviderInput {
	return service.RegisterProviderInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Password:       req.Password,
		ServiceTypes:   toServiceTypes(req.ServiceTypes),
		ServiceAreas:   req.ServiceAreas,
		HourlyRate:     req.HourlyRate,
		ServiceDetails: toServiceDetails(req.ServiceDetails),
		Language:       domain.Language(req.Language),
	}
}

// LoginRequest is the payload of POST /auth/login. Role is optional.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AccountView is the identity summary returned by the auth endpoints.
type AccountView struct {
	ID           uuid.UUID            `json:"id"`
	FirstName    string               `json:"firstName"`
	LastName     string               `json:"lastName"`
	Email        string               `json:"email"`
	Role         domain.Role          `json:"role"`
	Language     domain.Language      `json:"language,omitempty"`
	ServiceTypes []domain.ServiceType `json:"serviceTypes,omitempty"`
}

func newAccountView(identity domain.Identity) AccountView {
	acct := identity.Base()
	view := AccountView{
		ID:        acct.ID,
		FirstName: acct.FirstName,
		LastName:  acct.LastName,
		Email:     acct.Email,
		Role:      identity.Role(),
		Language:  acct.Language,
	}
	if p, ok := identity.(*domain.Provider); ok {
		view.ServiceTypes = p.ServiceTypes
	}
	return view
}

// ClientView is a client profile tagged with its role.
type ClientView struct {
	*domain.Client
	Role domain.Role `json:"role"`
}

// ProviderView is a provider profile tagged with its role.
type ProviderView struct {
	*domain.Provider
	Role domain.Role `json:"role"`
}

// identityView renders the full profile of identity with its role.
func identityView(identity domain.Identity) any {
	switch v := identity.(type) {
	case *domain.Client:
		return ClientView{Client: v, Role: domain.RoleClient}
	case *domain.Provider:
		return ProviderView{Provider: v, Role: domain.RoleProvider}
	default:
		return newAccountView(identity)
	}
}

// DeclineJobRequest is the optional payload of PUT /providers/jobs/{id}/decline.
type DeclineJobRequest struct {
	Reason string `json:"reason"`
}

// CompleteJobRequest is the optional payload of PUT /providers/jobs/{id}/complete.
type CompleteJobRequest struct {
	CompletionNotes string `json:"completionNotes"`
}

// AvailabilityRequest is one weekly window.
type AvailabilityRequest struct {
	Day       int    `json:"day"       validate:"gte=0,lte=6"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime"   validate:"required"`
}

// UpdateAvailabilityRequest is the payload of PUT /providers/availability.
// A missing list is rejected; an empty one clears the availability.
type UpdateAvailabilityRequest struct {
	Availability []AvailabilityRequest `json:"availability" validate:"omitempty,dive"`
}

func toAvailability(in []AvailabilityRequest) []domain.Availability {
	if in == nil {
		return nil
	}
	out := make([]domain.Availability, 0, len(in))
	for _, a := range in {
		out = append(out, domain.Availability{Day: a.Day, StartTime: a.StartTime, EndTime: a.EndTime})
	}
	return out
}

// UpdateProviderRequest is the payload of PUT /providers/profile. Absent
// fields are left unchanged.
type UpdateProviderRequest struct {
	FirstName      *string                 `json:"firstName"      validate:"omitempty,min=1"`
	LastName       *string                 `json:"lastName"       validate:"omitempty,min=1"`
	Phone          *string                 `json:"phone"          validate:"omitempty,min=1"`
	Bio            *string                 `json:"bio"            validate:"omitempty,max=2000"`
	ServiceTypes   *[]string               `json:"serviceTypes"   validate:"omitempty,min=1"`
	ServiceDetails *[]ServiceDetailRequest `json:"serviceDetails" validate:"omitempty,dive"`
	ServiceAreas   *[]string               `json:"serviceAreas"   validate:"omitempty,min=1"`
	HourlyRate     *float64                `json:"hourlyRate"     validate:"omitempty,gte=0"`
	Availability   *[]AvailabilityRequest  `json:"availability"   validate:"omitempty,dive"`
	Language       *string                 `json:"language"       validate:"omitempty,oneof=fr en he ar"`
	ProfileImage   *string                 `json:"profileImage"`
	Experience     *int                    `json:"experience"     validate:"omitempty,gte=0"`
	Certifications *[]string               `json:"certifications"`
}

func (req UpdateProviderRequest) toPatch() service.ProviderPatch {
	patch := service.ProviderPatch{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Bio:            req.Bio,
		ServiceAreas:   req.ServiceAreas,
		HourlyRate:     req.HourlyRate,
		ProfileImage:   req.ProfileImage,
		Experience:     req.Experience,
		Certifications: req.Certifications,
	}
	if req.ServiceTypes != nil {
		types := toServiceTypes(*req.ServiceTypes)
		patch.ServiceTypes = &types
	}
	if req.ServiceDetails != nil {
		details := toServiceDetails(*req.ServiceDetails)
		patch.ServiceDetails = &details
	}
	if req.Availability != nil {
		availability := toAvailability(*req.Availability)
		patch.Availability = &availability
	}
	if req.Language != nil {
		lang := domain.Language(*req.Language)
		patch.Language = &lang
	}
	return patch
}

// ReviewRequest is the payload of POST /public/providers/{id}/reviews. The
// rating range is checked after the provider lookup.
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment" validate:"max=2000"`
}

// UpdateClientRequest is the payload of PUT /users/profile.
type UpdateClientRequest struct {
	FirstName    *string `json:"firstName"    validate:"omitempty,min=1"`
	LastName     *string `json:"lastName"     validate:"omitempty,min=1"`
	Phone        *string `json:"phone"        validate:"omitempty,min=1"`
	Language     *string `json:"language"     validate:"omitempty,oneof=fr en he ar"`
	ProfileImage *string `json:"profileImage"`
}

func (req UpdateClientRequest) toPatch() service.ClientPatch {
	patch := service.ClientPatch{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		ProfileImage: req.ProfileImage,
	}
	if req.Language != nil {
		lang := domain.Language(*req.Language)
		patch.Language = &lang
	}
	return patch
}

// BookingView is the placeholder booking returned by the booking routes.
type BookingView struct {
	ID     string           `json:"id"`
	Status domain.JobStatus `json:"status"`
}

func toServiceTypes(in []string) []domain.ServiceType {
	out := make([]domain.ServiceType, 0, len(in))
	for _, s := range in {
		out = append(out, domain.NormalizeServiceType(s))
	}
	return out
}

func toServiceDetails(in []ServiceDetailRequest) []domain.ServiceDetail {
	out := make([]domain.ServiceDetail, 0, len(in))
	for _, d := range in {
		out = append(out, domain.ServiceDetail{
			Type:        domain.NormalizeServiceType(d.Type),
			HourlyRate:  d.HourlyRate,
			Description: d.Description,
		})
	}
	return out
}
