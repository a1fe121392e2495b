package patients

import (
	"strings"
	"time"
)

// Gender values accepted on patient records.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Patient represents a patient record owned by the creating user. userId is
// a back-reference, not an ownership transfer: deleting a user does not
// cascade to patients.
type Patient struct {
	ID                     string    `json:"id"`
	UserID                 string    `json:"userId"`
	Name                   string    `json:"name"`
	Email                  string    `json:"email"`
	Phone                  string    `json:"phone"`
	BirthDate              string    `json:"birthDate"`
	Gender                 string    `json:"gender"`
	Address                string    `json:"address"`
	Occupation             string    `json:"occupation"`
	EmergencyContactName   string    `json:"emergencyContactName"`
	EmergencyContactNumber string    `json:"emergencyContactNumber"`
	PrimaryPhysician       string    `json:"primaryPhysician"`
	InsuranceProvider      string    `json:"insuranceProvider"`
	InsurancePolicyNumber  string    `json:"insurancePolicyNumber"`
	Allergies              *string   `json:"allergies,omitempty"`
	CurrentMedication      *string   `json:"currentMedication,omitempty"`
	FamilyMedicalHistory   *string   `json:"familyMedicalHistory,omitempty"`
	PastMedicalHistory     *string   `json:"pastMedicalHistory,omitempty"`
	IdentificationType     *string   `json:"identificationType,omitempty"`
	IdentificationNumber   *string   `json:"identificationNumber,omitempty"`
	IdentificationDocument []string  `json:"identificationDocument,omitempty"`
	TreatmentConsent       bool      `json:"treatmentConsent"`
	DisclosureConsent      bool      `json:"disclosureConsent"`
	PrivacyConsent         bool      `json:"privacyConsent"`
	CreatedAt              time.Time `json:"createdAt"`
}

// PatientFields is the full field set shared by create and update. Updates
// are whole-record replacements, so every required field must be present on
// both paths.
type PatientFields struct {
	UserID                 string   `json:"userId"`
	Name                   string   `json:"name"`
	Email                  string   `json:"email"`
	Phone                  string   `json:"phone"`
	BirthDate              string   `json:"birthDate"`
	Gender                 string   `json:"gender"`
	Address                string   `json:"address"`
	Occupation             string   `json:"occupation"`
	EmergencyContactName   string   `json:"emergencyContactName"`
	EmergencyContactNumber string   `json:"emergencyContactNumber"`
	PrimaryPhysician       string   `json:"primaryPhysician"`
	InsuranceProvider      string   `json:"insuranceProvider"`
	InsurancePolicyNumber  string   `json:"insurancePolicyNumber"`
	Allergies              *string  `json:"allergies,omitempty"`
	CurrentMedication      *string  `json:"currentMedication,omitempty"`
	FamilyMedicalHistory   *string  `json:"familyMedicalHistory,omitempty"`
	PastMedicalHistory     *string  `json:"pastMedicalHistory,omitempty"`
	IdentificationType     *string  `json:"identificationType,omitempty"`
	IdentificationNumber   *string  `json:"identificationNumber,omitempty"`
	IdentificationDocument []string `json:"identificationDocument,omitempty"`
	TreatmentConsent       bool     `json:"treatmentConsent"`
	DisclosureConsent      bool     `json:"disclosureConsent"`
	PrivacyConsent         bool     `json:"privacyConsent"`
}

// Fields projects the stored record back onto the writable field set, for
// callers that modify one attribute of an otherwise whole-record replace.
func (p *Patient) Fields() *PatientFields {
	return &PatientFields{
		UserID:                 p.UserID,
		Name:                   p.Name,
		Email:                  p.Email,
		Phone:                  p.Phone,
		BirthDate:              p.BirthDate,
		Gender:                 p.Gender,
		Address:                p.Address,
		Occupation:             p.Occupation,
		EmergencyContactName:   p.EmergencyContactName,
		EmergencyContactNumber: p.EmergencyContactNumber,
		PrimaryPhysician:       p.PrimaryPhysician,
		InsuranceProvider:      p.InsuranceProvider,
		InsurancePolicyNumber:  p.InsurancePolicyNumber,
		Allergies:              p.Allergies,
		CurrentMedication:      p.CurrentMedication,
		FamilyMedicalHistory:   p.FamilyMedicalHistory,
		PastMedicalHistory:     p.PastMedicalHistory,
		IdentificationType:     p.IdentificationType,
		IdentificationNumber:   p.IdentificationNumber,
		IdentificationDocument: p.IdentificationDocument,
		TreatmentConsent:       p.TreatmentConsent,
		DisclosureConsent:      p.DisclosureConsent,
		PrivacyConsent:         p.PrivacyConsent,
	}
}

// Validate enforces the field contract: all non-optional fields present, a
// known gender value, and all three consents granted at submission time.
func (f *PatientFields) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"userId", f.UserID},
		{"name", f.Name},
		{"email", f.Email},
		{"phone", f.Phone},
		{"birthDate", f.BirthDate},
		{"address", f.Address},
		{"occupation", f.Occupation},
		{"emergencyContactName", f.EmergencyContactName},
		{"emergencyContactNumber", f.EmergencyContactNumber},
		{"primaryPhysician", f.PrimaryPhysician},
		{"insuranceProvider", f.InsuranceProvider},
		{"insurancePolicyNumber", f.InsurancePolicyNumber},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return &MissingFieldError{Field: field.name}
		}
	}

	switch f.Gender {
	case GenderMale, GenderFemale, GenderOther:
	default:
		return ErrInvalidGender
	}

	if !f.TreatmentConsent || !f.DisclosureConsent || !f.PrivacyConsent {
		return ErrConsentRequired
	}
	return nil
}
