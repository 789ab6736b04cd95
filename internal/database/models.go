package database

import (
	"time"

	"gorm.io/gorm"
)

// RecordUpload logs every raw criminal-record document ingested into
// the store, whether from a file upload or a portal search.
type RecordUpload struct {
	gorm.Model
	Source       string    `json:"source"`
	DocketNumber string    `json:"docket_number"`
	RawDocument  string    `json:"raw_document" gorm:"type:text"`
	CaseCount    int       `json:"case_count"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message"`
	UploadTime   time.Time `json:"upload_time"`
	IPAddress    string    `json:"ip_address"`
}

// SearchLog records every docket search sent to the UJS portal.
type SearchLog struct {
	gorm.Model
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	DOB          string    `json:"dob"`
	ResultCount  int       `json:"result_count"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message"`
	QueryTime    time.Time `json:"query_time"`
	IPAddress    string    `json:"ip_address"`
}

// GeneratedPackage records a petition-package generation: which
// petitions were denormalized and sent off for document rendering.
type GeneratedPackage struct {
	gorm.Model
	PetitionIDs   string    `json:"petition_ids"`
	PetitionCount int       `json:"petition_count"`
	GeneratedAt   time.Time `json:"generated_at"`
	IPAddress     string    `json:"ip_address"`
}

func (RecordUpload) TableName() string {
	return "record_uploads"
}

func (SearchLog) TableName() string {
	return "search_logs"
}

func (GeneratedPackage) TableName() string {
	return "generated_packages"
}
