package domain

// Kind tags a finding with the rule that produced it.
type Kind string

const (
	KindSystemError Kind = "SYSTEM_ERROR"

	// referential integrity
	KindOrphanedRecord        Kind = "ORPHANED_RECORD"
	KindMissingAssignment     Kind = "MISSING_ASSIGNMENT"
	KindInvalidArrayReference Kind = "INVALID_ARRAY_REFERENCE"

	// unique constraints
	KindDuplicateCompanyName     Kind = "DUPLICATE_COMPANY_NAME"
	KindDuplicateContactEmail    Kind = "DUPLICATE_CONTACT_EMAIL"
	KindDuplicateArrayEmail      Kind = "DUPLICATE_JSONB_EMAIL"
	KindDuplicatePhone           Kind = "DUPLICATE_PHONE"
	KindDuplicateOpportunityName Kind = "DUPLICATE_OPPORTUNITY_NAME"
	KindMultipleContacts         Kind = "MULTIPLE_CONTACTS_PER_COMPANY"
	KindDuplicateTagName         Kind = "DUPLICATE_TAG_NAME"
	KindDuplicateUserEmail       Kind = "DUPLICATE_USER_EMAIL"
	KindSkippedCheck             Kind = "SKIPPED_CHECK"

	// required fields
	KindMissingRequiredField     Kind = "MISSING_REQUIRED_FIELD"
	KindInvalidSector            Kind = "INVALID_SECTOR"
	KindMissingTimestamp         Kind = "MISSING_TIMESTAMP"
	KindMissingContactInfo       Kind = "MISSING_CONTACT_INFO"
	KindMissingCompanyAssignment Kind = "MISSING_COMPANY_ASSIGNMENT"
	KindInvalidStage             Kind = "INVALID_STAGE"
	KindMissingRevenue           Kind = "MISSING_REVENUE"
	KindUnassignedTask           Kind = "UNASSIGNED_TASK"
	KindCompanyWithoutContacts   Kind = "COMPANY_WITHOUT_CONTACTS"
	KindDealWithoutContacts      Kind = "DEAL_WITHOUT_CONTACTS"
	KindCompanyMismatch          Kind = "COMPANY_MISMATCH"

	// data quality
	KindInvalidEmailFormat   Kind = "INVALID_EMAIL_FORMAT"
	KindInvalidPhoneFormat   Kind = "INVALID_PHONE_FORMAT"
	KindInvalidWebsiteFormat Kind = "INVALID_WEBSITE_FORMAT"
)

// fixableKinds declares which kinds have a pre-approved mechanical
// remediation. Kinds absent from the table are not fixable.
var fixableKinds = map[Kind]bool{
	KindDuplicateCompanyName:     true,
	KindDuplicateContactEmail:    true,
	KindDuplicateArrayEmail:      true,
	KindDuplicatePhone:           true,
	KindDuplicateOpportunityName: true,
	KindDuplicateTagName:         true,
	KindMissingRequiredField:     true,
	KindInvalidSector:            true,
	KindMissingTimestamp:         true,
	KindMissingContactInfo:       true,
	KindMissingCompanyAssignment: true,
	KindInvalidStage:             true,
	KindUnassignedTask:           true,
	KindCompanyWithoutContacts:   true,
	KindDealWithoutContacts:      true,
}

// Fixable reports whether findings of this kind can be fixed mechanically.
func (k Kind) Fixable() bool {
	return fixableKinds[k]
}
